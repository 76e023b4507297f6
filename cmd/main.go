package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rizia-events/rizia-backend/config"
	"github.com/rizia-events/rizia-backend/database"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/notification"
	"github.com/rizia-events/rizia-backend/internal/payment"
	"github.com/rizia-events/rizia-backend/internal/session"
	"github.com/rizia-events/rizia-backend/logger"
	"github.com/rizia-events/rizia-backend/routes"
)

// @title Rizia Events API
// @version 1.0
// @description Event discovery, ticket booking and competition submissions.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========== Store ==========
	var store kvstore.Store
	switch cfg.StoreDriver {
	case "memory":
		logger.Log.Warn("[main] using in-memory store, data is lost on restart")
		store = kvstore.NewMemoryStore()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			logger.Log.Error("[main] database connection failed", "error", err)
			os.Exit(1)
		}
		defer database.Close(db)

		gs := kvstore.NewGormStore(db)
		if err := gs.Migrate(); err != nil {
			logger.Log.Error("[main] kv_store migration failed", "error", err)
			os.Exit(1)
		}
		store = gs
	}

	// ========== Redis ==========
	var (
		redisClient *redis.Client
		revocations session.RevocationStore = session.NewMemoryStore()
	)
	if cfg.RedisAddr != "" {
		redisClient, err = session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Error("[main] redis init failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		revocations = session.NewRedisStore(redisClient)
		logger.Log.Info("[main] redis connected", "addr", cfg.RedisAddr)
	}

	// ========== Kafka ==========
	publisher := notification.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	var wg sync.WaitGroup
	if len(cfg.KafkaBrokers) > 0 {
		mailer := notification.NewSMTPMailer(cfg)
		if !mailer.Configured() {
			logger.Log.Warn("[main] SMTP not configured, notification emails will be skipped")
		}
		consumer := notification.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID,
			notification.NewEmailHandler(mailer))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil {
				logger.Log.Error("[main] notification consumer stopped", "error", err)
			}
		}()
		logger.Log.Info("[main] kafka enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// ========== Payments ==========
	var payments payment.Gateway
	if gw := payment.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret); gw != nil {
		payments = gw
		logger.Log.Info("[main] razorpay orders enabled")
	}

	router, err := routes.New(routes.Deps{
		Config:      cfg,
		Store:       store,
		Revocations: revocations,
		Redis:       redisClient,
		Publisher:   publisher,
		Payments:    payments,
	})
	if err != nil {
		logger.Log.Error("[main] router setup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info("[main] server listening", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("[main] server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("[main] graceful shutdown failed", "error", err)
	}
	wg.Wait()
	logger.Log.Info("[main] stopped")
}
