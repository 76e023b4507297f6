package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rizia-events/rizia-backend/config"
	"github.com/rizia-events/rizia-backend/internal/analytics"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/booking"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/notification"
	"github.com/rizia-events/rizia-backend/internal/payment"
	"github.com/rizia-events/rizia-backend/internal/session"
	"github.com/rizia-events/rizia-backend/internal/submission"
	"github.com/rizia-events/rizia-backend/internal/userprofile"
	"github.com/rizia-events/rizia-backend/middleware"

	_ "github.com/rizia-events/rizia-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the long-lived collaborators built by main. Nil Revocations and
// Publisher fall back to in-memory and no-op implementations. Payments and
// Redis are optional.
type Deps struct {
	Config      *config.Config
	Store       kvstore.Store
	Revocations session.RevocationStore
	Redis       *redis.Client
	Publisher   notification.Publisher
	Payments    payment.Gateway
}

// New builds the gin engine with every route under /api/v1.
func New(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	if d.Revocations == nil {
		d.Revocations = session.NewMemoryStore()
	}
	if d.Publisher == nil {
		d.Publisher = notification.NopPublisher{}
	}

	r := gin.New()
	// client IPs key the rate limiter and audit log
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigin)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit, err := middleware.RateLimiter(cfg.RateLimit, d.Redis)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api/v1")
	api.Use(limit)
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(d.Store))
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(d.Store)
	authSvc := auth.NewService(authRepo, d.Revocations, auditSvc, auth.Options{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	authHandler := auth.NewHandler(authSvc)

	authRequired := middleware.AuthMiddleware(authSvc)
	adminOnly := middleware.AdminOnly()

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/signin", authHandler.Signin)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/session", authRequired, authHandler.Session)
		authGroup.POST("/signout", authRequired, authHandler.Signout)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(d.Store)
	eventSvc := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	api.POST("/init", eventHandler.Init)

	eventRoutes := api.Group("/events")
	{
		public := middleware.PublicAccess(cfg.PublicAnonKey, authSvc)
		eventRoutes.GET("", public, eventHandler.ListEvents)
		eventRoutes.GET("/:id", public, eventHandler.GetEvent)

		eventRoutes.POST("", authRequired, adminOnly, eventHandler.CreateEvent)
		eventRoutes.PUT("/:id", authRequired, adminOnly, eventHandler.UpdateEvent)
		eventRoutes.DELETE("/:id", authRequired, adminOnly, eventHandler.DeleteEvent)
	}

	protected := api.Group("")
	protected.Use(authRequired)

	// ========== Bookings ==========
	bookingRepo := booking.NewRepository(d.Store)
	bookingSvc := booking.NewService(bookingRepo, eventSvc, authRepo, d.Payments, d.Publisher, auditSvc)
	bookingHandler := booking.NewHandler(bookingSvc)

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("", bookingHandler.CreateBooking)
		bookingRoutes.GET("", adminOnly, bookingHandler.ListAllBookings)
		bookingRoutes.GET("/user/:userId", bookingHandler.ListUserBookings)
		bookingRoutes.GET("/event/:eventId", adminOnly, bookingHandler.ListEventBookings)
		bookingRoutes.GET("/:id", bookingHandler.GetBooking)
		bookingRoutes.GET("/:id/ticket", bookingHandler.DownloadTicket)
		bookingRoutes.PUT("/:id", bookingHandler.UpdateBookingStatus)
		bookingRoutes.DELETE("/:id", adminOnly, bookingHandler.DeleteBooking)
	}

	// ========== Submissions ==========
	submissionRepo := submission.NewRepository(d.Store)
	submissionSvc := submission.NewService(submissionRepo, eventSvc, authRepo, d.Publisher, auditSvc)
	submissionHandler := submission.NewHandler(submissionSvc)

	submissionRoutes := protected.Group("/submissions")
	{
		submissionRoutes.POST("", submissionHandler.Create)
		submissionRoutes.GET("", adminOnly, submissionHandler.ListAll)
		submissionRoutes.GET("/user/:userId", submissionHandler.ListByUser)
		submissionRoutes.GET("/event/:id", adminOnly, submissionHandler.ListByCompetition)
		submissionRoutes.GET("/:id", submissionHandler.Get)
		submissionRoutes.PUT("/:id", adminOnly, submissionHandler.UpdateStatus)
		submissionRoutes.DELETE("/:id", adminOnly, submissionHandler.Delete)
	}

	// ========== Users ==========
	profileHandler := userprofile.NewHandler(userprofile.NewService(authRepo, auditSvc))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("", adminOnly, profileHandler.ListUsers)
		userRoutes.GET("/:id", profileHandler.GetUser)
		userRoutes.PUT("/:id", profileHandler.UpdateUser)
	}

	// ========== Analytics ==========
	analyticsSvc := analytics.NewService(eventRepo, bookingRepo, submissionRepo, authRepo)
	analyticsHandler := analytics.NewHandler(analyticsSvc)

	analyticsRoutes := protected.Group("/analytics")
	analyticsRoutes.Use(adminOnly)
	{
		analyticsRoutes.GET("", analyticsHandler.GetAnalytics)
		analyticsRoutes.GET("/export", analyticsHandler.ExportAnalytics)
	}

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/audit-logs")
	auditRoutes.Use(adminOnly)
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/stats", auditHandler.GetAuditLogStats)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
