package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port       string   `env:"PORT" envDefault:"8080"`
	GinMode    string   `env:"GIN_MODE"`
	LogLevel   string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string   `env:"LOG_FORMAT" envDefault:"text"`
	CORSOrigin []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	// proxies allowed to set X-Forwarded-For; empty trusts none
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// "postgres" or "memory"
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"rizia"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTAccessSecret    string `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret   string `env:"JWT_REFRESH_SECRET"`
	JWTAccessTTLHours  int    `env:"JWT_ACCESS_TTL_HOURS" envDefault:"24"`
	JWTRefreshTTLHours int    `env:"JWT_REFRESH_TTL_HOURS" envDefault:"168"`

	// Bootstrap admin, provisioned on first admin login
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@rizia.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	// Bearer accepted on public read routes when set
	PublicAnonKey string `env:"PUBLIC_ANON_KEY"`

	// Redis Config
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka Config
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"rizia.events"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"rizia-notifier"`

	// Razorpay Keys
	RazorpayKey    string `env:"RAZORPAY_KEY_ID"`
	RazorpaySecret string `env:"RAZORPAY_KEY_SECRET"`

	// SMTP Config
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPFromName  string `env:"SMTP_FROM_NAME" envDefault:"Rizia Events"`
	SMTPFromEmail string `env:"SMTP_FROM_EMAIL"`

	// ulule/limiter formatted rate, e.g. "100-M"
	RateLimit string `env:"RATE_LIMIT" envDefault:"100-M"`
}

// Load reads .env (if present) and environment variables into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}
	return Parse()
}

// Parse reads the current environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StoreDriver != "postgres" && c.StoreDriver != "memory" {
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == "postgres" && c.JWTAccessSecret == "" {
		return errors.New("JWT_ACCESS_SECRET is required")
	}
	if c.JWTAccessSecret == "" {
		c.JWTAccessSecret = "dev-access-secret"
	}
	if c.JWTRefreshSecret == "" {
		c.JWTRefreshSecret = c.JWTAccessSecret + "-refresh"
	}
	if c.JWTAccessTTLHours <= 0 || c.JWTRefreshTTLHours <= 0 {
		return errors.New("JWT TTLs must be positive")
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must not be empty")
	}
	return nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLHours) * time.Hour
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWTRefreshTTLHours) * time.Hour
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
