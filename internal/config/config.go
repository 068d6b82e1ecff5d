package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "viewminder.db"
	defaultStoreDriver       = "sql"
	defaultAppID             = "viewminder"
	defaultFrontendURL       = "https://viewminder.vercel.app"
	defaultCurrency          = "aud"
	defaultAdminPassword     = "admin123"
	defaultAdminSecret       = "change-me-admin-session-secret"
	defaultAdminSessionTTL   = "12h"
	defaultUploadsDir        = "./uploads"
	defaultUploadsURLBase    = "/static/uploads"
	defaultMaxUploadSizeMB   = "50"
	defaultStatusPoll        = "5s"
	defaultRelayAllowedHosts = "hooks.zapier.com"
	defaultPersistFromHook   = "true"
)

// Booking store drivers.
const (
	StoreSQL       = "sql"
	StoreFirestore = "firestore"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	DatabaseURL        string
	StoreDriver        string
	FirestoreProjectID string
	AppID              string

	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendURL         string
	CheckoutCurrency    string

	AdminPassword      string
	AdminSessionSecret string
	AdminSessionTTL    time.Duration

	PersistToken           string
	WebhookPersistBookings bool

	UploadsDir      string
	UploadsURLBase  string
	MaxUploadSizeMB int64

	StatusPollInterval time.Duration
	RelayAllowedHosts  []string
	CORSAllowedOrigins []string
}

// Load reads an optional .env file, then the environment.
// Variables already set in the environment win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", defaultStoreDriver)))
	cfg.FirestoreProjectID = strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	cfg.AppID = strings.TrimSpace(getEnv("APP_ID", defaultAppID))

	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.StripeWebhookSecret = strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(getEnv("FRONTEND_URL", defaultFrontendURL)), "/")
	cfg.CheckoutCurrency = strings.ToLower(strings.TrimSpace(getEnv("CHECKOUT_CURRENCY", defaultCurrency)))

	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", defaultAdminPassword)
	cfg.AdminSessionSecret = strings.TrimSpace(getEnv("ADMIN_SESSION_SECRET", defaultAdminSecret))
	cfg.PersistToken = strings.TrimSpace(os.Getenv("PERSIST_TOKEN"))
	cfg.WebhookPersistBookings = parseBoolEnv("WEBHOOK_PERSIST_BOOKINGS", defaultPersistFromHook)

	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))
	cfg.UploadsURLBase = strings.TrimSpace(getEnv("UPLOADS_URL_BASE", defaultUploadsURLBase))

	var err error
	cfg.AdminSessionTTL, err = parseDurationEnv("ADMIN_SESSION_TTL", defaultAdminSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.StatusPollInterval, err = parseDurationEnv("STATUS_POLL_INTERVAL", defaultStatusPoll)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadSizeMB, err = parseIntEnv("MAX_UPLOAD_SIZE_MB", defaultMaxUploadSizeMB)
	if err != nil {
		return nil, err
	}

	cfg.RelayAllowedHosts = splitList(getEnv("RELAY_ALLOWED_HOSTS", defaultRelayAllowedHosts))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) MaxUploadSize() int64 {
	return c.MaxUploadSizeMB * 1024 * 1024
}

func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func validateConfig(cfg *Config) error {
	if cfg.AdminSessionTTL <= 0 {
		return fmt.Errorf("ADMIN_SESSION_TTL must be > 0")
	}
	if cfg.StatusPollInterval <= 0 {
		return fmt.Errorf("STATUS_POLL_INTERVAL must be > 0")
	}
	if cfg.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be > 0")
	}
	if cfg.AppID == "" {
		return fmt.Errorf("APP_ID must not be empty")
	}
	switch cfg.StoreDriver {
	case StoreSQL:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must not be empty")
		}
	case StoreFirestore:
		if cfg.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_DRIVER=firestore")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: sql, firestore")
	}
	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return fmt.Errorf("ADMIN_PASSWORD must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.AdminPassword, defaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminSessionSecret, defaultAdminSecret) {
			return fmt.Errorf("in prod/release ADMIN_SESSION_SECRET must be set and not default")
		}
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY must be set")
		}
		if cfg.StripeWebhookSecret == "" {
			return fmt.Errorf("in prod/release STRIPE_WEBHOOK_SECRET must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
