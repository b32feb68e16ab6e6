package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App holds every runtime setting, loaded from the environment.
// A local .env file is read first (if present) so development does
// not need exported variables.
type App struct {
	// DB
	DSN string `envconfig:"DB_DSN" required:"true"`
	// Auth
	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	SignupsDisabled bool   `envconfig:"SIGNUPS_DISABLED" default:"false"`
	// Identity webhook (svix-style shared secret, "whsec_..." format)
	WebhookSecret string `envconfig:"ACCOUNT_WEBHOOK_SECRET"`
	// Email
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"GymTool <noreply@gymtool.app>"`
	// Network
	HTTPAddr   string `envconfig:"HTTP_ADDR" default:":8080"`
	BaseURL    string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
	// Background jobs
	DigestSchedule string `envconfig:"DIGEST_SCHEDULE" default:"@daily"`
	// Metrics
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads .env (optional) and parses the environment into App.
func Load() (App, error) {
	// Missing .env is fine; we rely on system environment variables.
	_ = godotenv.Load()

	var c App
	err := envconfig.Process("", &c)
	return c, err
}
