package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store error policies for the invoice mutation pipeline.
const (
	StoreErrorsSurface = "surface"
	StoreErrorsSwallow = "swallow"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DB_URL"`

	JWTSecret      string `env:"JWT_SECRET"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"true"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// StoreErrors decides what a failed insert/update looks like to the user:
	// "surface" re-displays the form with a message, "swallow" redirects anyway.
	StoreErrors string `env:"INVOICE_STORE_ERRORS" envDefault:"surface"`

	DigestSchedule   string `env:"DIGEST_SCHEDULE" envDefault:"0 9 * * *"`
	ViewCacheSweep   string `env:"VIEW_CACHE_SWEEP" envDefault:"@every 10m"`
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_PHONE_NUMBER"`
	DigestRecipient  string `env:"DIGEST_RECIPIENT"`

	SeedUserName     string `env:"SEED_USER_NAME" envDefault:"User"`
	SeedUserEmail    string `env:"SEED_USER_EMAIL"`
	SeedUserPassword string `env:"SEED_USER_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreErrors {
	case StoreErrorsSurface, StoreErrorsSwallow:
	default:
		return Config{}, fmt.Errorf("INVOICE_STORE_ERRORS: unknown policy %q", cfg.StoreErrors)
	}
	if cfg.JWTExpiryHours <= 0 {
		cfg.JWTExpiryHours = 24
	}
	return cfg, nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// DigestEnabled reports whether SMS delivery of the pending-invoice digest is configured.
func (c Config) DigestEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != "" && c.DigestRecipient != ""
}
