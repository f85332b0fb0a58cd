package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBUrl              string
	Environment        string
	Port               string
	CORSAllowedOrigins []string

	EmailProvider    string
	EmailFromAddress string
	EmailFromName    string
	SESRegion        string
	SESAccessKeyID   string
	SESSecretKey     string
}

// Load loads configuration from environment variables.
// It attempts to load from a .env file if not in production.
// DATABASE_URL is required: Load returns an error when it is missing so the
// process exits before any connection attempt is made.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist; we rely on system environment variables.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:      env,
		DBUrl:            os.Getenv("DATABASE_URL"),
		Port:             os.Getenv("PORT"),
		EmailProvider:    os.Getenv("EMAIL_PROVIDER"),
		EmailFromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:    os.Getenv("EMAIL_FROM_NAME"),
		SESRegion:        os.Getenv("AWS_SES_REGION"),
		SESAccessKeyID:   os.Getenv("AWS_SES_ACCESS_KEY_ID"),
		SESSecretKey:     os.Getenv("AWS_SES_SECRET_ACCESS_KEY"),
	}

	if cfg.DBUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.EmailProvider == "" {
		cfg.EmailProvider = "noop"
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}
