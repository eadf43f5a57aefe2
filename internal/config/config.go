package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	DatabaseDSN      string
	JWTSecret        string
	CORSOrigins      string
	AuthorizedEmails []string  // operator allow-list for privileged endpoints
	LoansTrackedFrom time.Time // daily records older than this never enter loan settlement
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=lottery port=5432 sslmode=disable"

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	for _, e := range strings.Split(getEnv("AUTHORIZED_EMAILS", ""), ",") {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			cfg.AuthorizedEmails = append(cfg.AuthorizedEmails, e)
		}
	}

	cutoff := getEnv("LOANS_TRACKED_FROM", "2024-01-01")
	parsed, err := time.Parse("2006-01-02", cutoff)
	if err != nil {
		log.Fatalf("[FATAL] LOANS_TRACKED_FROM must be YYYY-MM-DD, got %q", cutoff)
	}
	cfg.LoansTrackedFrom = parsed

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres DSN for production")
	}
	if len(cfg.AuthorizedEmails) == 0 {
		log.Println("[WARN] AUTHORIZED_EMAILS is empty, only admin users will pass the access gate")
	}

	return cfg
}

// IsAuthorized reports whether the email is on the operator allow-list.
func (c *Config) IsAuthorized(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	for _, e := range c.AuthorizedEmails {
		if e == email {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
