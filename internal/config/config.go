// internal/config/config.go
//
// Environment-driven configuration for the 2048 server.
// Values come from the process environment; in development a .env file in the
// working directory is loaded first (existing variables win).
//
// Environment variables:
//   PORT=5175
//   LOG_LEVEL=info
//   DB_PATH=./data/app.db
//   CLIENT_ORIGIN=http://localhost:5173
//   JWT_SECRET=dev_secret_change_me
//   JWT_EXPIRES_DAYS=14
//   COOKIE_NAME=g2048_token
//   NODE_ENV=production        (secure cookies)
//   DAILY_SALT=local_dev_salt
//   RATE_LIMIT_MAX=120         (0 disables)
//   RATE_LIMIT_WINDOW=60s
//   SESSION_TTL=24h

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the resolved server configuration.
type Config struct {
	Port            string
	LogLevel        string
	DBPath          string
	ClientOrigin    string
	JWTSecret       string
	JWTTTL          time.Duration
	CookieName      string
	Production      bool
	DailySalt       string
	RateLimitMax    int
	RateLimitWindow time.Duration
	SessionTTL      time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	c := Config{
		Port:            getEnv("PORT", "5175"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBPath:          getEnv("DB_PATH", "./data/app.db"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:       getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:          time.Duration(getInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:      getEnv("COOKIE_NAME", "g2048_token"),
		Production:      os.Getenv("NODE_ENV") == "production",
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 120),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Minute),
		SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET is the development default")
	}
	return c
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("not a positive duration, using default")
		return def
	}
	return d
}
