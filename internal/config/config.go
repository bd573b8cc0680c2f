// apps/go-server/internal/config/config.go
//
// Environment-driven configuration. A .env file is loaded first when present
// (development); real environment variables always win.
//
// Variables:
//   PORT               listen port (default 5175)
//   LOG_LEVEL          zerolog level (default info)
//   LOG_FORMAT         "json" (default) or "console"
//   CLIENT_ORIGIN      CORS origin of the browser page (default http://localhost:5173)
//   SESSION_SECRET     HS256 key for the table cookie (default dev value)
//   COOKIE_NAME        table cookie name (default numguess_table)
//   NODE_ENV           "production" turns on Secure/SameSite=None cookies
//   LEADERBOARD_STORE  "memory" (default) or "sqlite"
//   LEADERBOARD_DSN    SQLite DSN when LEADERBOARD_STORE=sqlite (default :memory:)
//   TABLE_IDLE_TTL     idle tables are evicted after this duration (default 2h)

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "dev_secret_change_me"

// Config holds the server settings.
type Config struct {
	Port             string
	LogLevel         string
	LogFormat        string
	ClientOrigin     string
	SessionSecret    string
	CookieName       string
	Production       bool
	LeaderboardStore string
	LeaderboardDSN   string
	TableIdleTTL     time.Duration
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Port:             getEnv("PORT", "5175"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SessionSecret:    getEnv("SESSION_SECRET", devSecret),
		CookieName:       getEnv("COOKIE_NAME", "numguess_table"),
		Production:       os.Getenv("NODE_ENV") == "production",
		LeaderboardStore: strings.ToLower(getEnv("LEADERBOARD_STORE", "memory")),
		LeaderboardDSN:   getEnv("LEADERBOARD_DSN", ":memory:"),
		TableIdleTTL:     2 * time.Hour,
	}

	if v := os.Getenv("TABLE_IDLE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("TABLE_IDLE_TTL: invalid duration %q", v)
		}
		c.TableIdleTTL = d
	}
	switch c.LeaderboardStore {
	case "memory", "sqlite":
	default:
		return nil, fmt.Errorf("LEADERBOARD_STORE: want memory or sqlite, got %q", c.LeaderboardStore)
	}
	if c.Production && c.SessionSecret == devSecret {
		return nil, fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
