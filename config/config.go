// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server     ServerConfig
	JWT        JWTConfig
	Simulation SimulationConfig
	Analytics  AnalyticsConfig
	Dashboard  DashboardConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// SimulationConfig holds the live-simulation settings.
type SimulationConfig struct {
	TickInterval time.Duration
	Seed         int64 // 0 means time-seeded
	AutoStart    bool
}

// AnalyticsConfig holds the analytics cache settings. One TTL serves both
// analytics services.
type AnalyticsConfig struct {
	CacheTTL time.Duration
}

// DashboardConfig holds the configured dashboard accounts. Passwords are
// bcrypt hashes; there is no user store.
type DashboardConfig struct {
	OrganizerUser string
	OrganizerHash string
	ViewerUser    string
	ViewerHash    string
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		},
		Simulation: SimulationConfig{
			TickInterval: time.Duration(getEnvInt("SIM_TICK_MS", 5000)) * time.Millisecond,
			Seed:         int64(getEnvInt("SIM_SEED", 0)),
			AutoStart:    getEnv("SIM_AUTOSTART", "true") == "true",
		},
		Analytics: AnalyticsConfig{
			CacheTTL: time.Duration(getEnvInt("ANALYTICS_CACHE_TTL_MS", 5000)) * time.Millisecond,
		},
		Dashboard: DashboardConfig{
			OrganizerUser: getEnv("DASHBOARD_ORGANIZER_USER", "organizer"),
			// dev-only default, bcrypt("password"); override outside dev
			OrganizerHash: getEnv("DASHBOARD_ORGANIZER_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			ViewerUser:    getEnv("DASHBOARD_VIEWER_USER", "viewer"),
			ViewerHash:    getEnv("DASHBOARD_VIEWER_HASH", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
