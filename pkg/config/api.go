package config

import (
	"errors"
	"strings"
	"time"
)

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment    string
	Addr           string
	DatabaseURL    string
	MigrationsDir  string
	JWTSecret      string
	TokenTTL       time.Duration
	SearchLimit    int
	SearchMaxLimit int
}

// ErrMissingJWTSecret signals that the signing key was not configured.
// Startup must fail instead of serving requests that can never authenticate.
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required")

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:    GetString("APP_ENV", "development"),
		Addr:           GetString("API_ADDR", ":4000"),
		DatabaseURL:    GetString("DATABASE_URL", "postgres://jobsphere:jobsphere@db:5432/jobsphere?sslmode=disable"),
		MigrationsDir:  GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		JWTSecret:      GetString("JWT_SECRET", ""),
		TokenTTL:       time.Duration(GetInt("TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		SearchLimit:    GetInt("SEARCH_PAGE_LIMIT", 50),
		SearchMaxLimit: GetInt("SEARCH_PAGE_LIMIT_MAX", 100),
	}
}

// Validate reports configuration that must stop the process at startup.
func (c APIConfig) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
