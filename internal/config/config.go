package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path        string
		SeedOnStart bool
	}
	Auth struct {
		JWTSecret     string
		TokenExpiry   time.Duration
		BcryptCost    int
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

const DefaultDatabasePath = "./booktracker.db"

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_seed_on_start", false)

	// Auth defaults
	v.SetDefault("jwt_secret", "")           // Auto-generated if empty
	v.SetDefault("jwt_expiry", "168h")       // 7 days
	v.SetDefault("auth_bcrypt_cost", 10)     // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true) // HTTPS-only cookies

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path:        v.GetString("DATABASE_PATH"),
			SeedOnStart: v.GetBool("DATABASE_SEED_ON_START"),
		},
		Auth: Auth{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenExpiry:   v.GetDuration("JWT_EXPIRY"),
			BcryptCost:    v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies: v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
