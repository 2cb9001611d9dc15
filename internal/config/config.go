package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys. Each is read from the environment of the same name.
const (
	KeyAppEnv        = "APP_ENV"
	KeyPort          = "PORT"
	KeyDatabasePath  = "DATABASE_PATH"
	KeyJWTSecret     = "JWT_SECRET"
	KeyTokenTTL      = "TOKEN_TTL"
	KeyBcryptCost    = "BCRYPT_COST"
	KeyLogLevel      = "LOG_LEVEL"
	KeyAuthRateLimit = "AUTH_RATE_LIMIT"
	KeyAuthRateBurst = "AUTH_RATE_BURST"
)

const minJWTSecretLength = 32

type Config struct {
	AppEnv   string
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	LogLevel string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Path string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// RateLimit is the sustained number of /register and /login requests per
	// second allowed from one client address. Zero disables throttling.
	RateLimit float64
	RateBurst int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppEnv, "production")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyDatabasePath, "tunebox.db")
	v.SetDefault(KeyTokenTTL, 24*time.Hour)
	v.SetDefault(KeyBcryptCost, 12)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAuthRateLimit, 1.0)
	v.SetDefault(KeyAuthRateBurst, 5)
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) into the process environment. Missing files are not an error.
// Variables already set in the environment win.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration from v, which is expected to have the
// environment and any command-line flags bound to it, and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config

	cfg.AppEnv = v.GetString(KeyAppEnv)
	cfg.Server.Port = v.GetString(KeyPort)
	cfg.Database.Path = v.GetString(KeyDatabasePath)
	cfg.LogLevel = v.GetString(KeyLogLevel)

	cfg.Auth.JWTSecret = v.GetString(KeyJWTSecret)
	cfg.Auth.TokenTTL = v.GetDuration(KeyTokenTTL)
	cfg.Auth.BcryptCost = v.GetInt(KeyBcryptCost)
	cfg.Auth.RateLimit = v.GetFloat64(KeyAuthRateLimit)
	cfg.Auth.RateBurst = v.GetInt(KeyAuthRateBurst)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting that is missing or out of range.
func (c *Config) Validate() error {
	switch {
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("%s environment variable is required", KeyJWTSecret)
	case len(c.Auth.JWTSecret) < minJWTSecretLength:
		return fmt.Errorf("%s must be at least %d characters for HMAC-SHA256 security", KeyJWTSecret, minJWTSecretLength)
	case c.Auth.TokenTTL <= 0:
		return fmt.Errorf("%s must be positive, got %s", KeyTokenTTL, c.Auth.TokenTTL)
	case c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14:
		return fmt.Errorf("%s must be between 4 and 14, got %d", KeyBcryptCost, c.Auth.BcryptCost)
	case c.Auth.RateLimit < 0:
		return fmt.Errorf("%s must not be negative, got %g", KeyAuthRateLimit, c.Auth.RateLimit)
	case c.Auth.RateBurst < 1:
		return fmt.Errorf("%s must be at least 1, got %d", KeyAuthRateBurst, c.Auth.RateBurst)
	case c.Server.Port == "":
		return fmt.Errorf("%s must not be empty", KeyPort)
	case c.Database.Path == "":
		return fmt.Errorf("%s must not be empty", KeyDatabasePath)
	}
	return nil
}

// IsDevelopment reports whether the process runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
