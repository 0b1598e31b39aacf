// Package config loads application configuration from environment
// variables and an optional .env file via Viper. Env vars win.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups all application configuration.
type Config struct {
	App  AppConfig
	Log  LogConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// DBConfig is PostgreSQL configuration.
// If DatabaseURL is set it is used as the full connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
}

// ConnectionString returns the DSN to use: DatabaseURL when set,
// otherwise one built from the individual fields.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig is token signing configuration.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// HTTPConfig is HTTP server configuration.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment variables and an optional
// .env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Log: LogConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetString("APP_ENV") == "development",
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			MinConns:    v.GetInt32("DB_MIN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: time.Duration(v.GetInt("JWT_EXPIRATION_MINUTES")) * time.Minute,
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host:            v.GetString("HTTP_HOST"),
			Port:            v.GetInt("HTTP_PORT"),
			ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "fieldops")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "fieldops")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)

	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "fieldops")

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
}
