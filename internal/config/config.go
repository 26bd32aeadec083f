// Package config loads application configuration from the environment.
//
// cleanenv reads struct tags: `env` names the variable, `env-default`
// supplies the fallback. Everything has a working default, so a bare
// `go run ./cmd/server` starts a usable journal.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Web      WebConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds SQLite settings.
// DB_PATH may be overridden for deployments, e.g. /var/lib/journal/prod.db.
type DatabaseConfig struct {
	Path string `env:"DB_PATH" env-default:"data/journal.db"`
}

// WebConfig holds the locations of the browser client's assets.
type WebConfig struct {
	TemplateDir string `env:"TEMPLATE_DIR" env-default:"web/templates"`
	StaticDir   string `env:"STATIC_DIR"   env-default:"web/static"`
}

// CORSConfig holds CORS settings. The default allows everything so a dev
// frontend on another port can talk to the API; deployments serving the
// client from the same origin can tighten or ignore it.
type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	MaxAge         int    `env:"CORS_MAX_AGE"         env-default:"300"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Server.Port)
	}
	return &cfg, nil
}
