package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Redis   RedisConfig
	Session SessionConfig
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_URL,     default=http://localhost:5000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,          default=localhost:6379"`
	DB           int           `env:"REDIS_DB,            default=0"`
	DirectoryTTL time.Duration `env:"DIRECTORY_CACHE_TTL, default=30s"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE, default=token"`
	CSRFSecret string        `env:"CSRF_SECRET"`
	CSRFTTL    time.Duration `env:"CSRF_TTL,       default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
