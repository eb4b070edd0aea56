package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every knob of the session core and its embedding surface.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Platform PlatformConfig
	Store    StoreConfig
	Session  SessionConfig
}

// PlatformConfig points the gateway at the quiz/event platform API.
type PlatformConfig struct {
	BaseURL     string        `env:"PLATFORM_BASE_URL, default=http://localhost:9000"`
	HTTPTimeout time.Duration `env:"PLATFORM_TIMEOUT,  default=10s"`
}

// StoreConfig selects and configures the credential slot backend.
type StoreConfig struct {
	Backend   string `env:"TOKEN_STORE,       default=file"` // file | redis
	FilePath  string `env:"TOKEN_FILE,        default=.persona-token"`
	RedisAddr string `env:"TOKEN_REDIS_ADDR,  default=localhost:6379"`
	RedisDB   int    `env:"TOKEN_REDIS_DB,    default=0"`
	RedisKey  string `env:"TOKEN_REDIS_KEY,   default=persona:token"`
}

// SessionConfig tunes session lifecycle behaviour.
type SessionConfig struct {
	// NotifyDuration is how long the logout notification stays visible.
	NotifyDuration time.Duration `env:"LOGOUT_NOTIFY_DURATION, default=2000ms"`
	// RefreshLead is how far ahead of token expiry the refresh loop fires.
	RefreshLead time.Duration `env:"TOKEN_REFRESH_LEAD, default=2m"`
	// LoginPath is the entry point unauthenticated visitors are sent to.
	LoginPath string `env:"LOGIN_PATH, default=/login"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
