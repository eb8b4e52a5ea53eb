package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full runtime configuration of the console client, loaded
// from the environment.
type Config struct {
	// APIBaseURL is the root of the remote admin API, without a trailing
	// slash.
	APIBaseURL string `env:"CONSOLE_API_BASE_URL, default=https://api.utpfund.live/api"`

	// HTTPTimeout is the wall-clock budget of a single request. A call
	// exceeding it fails with status 408; there is no retry.
	HTTPTimeout time.Duration `env:"CONSOLE_HTTP_TIMEOUT, default=300s"`

	// ValidateOnStart forces an authoritative profile fetch after a
	// session restore instead of trusting the persisted pair.
	ValidateOnStart bool `env:"CONSOLE_VALIDATE_ON_START, default=false"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Store StoreConfig
	Redis RedisConfig
}

// StoreConfig selects and parameterises the session store backend.
type StoreConfig struct {
	// Backend is "file" or "redis".
	Backend string `env:"CONSOLE_STORE_BACKEND, default=file"`
	// Dir is the directory holding the session file (file backend).
	// Empty means a "console" directory under the user config dir.
	Dir string `env:"CONSOLE_STORE_DIR"`
	// PollInterval is how often the file backend checks for writes made
	// by other processes.
	PollInterval time.Duration `env:"CONSOLE_STORE_POLL_INTERVAL, default=500ms"`
}

// RedisConfig parameterises the redis session store backend.
type RedisConfig struct {
	Addr   string `env:"CONSOLE_REDIS_ADDR, default=localhost:6379"`
	DB     int    `env:"CONSOLE_REDIS_DB, default=0"`
	Prefix string `env:"CONSOLE_REDIS_PREFIX, default=console"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Store.Backend != "file" && cfg.Store.Backend != "redis" {
		return nil, fmt.Errorf("config: unknown store backend %q", cfg.Store.Backend)
	}
	return &cfg, nil
}
