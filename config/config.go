// Package config holds process configuration read from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds roguecore configuration. Command-line flags override it.
type Config struct {
	ContentDir string `env:"ROGUECORE_CONTENT_DIR" envDefault:"content/ember"`
	SaveDir    string `env:"ROGUECORE_SAVE_DIR"    envDefault:"saves"`
	Debug      bool   `env:"ROGUECORE_DEBUG"`
	LogFormat  string `env:"ROGUECORE_LOG_FORMAT"  envDefault:"text"`
	Seed       int64  `env:"ROGUECORE_SEED"`
	QueryCount int    `env:"ROGUECORE_QUERY_COUNT" envDefault:"3"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns a Config from the environment and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.QueryCount <= 0 {
		return fmt.Errorf("config: query count must be positive, got %d", c.QueryCount)
	}
	return nil
}

// Logger builds a slog logger writing to w. Debug enables debug records;
// otherwise only warnings and errors are written.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
