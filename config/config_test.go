package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "content/ember", cfg.ContentDir)
	assert.Equal(t, "saves", cfg.SaveDir)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 3, cfg.QueryCount)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROGUECORE_CONTENT_DIR", "/tmp/pack")
	t.Setenv("ROGUECORE_SAVE_DIR", "/tmp/saves")
	t.Setenv("ROGUECORE_DEBUG", "true")
	t.Setenv("ROGUECORE_LOG_FORMAT", "json")
	t.Setenv("ROGUECORE_SEED", "42")
	t.Setenv("ROGUECORE_QUERY_COUNT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		ContentDir: "/tmp/pack",
		SaveDir:    "/tmp/saves",
		Debug:      true,
		LogFormat:  "json",
		Seed:       42,
		QueryCount: 5,
	}, cfg)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ROGUECORE_SEED", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid text", Config{LogFormat: "text", QueryCount: 3}, ""},
		{"valid json uppercase", Config{LogFormat: "JSON", QueryCount: 1}, ""},
		{"bad format", Config{LogFormat: "xml", QueryCount: 3}, "unknown log format"},
		{"zero count", Config{LogFormat: "text"}, "query count must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("text hides debug by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Config{LogFormat: "text"}.Logger(&buf)

		logger.Debug("hidden")
		logger.Warn("shown", "key", "value")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "key=value")
	})

	t.Run("json with debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Config{LogFormat: "json", Debug: true}.Logger(&buf)

		logger.Debug("trace", "action", "fireball")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "DEBUG", rec["level"])
		assert.Equal(t, "fireball", rec["action"])
	})
}
