package sidekick_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ineyio/sidekick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"LMSTUDIO_HOST", "LMSTUDIO_PORT", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX_REQUESTS", "MAX_CONTEXT_SIZE"} {
		t.Setenv(k, "")
	}

	cfg, err := sidekick.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 30, cfg.RateLimitMax)
	assert.Equal(t, 32000, cfg.MaxContextTokens)
	assert.Equal(t, "localhost:1234", cfg.Addr())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LMSTUDIO_HOST", "gpu-box")
	t.Setenv("LMSTUDIO_PORT", "8080")
	t.Setenv("RATE_LIMIT_WINDOW", "10")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("MAX_CONTEXT_SIZE", "4096")

	cfg, err := sidekick.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "gpu-box", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, 4096, cfg.MaxContextTokens)
}

func TestFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("LMSTUDIO_PORT", "not-a-port")

	_, err := sidekick.FromEnv()
	assert.Error(t, err)
}

func TestLoadConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("SIDEKICK_TEST_HOST", "remote-host")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "host: ${SIDEKICK_TEST_HOST}\nport: 4321\nrate_limit_max: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := sidekick.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "remote-host", cfg.Host)
	assert.Equal(t, 4321, cfg.Port)
	assert.Equal(t, 7, cfg.RateLimitMax)
	// Unset fields keep defaults.
	assert.Equal(t, 32000, cfg.MaxContextTokens)
}

func TestConfig_Validate(t *testing.T) {
	cfg := sidekick.DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.RateLimitMax = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.RateLimitWindow = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxContextTokens = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Host = ""
	assert.Error(t, bad.Validate())
}
