package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8085, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, int64(10), config.Server.MaxUploadMB)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, "gemini-2.5-flash", config.Gemini.Model)
	assert.NotEmpty(t, config.Lookup.PreferredDomains)
	assert.Equal(t, "1mg.com", config.Lookup.PreferredDomains[0])
	assert.Equal(t, "./data/reports", config.Reports.Dir)
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medela.toml")

	content := `
[server]
port = 9090
host = "0.0.0.0"

[llm]
default_provider = "claude"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	// Untouched sections keep their defaults
	assert.Equal(t, "gemini-2.5-flash", config.Gemini.Model)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")

	require.NoError(t, os.WriteFile(first, []byte("[server]\nport = 9001\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[server]\nport = 9002\n"), 0644))

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 9002, config.Server.Port)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/medela.toml")
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medela.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9001\n"), 0644))

	t.Setenv("MEDELA_SERVER_PORT", "9100")
	t.Setenv("MEDELA_LOG_LEVEL", "debug")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 7070, "127.0.0.1")
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("environment takes priority over config", func(t *testing.T) {
		t.Setenv("MEDELA_GEMINI_API_KEY", "env-key")

		key, err := ResolveAPIKey("gemini_api_key", "config-key")
		require.NoError(t, err)
		assert.Equal(t, "env-key", key)
	})

	t.Run("falls back to config value", func(t *testing.T) {
		t.Setenv("MEDELA_GEMINI_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "")

		key, err := ResolveAPIKey("gemini_api_key", "config-key")
		require.NoError(t, err)
		assert.Equal(t, "config-key", key)
	})

	t.Run("errors when no key available", func(t *testing.T) {
		t.Setenv("MEDELA_CLAUDE_API_KEY", "")
		t.Setenv("ANTHROPIC_API_KEY", "")

		_, err := ResolveAPIKey("anthropic_api_key", "")
		assert.Error(t, err)
	})
}

func TestDurationHelpers(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 2*time.Minute, config.GeminiTimeout())
	assert.Equal(t, 24*time.Hour, config.ReportRetention())
	assert.Equal(t, 2*time.Second, config.LookupInterval())

	// Unparseable strings fall back to defaults
	config.Gemini.Timeout = "not-a-duration"
	config.Reports.Retention = ""
	config.Lookup.RateLimit = "-5s"
	assert.Equal(t, 2*time.Minute, config.GeminiTimeout())
	assert.Equal(t, 24*time.Hour, config.ReportRetention())
	assert.Equal(t, 2*time.Second, config.LookupInterval())
}

func TestMaxUploadBytes(t *testing.T) {
	config := NewDefaultConfig()
	config.Server.MaxUploadMB = 5
	assert.Equal(t, int64(5*1024*1024), config.MaxUploadBytes())
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	config.Environment = "production"
	assert.True(t, config.IsProduction())

	config.Environment = " Prod "
	assert.True(t, config.IsProduction())
}
