package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultProfilesFile, cfg.Profiles)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.FollowRedirects)
	assert.True(t, cfg.ValidateSSL)
	assert.Equal(t, "console", cfg.Output)
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultProfilesFile, cfg.Profiles)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.Empty(t, cfg.Source)
}

func TestFindAndLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := `
profiles: api.yaml
timeout: 5s
follow_redirects: false
validate_ssl: false
rate_limit: 2.5
headers:
  user-agent: hitdiff-test
`
	path := filepath.Join(dir, ".hitdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "api.yaml", cfg.Profiles)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.FollowRedirects)
	assert.False(t, cfg.ValidateSSL)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, "hitdiff-test", cfg.Headers["user-agent"])
	assert.Equal(t, path, cfg.Source)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 5s\noutput: plain\n"), 0644))

	t.Setenv("HITDIFF_TIMEOUT", "2s")
	t.Setenv("HITDIFF_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "plain", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_NegativeTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: -1s\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HITDIFF_DOTENV_TEST=from-file\n"), 0644))
	t.Setenv("HITDIFF_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("HITDIFF_DOTENV_TEST"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("HITDIFF_DOTENV_TEST"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
