package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	EnvAPIKey, "GEMINI_MODEL", "FOXIE_DATABASE_TYPE", "FOXIE_MODE", "FOXIE_LOG_LEVEL",
	"FOXIE_KNOWLEDGE_DIR", "FOXIE_KNOWLEDGE_PREFIX", "DATABASE_URL", "PORT", "FOXIE_MAX_STEPS",
	"FOXIE_COMPACT_GUIDE", "ARTIFACT_S3_ENDPOINT", "ARTIFACT_S3_REGION", "ARTIFACT_S3_ACCESS_KEY",
	"ARTIFACT_S3_SECRET_KEY", "ARTIFACT_S3_BUCKET", "ARTIFACT_S3_USE_SSL", "MINIO_ROOT_USER",
	"MINIO_ROOT_PASSWORD",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(Options{WorkDir: t.TempDir(), Home: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.False(t, cfg.S3.Enabled())

	key, src := cfg.APIKey("")
	assert.Empty(t, key)
	assert.Empty(t, src)
}

func TestAPIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	work, home := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(home, ".env"), "GOOGLE_API_KEY=home-key\n")

	cfg, err := LoadFrom(Options{WorkDir: work, Home: home})
	require.NoError(t, err)
	key, src := cfg.APIKey("")
	assert.Equal(t, "home-key", key)
	assert.Equal(t, "~/.foxie/.env", src)

	writeFile(t, filepath.Join(work, ".env"), "GOOGLE_API_KEY=work-key\n")
	cfg, err = LoadFrom(Options{WorkDir: work, Home: home})
	require.NoError(t, err)
	key, src = cfg.APIKey("")
	assert.Equal(t, "work-key", key)
	assert.Equal(t, ".env", src)

	t.Setenv(EnvAPIKey, "env-key")
	cfg, err = LoadFrom(Options{WorkDir: work, Home: home})
	require.NoError(t, err)
	key, src = cfg.APIKey("")
	assert.Equal(t, "env-key", key)
	assert.Equal(t, "environment", src)

	key, src = cfg.APIKey("  flag-key ")
	assert.Equal(t, "flag-key", key)
	assert.Equal(t, "flag", src)
}

func TestYAMLThenEnvOverride(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "config.yaml"), `
model: gemini-2.5-pro
backend: mongodb
max_steps: 20
retry:
  max_attempts: 5
  base_delay: 1s
rate_limit:
  rps: 2
  burst: 4
s3:
  endpoint: localhost:9000
  bucket: foxie
`)
	t.Setenv("GEMINI_MODEL", "gemini-from-env")
	t.Setenv("PORT", "9090")

	cfg, err := LoadFrom(Options{WorkDir: t.TempDir(), Home: home})
	require.NoError(t, err)
	assert.Equal(t, "gemini-from-env", cfg.Model)
	assert.Equal(t, "mongodb", cfg.Backend)
	assert.Equal(t, 20, cfg.MaxSteps)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 2.0, cfg.RateLimit.RPS)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.S3.Enabled())
}

func TestBadYAML(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "config.yaml"), "model: [unclosed\n")
	_, err := LoadFrom(Options{WorkDir: t.TempDir(), Home: home})
	assert.Error(t, err)
}

func TestSaveAPIKeyKeepsOtherEntries(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".foxie")
	writeFile(t, filepath.Join(home, ".env"), "GEMINI_MODEL=custom\nGOOGLE_API_KEY=old\n")

	path, err := SaveAPIKey(home, " new-key ")
	require.NoError(t, err)

	clearEnv(t)
	cfg, err := LoadFrom(Options{WorkDir: t.TempDir(), Home: home})
	require.NoError(t, err)
	key, _ := cfg.APIKey("")
	assert.Equal(t, "new-key", key)
	assert.Equal(t, "custom", cfg.Model)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = SaveAPIKey(home, "")
	assert.Error(t, err)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", firstNonEmpty())
}
