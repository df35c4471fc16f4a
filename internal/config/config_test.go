package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 30m
quiz:
  bank_dir: ./banks
  default_bank: entrance
  tick_interval: 1s
gate:
  email_pattern: "^.+@example\\.org$"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "./banks", cfg.Quiz.BankDir)
	assert.Equal(t, "entrance", cfg.Quiz.DefaultBank)
	assert.Equal(t, `^.+@example\.org$`, cfg.Gate.EmailPattern)
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("QUIZ_DEFAULT_BANK", "practice")

	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "practice", cfg.Quiz.DefaultBank)
	assert.Equal(t, "./banks", cfg.Quiz.BankDir)
}

func TestLoadOptionalMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Quiz.BankDir)
}

func TestTTLDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, TTLDuration("30m", time.Minute))
	assert.Equal(t, time.Minute, TTLDuration("", time.Minute))
	assert.Equal(t, time.Minute, TTLDuration("soon", time.Minute))
}
