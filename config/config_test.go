package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-home-agent/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_HB_PASSWORD", "from-env")

	path := writeConfig(t, `
homebridge:
  url: http://hub.local:8581
  username: admin
  password: ${TEST_HB_PASSWORD}
  timeout: 5s
llm:
  provider: gemini
  max_tokens: 512
kitchen:
  devices: ["Counter", "Island"]
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://hub.local:8581", cfg.Homebridge.URL)
	assert.Equal(t, "from-env", cfg.Homebridge.Password)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.Equal(t, []string{"Counter", "Island"}, cfg.Kitchen.Devices)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "homebridge-credentials", cfg.Secret.Name)

	timeout, err := cfg.HTTPTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.DefaultHomebridgeURL, cfg.Homebridge.URL)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, "kubectl", cfg.Secret.Exec)
	assert.Equal(t, "default", cfg.Secret.Namespace)
	assert.Equal(t, []string{"kuechentisch licht 1", "kuechentisch licht 2"}, cfg.Kitchen.Devices)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "homebridge: [not, a, map"))
	assert.Error(t, err)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := config.LoadOptional("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultHomebridgeURL, cfg.Homebridge.URL)

	cfg, err = config.LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultHomebridgeURL, cfg.Homebridge.URL)

	_, err = config.LoadOptional(writeConfig(t, "log: ["))
	assert.Error(t, err)
}

func TestHTTPTimeout_Invalid(t *testing.T) {
	cfg := config.Default()
	cfg.Homebridge.Timeout = "soon"

	timeout, err := cfg.HTTPTimeout()
	assert.Error(t, err)
	assert.Equal(t, 15*time.Second, timeout)
}
