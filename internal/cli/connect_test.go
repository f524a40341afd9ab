package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-home-agent/config"
	"smart-home-agent/internal/application"
	"smart-home-agent/internal/cli"
	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra/anthropic"
	"smart-home-agent/internal/infra/gemini"
	"smart-home-agent/internal/infra/pushover"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPlanner(t *testing.T) {
	cfg := config.Default()

	_, err := cli.NewPlanner(cfg, discardLogger())
	require.ErrorIs(t, err, domain.ErrCredentials)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	cfg.LLM.APIKey = "sk-ant"
	planner, err := cli.NewPlanner(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &anthropic.ClaudeClient{}, planner)

	cfg.LLM.Provider = cli.ProviderGemini
	planner, err = cli.NewPlanner(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, planner)

	cfg.LLM.Provider = "mistral"
	_, err = cli.NewPlanner(cfg, discardLogger())
	assert.ErrorContains(t, err, "mistral")
}

func TestNewNotifier(t *testing.T) {
	cfg := config.Default()
	assert.IsType(t, &application.NoopNotifier{}, cli.NewNotifier(cfg))

	cfg.Pushover.Enabled = true
	assert.IsType(t, &pushover.Client{}, cli.NewNotifier(cfg))
}

func TestCredentialProviders(t *testing.T) {
	cfg := config.Default()

	assert.Len(t, cli.CredentialProviders(cfg, discardLogger(), false), 1)

	providers := cli.CredentialProviders(cfg, discardLogger(), true)
	require.Len(t, providers, 2)
	assert.Equal(t, "explicit", providers[0].Name())
	assert.Equal(t, "kubernetes secret default/homebridge-credentials", providers[1].Name())
}

func fakeHub(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/api/auth/login":
			io.WriteString(w, `{"access_token": "tok"}`)
		case "/api/accessories":
			io.WriteString(w, `[{"uniqueId": "a1", "serviceName": "Desk Lamp", "type": "Lightbulb", "values": {"On": 0}}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestConnect(t *testing.T) {
	server, _ := fakeHub(t)

	cfg := config.Default()
	cfg.Homebridge.URL = server.URL
	cfg.Homebridge.Username = "admin"
	cfg.Homebridge.Password = "secret"

	agent, err := cli.Connect(context.Background(), cfg, cli.CredentialProviders(cfg, discardLogger(), false), &bytes.Buffer{}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, agent.Catalog().Len())
}

func TestConnect_NoCredentialsSkipsHub(t *testing.T) {
	server, calls := fakeHub(t)

	cfg := config.Default()
	cfg.Homebridge.URL = server.URL

	_, err := cli.Connect(context.Background(), cfg, cli.CredentialProviders(cfg, discardLogger(), false), io.Discard, discardLogger())
	require.ErrorIs(t, err, domain.ErrCredentials)
	assert.Zero(t, calls.Load())
}
