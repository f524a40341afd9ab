package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"smart-home-agent/config"
	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra"
	"smart-home-agent/internal/infra/anthropic"
	"smart-home-agent/internal/infra/gemini"
	"smart-home-agent/internal/infra/homebridge"
	"smart-home-agent/internal/infra/kubesecret"
	"smart-home-agent/internal/infra/pushover"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// CredentialProviders lists the hub credential sources in the order they
// are tried: explicit values first, then the Kubernetes secret if enabled.
func CredentialProviders(cfg *config.Config, logger *slog.Logger, withSecretStore bool) []application.CredentialProvider {
	providers := []application.CredentialProvider{
		application.StaticCredentials{
			Username: cfg.Homebridge.Username,
			Password: cfg.Homebridge.Password,
		},
	}
	if withSecretStore {
		providers = append(providers, kubesecret.Provider{
			Exec:       cfg.Secret.Exec,
			Kubeconfig: cfg.Secret.Kubeconfig,
			Secret:     cfg.Secret.Name,
			Namespace:  cfg.Secret.Namespace,
			Logger:     logger,
		})
	}
	return providers
}

// NewPlanner returns the planner for cfg.LLM.Provider. A missing API key
// is a credential error.
func NewPlanner(cfg *config.Config, logger *slog.Logger) (application.Planner, error) {
	switch cfg.LLM.Provider {
	case ProviderAnthropic:
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is required (via --anthropic-api-key or env var)", domain.ErrCredentials)
		}
		if cfg.LLM.BaseURL != "" {
			return anthropic.NewClaudeClientWithURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.BaseURL, logger), nil
		}
		return anthropic.NewClaudeClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, logger), nil
	case ProviderGemini:
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is required (via --gemini-api-key or env var)", domain.ErrCredentials)
		}
		if cfg.LLM.BaseURL != "" {
			return gemini.NewClientWithURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.BaseURL, logger), nil
		}
		return gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func NewNotifier(cfg *config.Config) application.Notifier {
	if !cfg.Pushover.Enabled {
		return &application.NoopNotifier{}
	}
	return pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)
}

// Connect resolves credentials, logs in to the hub and fetches the catalog.
// No hub request is made if credential resolution fails.
func Connect(ctx context.Context, cfg *config.Config, providers []application.CredentialProvider, out io.Writer, logger *slog.Logger) (*application.Agent, error) {
	creds, err := application.ResolveCredentials(ctx, logger, providers...)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		logger.Warn("invalid timeout, using default", "error", err, "timeout", timeout)
	}

	client := homebridge.NewClient(cfg.Homebridge.URL, infra.NewHTTPClient(timeout), logger)
	session, err := client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	return application.NewAgent(ctx, session, NewNotifier(cfg), out, logger)
}
