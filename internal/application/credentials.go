package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"smart-home-agent/internal/domain"
)

type Credentials struct {
	Username string
	Password string
}

// CredentialProvider is one source of hub credentials.
type CredentialProvider interface {
	Name() string
	Credentials(ctx context.Context) (Credentials, error)
}

// StaticCredentials serves credentials given explicitly on the command line,
// through the environment or in the config file.
type StaticCredentials struct {
	Username string
	Password string
}

func (s StaticCredentials) Name() string {
	return "explicit"
}

func (s StaticCredentials) Credentials(_ context.Context) (Credentials, error) {
	if s.Username == "" || s.Password == "" {
		return Credentials{}, errors.New("username and password not both set")
	}
	return Credentials{Username: s.Username, Password: s.Password}, nil
}

// ResolveCredentials tries providers in order and returns the first success.
func ResolveCredentials(ctx context.Context, logger *slog.Logger, providers ...CredentialProvider) (Credentials, error) {
	errs := []error{domain.ErrCredentials}
	for _, p := range providers {
		creds, err := p.Credentials(ctx)
		if err == nil {
			logger.Debug("credentials resolved", "provider", p.Name())
			return creds, nil
		}
		logger.Debug("credential provider failed", "provider", p.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return Credentials{}, errors.Join(errs...)
}
