package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	domain := archunit.Packages("domain", []string{".../internal/domain/..."})
	application := archunit.Packages("application", []string{".../internal/application/..."})
	infra := archunit.Packages("infra", []string{".../internal/infra/..."})
	cli := archunit.Packages("cli", []string{".../internal/cli/..."})

	rules := []struct {
		name  string
		check func() error
	}{
		{"domain -> application", func() error { return domain.ShouldNotReferLayers(application) }},
		{"domain -> infra", func() error { return domain.ShouldNotReferLayers(infra) }},
		{"domain -> cli", func() error { return domain.ShouldNotReferLayers(cli) }},
		{"application -> infra", func() error { return application.ShouldNotReferLayers(infra) }},
		{"application -> cli", func() error { return application.ShouldNotReferLayers(cli) }},
		{"infra -> cli", func() error { return infra.ShouldNotReferLayers(cli) }},
	}

	for _, rule := range rules {
		if err := rule.check(); err != nil {
			t.Errorf("architecture violation %s: %v", rule.name, err)
		}
	}
}

func TestAdaptersPresent(t *testing.T) {
	for _, pattern := range []string{".../internal/infra/homebridge", ".../internal/infra/anthropic"} {
		if len(archunit.Packages("adapter", []string{pattern}).Packages()) == 0 {
			t.Errorf("no package matches %s", pattern)
		}
	}
}
