package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"smart-home-agent/config"
)

// DefaultConfigPath is read when no --config flag or SMART_HOME_CONFIG is
// given; a missing file there is not an error.
const DefaultConfigPath = "config.yaml"

const (
	KeyConfig             = "config"
	KeyHomebridgeURL      = "homebridge.url"
	KeyHomebridgeUsername = "homebridge.username"
	KeyHomebridgePassword = "homebridge.password"
	KeyProvider           = "llm.provider"
	KeyModel              = "llm.model"
	KeyAnthropicAPIKey    = "llm.anthropic_api_key"
	KeyGeminiAPIKey       = "llm.gemini_api_key"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
)

// Flag ties a command-line flag to a settings key and its environment variable.
type Flag struct {
	Name      string
	Shorthand string
	Key       string
	Env       string
	Usage     string
}

// CommonFlags are registered by both binaries.
var CommonFlags = []Flag{
	{Name: "config", Shorthand: "c", Key: KeyConfig, Env: "SMART_HOME_CONFIG", Usage: "path to config file (default " + DefaultConfigPath + " if present)"},
	{Name: "log-level", Key: KeyLogLevel, Env: "SMART_HOME_LOG_LEVEL", Usage: "log level: debug, info, warn, error"},
	{Name: "log-format", Key: KeyLogFormat, Env: "SMART_HOME_LOG_FORMAT", Usage: "log format: text, json"},
}

// HubFlags are the hub address and credential flags, each name prefixed
// with prefix.
func HubFlags(prefix string) []Flag {
	return []Flag{
		{Name: prefix + "url", Key: KeyHomebridgeURL, Env: "HOMEBRIDGE_URL", Usage: "Homebridge base URL"},
		{Name: prefix + "username", Key: KeyHomebridgeUsername, Env: "HOMEBRIDGE_USERNAME", Usage: "Homebridge username"},
		{Name: prefix + "password", Key: KeyHomebridgePassword, Env: "HOMEBRIDGE_PASSWORD", Usage: "Homebridge password"},
	}
}

// LLMFlags select and authenticate the planner backend.
var LLMFlags = []Flag{
	{Name: "provider", Key: KeyProvider, Env: "SMART_HOME_LLM_PROVIDER", Usage: "planner backend: anthropic, gemini"},
	{Name: "model", Key: KeyModel, Usage: "model name (backend default if empty)"},
	{Name: "anthropic-api-key", Key: KeyAnthropicAPIKey, Env: "ANTHROPIC_API_KEY", Usage: "Anthropic API key"},
	{Name: "gemini-api-key", Key: KeyGeminiAPIKey, Env: "GEMINI_API_KEY", Usage: "Gemini API key"},
}

// Settings layers flags over environment variables over the config file.
// Flags are registered without defaults so that an unset flag falls through.
type Settings struct {
	v *viper.Viper
}

func NewSettings() *Settings {
	return &Settings{v: viper.New()}
}

// Register adds flags to fs and binds each to its key and env var.
func (s *Settings) Register(fs *pflag.FlagSet, flags ...Flag) error {
	for _, f := range flags {
		fs.StringP(f.Name, f.Shorthand, "", f.Usage)
		if err := s.v.BindPFlag(f.Key, fs.Lookup(f.Name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", f.Name, err)
		}
		if f.Env != "" {
			if err := s.v.BindEnv(f.Key, f.Env); err != nil {
				return fmt.Errorf("binding env %s: %w", f.Env, err)
			}
		}
	}
	return nil
}

func (s *Settings) Get(key string) string {
	return s.v.GetString(key)
}

// Resolve loads the config file and overlays every flag or environment
// value that is set.
func (s *Settings) Resolve() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := s.Get(KeyConfig); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(DefaultConfigPath)
	}
	if err != nil {
		return nil, err
	}

	overlay(&cfg.Homebridge.URL, s.Get(KeyHomebridgeURL))
	overlay(&cfg.Homebridge.Username, s.Get(KeyHomebridgeUsername))
	overlay(&cfg.Homebridge.Password, s.Get(KeyHomebridgePassword))
	overlay(&cfg.LLM.Provider, s.Get(KeyProvider))
	overlay(&cfg.LLM.Model, s.Get(KeyModel))
	overlay(&cfg.Log.Level, s.Get(KeyLogLevel))
	overlay(&cfg.Log.Format, s.Get(KeyLogFormat))

	switch cfg.LLM.Provider {
	case ProviderGemini:
		overlay(&cfg.LLM.APIKey, s.Get(KeyGeminiAPIKey))
	default:
		overlay(&cfg.LLM.APIKey, s.Get(KeyAnthropicAPIKey))
	}

	return cfg, nil
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
