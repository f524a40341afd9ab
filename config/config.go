package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHomebridgeURL = "http://192.168.178.67:8581"
	DefaultTimeout       = "15s"
	DefaultProvider      = "anthropic"
	DefaultMaxTokens     = 1024
)

type Config struct {
	Homebridge HomebridgeConfig `yaml:"homebridge"`
	LLM        LLMConfig        `yaml:"llm"`
	Secret     SecretConfig     `yaml:"secret"`
	Kitchen    KitchenConfig    `yaml:"kitchen"`
	Pushover   PushoverConfig   `yaml:"pushover"`
	Log        LogConfig        `yaml:"log"`
}

type HomebridgeConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Timeout  string `yaml:"timeout"`
}

// LLMConfig selects the planner backend. An empty model or base URL lets
// the backend pick its own default.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	BaseURL   string `yaml:"base_url"`
}

// SecretConfig locates the Kubernetes secret holding hub credentials.
type SecretConfig struct {
	Exec       string `yaml:"exec"`
	Kubeconfig string `yaml:"kubeconfig"`
	Name       string `yaml:"name"`
	Namespace  string `yaml:"namespace"`
}

type KitchenConfig struct {
	Devices []string `yaml:"devices"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// LoadOptional is Load for a config file that may not exist: an empty path
// or a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// HTTPTimeout parses Homebridge.Timeout, falling back to the default on
// an invalid value. Zero disables the client timeout.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Homebridge.Timeout)
	if err != nil {
		fallback, _ := time.ParseDuration(DefaultTimeout)
		return fallback, fmt.Errorf("invalid homebridge timeout %q: %w", c.Homebridge.Timeout, err)
	}
	return d, nil
}

func (c *Config) setDefaults() {
	if c.Homebridge.URL == "" {
		c.Homebridge.URL = DefaultHomebridgeURL
	}
	if c.Homebridge.Timeout == "" {
		c.Homebridge.Timeout = DefaultTimeout
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.Secret.Exec == "" {
		c.Secret.Exec = "kubectl"
	}
	if c.Secret.Name == "" {
		c.Secret.Name = "homebridge-credentials"
	}
	if c.Secret.Namespace == "" {
		c.Secret.Namespace = "default"
	}
	if len(c.Kitchen.Devices) == 0 {
		c.Kitchen.Devices = []string{"kuechentisch licht 1", "kuechentisch licht 2"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
