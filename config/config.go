package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultProvider = "connect"
	DefaultEndpoint = "http://localhost:8080/api/connect-ai/message"
	DefaultTimeout  = 60 * time.Second
)

// knownProviders lists the backend IDs the provider factory understands
var knownProviders = []string{"connect", "ollama", "openai", "openrouter", "anthropic"}

type BackendConfig struct {
	Provider string `toml:"provider"`
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Timeout  string `toml:"timeout"`
}

type FileConfig struct {
	Backend BackendConfig `toml:"backend"`
}

type Config struct {
	Provider    string
	Endpoint    string
	Model       string
	APIKey      string
	Timeout     time.Duration
	Debug       bool
	Keybindings *KeyBindingsConfig
}

// Overrides carries command line values. Empty fields leave the loaded value alone.
type Overrides struct {
	Provider string
	Endpoint string
	Model    string
	Timeout  time.Duration
	Debug    bool
}

func CheckDebug() bool {
	debug := os.Getenv("TEMPCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

// Load reads config.toml (creating it from the template on first run),
// applies environment overrides and then the command line overrides.
func Load(configPath string, overrides Overrides) (*Config, error) {
	if configPath == "" {
		configPath = GetConfigFilePath()
		if err := CreateDefaultConfig(); err != nil {
			return nil, err
		}
	}

	fileCfg, err := LoadFileConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := fromFileConfig(fileCfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.applyOverrides(overrides)
	cfg.APIKey = apiKeyFor(cfg.Provider)

	kb, err := LoadKeybindings(GetConfigDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	cfg.Keybindings = kb

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromFileConfig(fc *FileConfig) (*Config, error) {
	cfg := &Config{
		Provider: fc.Backend.Provider,
		Endpoint: fc.Backend.Endpoint,
		Model:    fc.Backend.Model,
		Timeout:  DefaultTimeout,
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.Endpoint == "" && cfg.Provider == DefaultProvider {
		cfg.Endpoint = DefaultEndpoint
	}
	if fc.Backend.Timeout != "" {
		d, err := time.ParseDuration(fc.Backend.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid backend timeout %q: %w", fc.Backend.Timeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if p := os.Getenv("TEMPCHAT_PROVIDER"); p != "" {
		c.Provider = p
	}
	if endpoint := os.Getenv("TEMPCHAT_ENDPOINT"); endpoint != "" {
		c.Endpoint = endpoint
	}
	if model := os.Getenv("TEMPCHAT_MODEL"); model != "" {
		c.Model = model
	}
	if timeout := os.Getenv("TEMPCHAT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid TEMPCHAT_TIMEOUT %q: %w", timeout, err)
		}
		c.Timeout = d
	}
	if CheckDebug() {
		c.Debug = true
	}
	return nil
}

func (c *Config) applyOverrides(o Overrides) {
	if o.Provider != "" {
		c.Provider = o.Provider
	}
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.Debug {
		c.Debug = true
	}
}

// apiKeyFor returns the API key from the provider's conventional environment variable
func apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

// Validate checks the settings the backend depends on
func (c *Config) Validate() error {
	known := false
	for _, p := range knownProviders {
		if c.Provider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown provider %q (expected one of: %s)", c.Provider, strings.Join(knownProviders, ", "))
	}

	if c.Provider == DefaultProvider && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required for the %s provider", DefaultProvider)
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil {
			return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoint %q must use http or https", c.Endpoint)
		}
		if u.Host == "" {
			return fmt.Errorf("endpoint %q has no host", c.Endpoint)
		}
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	return nil
}
