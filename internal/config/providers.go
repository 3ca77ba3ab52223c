package config

import "time"

type ProvidersConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

type ProviderConfig struct {
	Type    string            `yaml:"type"`
	BaseURL string            `yaml:"base_url"`
	APIKey  string            `yaml:"api_key"`
	Model   string            `yaml:"model"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Configured reports whether the provider has a credential. A provider
// without one is registered but must fail deterministically before any
// network call.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// DefaultProviders returns the built-in provider set used when no
// providers.yaml is shipped. Credentials come from the environment.
func DefaultProviders() *ProvidersConfig {
	return &ProvidersConfig{
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:    "openai",
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				Timeout: 10 * time.Second,
			},
			"gemini": {
				Type:    "gemini",
				BaseURL: "https://generativelanguage.googleapis.com/v1beta",
				Model:   "gemini-1.5-flash",
				Timeout: 10 * time.Second,
			},
		},
	}
}
