package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "MTP_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "MTP_AGENT_BASE_URL"
	EnvAgentToken        = "MTP_AGENT_TOKEN"
	EnvAgentDeployment   = "MTP_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "MTP_AGENT_API_VERSION"
	EnvAgentAuthType     = "MTP_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "MTP_AGENT_MODEL_NAME"
)

// AgentConfig is the TOML-facing shape of the extraction agent settings.
// ToAgent converts it to the go-agents configuration after Finalize.
type AgentConfig struct {
	Name     string         `toml:"name"`
	Provider ProviderConfig `toml:"provider"`
	Model    ModelConfig    `toml:"model"`
}

// ProviderConfig carries inference provider settings.
type ProviderConfig struct {
	Name    string         `toml:"name"`
	BaseURL string         `toml:"base_url"`
	Options map[string]any `toml:"options"`
}

// ModelConfig names the model to run.
type ModelConfig struct {
	Name string `toml:"name"`
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider.Name != "" {
		c.Provider.Name = overlay.Provider.Name
	}
	if overlay.Provider.BaseURL != "" {
		c.Provider.BaseURL = overlay.Provider.BaseURL
	}
	for k, v := range overlay.Provider.Options {
		if c.Provider.Options == nil {
			c.Provider.Options = make(map[string]any)
		}
		c.Provider.Options[k] = v
	}
	if overlay.Model.Name != "" {
		c.Model.Name = overlay.Model.Name
	}
}

// Finalize applies defaults from go-agents, environment variable overrides,
// and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// defaultModelName is applied when neither config nor environment names a
// model; go-agents ships no model default of its own.
const defaultModelName = "llama3.1:8b"

func (c *AgentConfig) loadDefaults() {
	defaults := gaconfig.DefaultAgentConfig()

	if c.Name == "" {
		c.Name = defaults.Name
	}
	if provider := defaults.Client.Provider; provider != nil {
		if c.Provider.Name == "" {
			c.Provider.Name = provider.Name
		}
		if c.Provider.BaseURL == "" {
			c.Provider.BaseURL = provider.BaseURL
		}
		for k, v := range provider.Options {
			if c.Provider.Options == nil {
				c.Provider.Options = make(map[string]any)
			}
			if _, set := c.Provider.Options[k]; !set {
				c.Provider.Options[k] = v
			}
		}
	}
	if c.Model.Name == "" {
		c.Model.Name = defaultModelName
	}
}

func (c *AgentConfig) loadEnv() {
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}

	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func (c *AgentConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}

// ToAgent converts the finalized config into the go-agents form. The client
// layer (timeouts, retry, pooling) keeps the go-agents defaults; only the
// provider and model are operator-facing here.
func (c *AgentConfig) ToAgent() gaconfig.AgentConfig {
	model := gaconfig.DefaultModelConfig()
	model.Name = c.Model.Name

	cfg := gaconfig.DefaultAgentConfig()
	cfg.Name = c.Name
	cfg.Client.Provider = &gaconfig.ProviderConfig{
		Name:    c.Provider.Name,
		BaseURL: c.Provider.BaseURL,
		Model:   model,
		Options: c.Provider.Options,
	}
	return cfg
}
