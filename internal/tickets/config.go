package tickets

import (
	"fmt"
	"os"
	"strconv"
)

// Env names the environment variables that override Config fields.
type Env struct {
	Enabled    string
	BaseURL    string
	Token      string
	ProjectKey string
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.ProjectKey != "" {
		c.ProjectKey = overlay.ProjectKey
	}
}

// Finalize applies environment overrides and validates. A client enabled
// without a base URL is a configuration error; the token stays optional for
// services behind network trust.
func (c *Config) Finalize(env *Env) error {
	if v := os.Getenv(env.Enabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Enabled, err)
		}
		c.Enabled = enabled
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(env.Token); v != "" {
		c.Token = v
	}
	if v := os.Getenv(env.ProjectKey); v != "" {
		c.ProjectKey = v
	}

	if c.Enabled && c.BaseURL == "" {
		return fmt.Errorf("base_url required when ticketing is enabled")
	}
	return nil
}
