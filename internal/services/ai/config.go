// File: internal/services/ai/config.go
package ai

import "fmt"

type Config struct {
	// LLM Configuration. The key is server-held; it must never be handed to
	// any code path reachable by the browser.
	APIKey  string
	BaseURL string

	// Model Parameters
	Temperature float32
	TopP        float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.7,
		TopP:        0.9,
	}
}
