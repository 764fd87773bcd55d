// Package providers holds configuration shared by the concrete provider
// clients under llm/providers.
package providers

import (
	"fmt"
	"strings"
)

// BaseConfig is the field set every provider config embeds.
type BaseConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	BaseURL string `json:"base_url" yaml:"base_url"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
}

// placeholderKeys are values copied from documentation or sample configs
// that must be treated the same as a missing key.
var placeholderKeys = []string{
	"your-api-key",
	"your_api_key",
	"changeme",
	"xxx",
	"<api-key>",
}

// ValidateAPIKey rejects missing or placeholder credentials. Providers call
// this from ValidateSetup so misconfiguration fails fast before any network
// activity.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key not configured")
	}
	lower := strings.ToLower(key)
	for _, placeholder := range placeholderKeys {
		if lower == placeholder {
			return fmt.Errorf("api key is a placeholder value")
		}
	}
	return nil
}
