package config

import (
	"fmt"
	"os"
	"strings"
)

// APIKey returns the OpenRouter key. api-key-file wins over api-key.
func (c OpenRouterConfig) APIKey() (string, error) {
	return resolveAPIKey("llm.openrouter", c.Key, c.KeyFile)
}

// APIKey returns the Gemini key. api-key-file wins over api-key.
func (c GeminiConfig) APIKey() (string, error) {
	return resolveAPIKey("llm.gemini", c.Key, c.KeyFile)
}

// resolveAPIKey reads the key of the provider section at prefix. Errors
// name the config keys and the legacy variable that can supply it.
func resolveAPIKey(prefix, value, file string) (string, error) {
	if file = strings.TrimSpace(file); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s.api-key-file %q: %w", prefix, file, err)
		}
		value = string(data)
	}

	key := strings.TrimSpace(value)
	if key == "" {
		return "", fmt.Errorf("%s api key is not configured (set %s.api-key, %s.api-key-file or %s)",
			prefix, prefix, prefix, legacyEnv[prefix+".api-key"])
	}
	return key, nil
}
