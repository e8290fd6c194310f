// Package config holds the persisted application settings and the .env
// bootstrap. Settings live in ~/.rulesmith.json; only values the user
// explicitly set are written, everything else falls back at read time.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the config file kept in the user's home directory.
const FileName = ".rulesmith.json"

// Config is the persisted application configuration.
type Config struct {
	APIKey            string `json:"groq_api_key,omitempty"`
	DefaultRepository string `json:"default_repository,omitempty"`
	Editor            string `json:"editor,omitempty"`
	Model             string `json:"model,omitempty"`
	BaseURL           string `json:"base_url,omitempty"`
}

// Path returns the config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the persisted configuration. A missing file yields an empty
// config; an unreadable or corrupt file logs a warning and yields an empty
// config rather than failing startup.
func Load() *Config {
	cfg := &Config{}
	path, err := Path()
	if err != nil {
		log.Printf("[Config] %v", err)
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Config] Error loading config: %v", err)
		}
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[Config] Error loading config: %v", err)
		return &Config{}
	}
	return cfg
}

// Save writes the configuration with owner-only permissions; the file
// carries the API key.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// GroqAPIKey returns the saved key, falling back to GROQ_API_KEY.
func (c *Config) GroqAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv("GROQ_API_KEY")
}

// GroqModel returns the saved model override, falling back to GROQ_MODEL.
// Empty means the provider default.
func (c *Config) GroqModel() string {
	if c.Model != "" {
		return c.Model
	}
	return os.Getenv("GROQ_MODEL")
}

// GroqBaseURL returns the saved endpoint override, falling back to
// GROQ_BASE_URL. Empty means the provider default.
func (c *Config) GroqBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return os.Getenv("GROQ_BASE_URL")
}

// Repository returns the saved default repository, falling back to the
// current working directory.
func (c *Config) Repository() string {
	if c.DefaultRepository != "" {
		return c.DefaultRepository
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// EditorCommand returns the configured editor, then $EDITOR, then nano.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "nano"
}

// MaskedKey renders the API key for display without revealing it.
func (c *Config) MaskedKey() string {
	key := c.GroqAPIKey()
	if key == "" {
		return "Not set"
	}
	return strings.Repeat("*", len(key))
}
