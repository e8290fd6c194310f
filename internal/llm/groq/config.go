package groq

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the Groq chat completions endpoint.
const (
	DefaultBaseURL   = "https://api.groq.com/openai/v1"
	DefaultModel     = "deepseek-r1-distill-llama-70b"
	DefaultMaxTokens = 8192
)

// Config holds Groq LLM configuration.
type Config struct {
	APIKey      string   // API key for authentication
	BaseURL     string   // Base URL (default: https://api.groq.com/openai/v1)
	Model       string   // Model name (default: deepseek-r1-distill-llama-70b)
	Temperature *float32 // Response creativity 0.0-2.0 (nil = API default)
	TopP        *float32 // Nucleus sampling mass 0.0-1.0 (nil = API default)
	MaxTokens   int      // Max tokens in response, 0 = no limit
	MaxRetries  int      // HTTP-level retry for transient errors only (default: 1)
}

// NewConfig returns a Config for apiKey with the generation settings the
// rule prompts are tuned for.
func NewConfig(apiKey string) *Config {
	temp := float32(0.5)
	topP := float32(1.0)
	return &Config{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: &temp,
		TopP:        &topP,
		MaxTokens:   DefaultMaxTokens,
		MaxRetries:  1,
	}
}

// NewConfigFromEnv creates Config from environment variables.
// Expected env vars: GROQ_API_KEY, GROQ_BASE_URL, GROQ_MODEL,
// GROQ_TEMPERATURE, GROQ_TOP_P, GROQ_MAX_TOKENS, GROQ_MAX_RETRIES
func NewConfigFromEnv() (*Config, error) {
	config := NewConfig(getEnvOrDefault("GROQ_API_KEY", ""))
	config.BaseURL = getEnvOrDefault("GROQ_BASE_URL", DefaultBaseURL)
	config.Model = getEnvOrDefault("GROQ_MODEL", DefaultModel)
	if t := getEnvFloat32Ptr("GROQ_TEMPERATURE"); t != nil {
		config.Temperature = t
	}
	if p := getEnvFloat32Ptr("GROQ_TOP_P"); p != nil {
		config.TopP = p
	}
	config.MaxTokens = getEnvIntOrDefault("GROQ_MAX_TOKENS", DefaultMaxTokens)
	config.MaxRetries = getEnvIntOrDefault("GROQ_MAX_RETRIES", 1)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required. Set it in .env or via 'config set-api-key'")
	}
	if c.Model == "" {
		return fmt.Errorf("GROQ_MODEL cannot be empty")
	}
	if c.Temperature != nil && (*c.Temperature < 0.0 || *c.Temperature > 2.0) {
		return fmt.Errorf("GROQ_TEMPERATURE must be between 0.0 and 2.0, got %f", *c.Temperature)
	}
	if c.TopP != nil && (*c.TopP < 0.0 || *c.TopP > 1.0) {
		return fmt.Errorf("GROQ_TOP_P must be between 0.0 and 1.0, got %f", *c.TopP)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("GROQ_MAX_RETRIES cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvFloat32Ptr(key string) *float32 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			f := float32(parsed)
			return &f
		}
	}
	return nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
