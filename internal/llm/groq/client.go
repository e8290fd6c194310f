// Package groq implements llm.Provider against the Groq chat completions
// API. Groq speaks the OpenAI protocol, so any OpenAI-compatible endpoint
// works by overriding BaseURL.
package groq

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rulesmith/rulesmith/internal/llm"
	openailib "github.com/sashabaranov/go-openai"
)

// Client talks to one Groq endpoint with fixed generation settings.
type Client struct {
	client *openailib.Client
	config *Config
}

// NewClient creates a new Groq client.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	clientConfig := openailib.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &Client{
		client: openailib.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// NewClientFromEnv creates a client using environment variables.
func NewClientFromEnv() (*Client, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return NewClient(config)
}

// GetConfig returns the client's configuration.
func (c *Client) GetConfig() *Config {
	return c.config
}

// buildRequest shapes one chat completion request from the generation
// settings and the conversation.
func (c *Client) buildRequest(messages []llm.Message) openailib.ChatCompletionRequest {
	req := openailib.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: make([]openailib.ChatCompletionMessage, len(messages)),
	}
	for i, msg := range messages {
		req.Messages[i] = openailib.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	if c.config.Temperature != nil {
		req.Temperature = *c.config.Temperature
	}
	if c.config.TopP != nil {
		req.TopP = *c.config.TopP
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}
	return req
}

// CallLLM sends messages to the LLM and returns the response. Transient
// failures are retried up to MaxRetries with linear backoff; a canceled
// context aborts the backoff wait.
func (c *Client) CallLLM(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	if len(messages) == 0 {
		return llm.Message{}, fmt.Errorf("no messages to send")
	}
	req := c.buildRequest(messages)

	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return llm.Message{}, fmt.Errorf("no choices returned from LLM")
			}
			return llm.Message{
				Role:    llm.RoleAssistant,
				Content: resp.Choices[0].Message.Content,
			}, nil
		}
		lastErr = err
		if attempt >= c.config.MaxRetries {
			break
		}
		wait := time.Duration(attempt+1) * time.Second
		log.Printf("[LLM] Retry %d/%d after %v, error: %v", attempt+1, c.config.MaxRetries, wait, err)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return llm.Message{}, ctx.Err()
		}
	}
	return llm.Message{}, fmt.Errorf("LLM call failed after %d retries: %w", c.config.MaxRetries, lastErr)
}

// GetName returns the provider name.
func (c *Client) GetName() string {
	return fmt.Sprintf("groq (%s)", c.config.Model)
}
