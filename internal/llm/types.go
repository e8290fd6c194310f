// Package llm defines the provider-neutral chat types the assistant
// speaks. Any OpenAI-compatible endpoint can back the Provider interface.
package llm

import "context"

// Message represents a chat message for LLM communication.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant" or "system"
	Content string `json:"content"` // The message text
}

// Provider defines the interface for all LLM implementations.
type Provider interface {
	// CallLLM sends messages to the LLM and returns the complete response.
	CallLLM(ctx context.Context, messages []Message) (Message, error)

	// GetName returns a human-readable provider label for logs.
	GetName() string
}

// Role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
