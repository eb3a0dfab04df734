// In file: internal/llm/client.go

// Package llm is the boundary to the generative model: the client interface
// the orchestrator depends on, the Gemini implementation, and the Redis
// backed profiler that tracks per-model health.
package llm

import (
	"context"
	"errors"
)

// =================================================================================
// Core Data Structures
// =================================================================================

// Role represents the originator of a message in a conversation.
type Role string

const RoleUser Role = "user"

// Message represents a single message in a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig holds the parameters that control a single generation.
type GenerationConfig struct {
	// The specific model to use for the generation (e.g., "gemini-1.5-flash").
	Model string
	// Controls randomness. A nil pointer leaves the provider default in place.
	Temperature *float32
	// The maximum number of tokens to generate in the response.
	MaxTokens int
	// Nucleus sampling, as an alternative to temperature.
	TopP *float32
}

// Usage reports token accounting for one generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResult holds the complete output from an LLM call.
type GenerationResult struct {
	// The generated text content from the model.
	Content string
	// Token usage statistics for the generation request.
	Usage Usage
}

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("model returned no content")

// =================================================================================
// LLM Client Interface
// =================================================================================

// LLMClient is the interface every model client implements. The model to use
// is chosen per call through GenerationConfig.Model, so one client serves the
// primary model and all alternates.
type LLMClient interface {
	// Generate performs a blocking request and returns the complete result.
	// Callers send the whole prompt as one user message.
	Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error)
}
