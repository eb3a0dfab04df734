// In file: internal/llm/constants.go
package llm

import "time"

// Shared defaults for model calls made outside the orchestrator.
const (
	pingTimeout         = 30 * time.Second
	defaultPingInterval = 5 * time.Minute
	pingMaxTokens       = 5
	pingPrompt          = "What is the capital of India?"
)
