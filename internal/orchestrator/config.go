// In file: internal/orchestrator/config.go
package orchestrator

import (
	"time"

	"github.com/dileep-u-k/decision-gateway/internal/llm"
)

const (
	DefaultPrimaryModel    = "gemini-1.5-flash"
	DefaultAttemptTimeout  = 45 * time.Second
	DefaultMaxOutputTokens = 8192
)

// DefaultAlternateModels are tried in order after the primary model fails.
var DefaultAlternateModels = []string{"gemini-1.5-pro", "gemini-1.0-pro"}

// Config controls which models are tried and how each attempt is made.
type Config struct {
	PrimaryModel    string
	AlternateModels []string

	// AttemptTimeout bounds a single model call.
	AttemptTimeout  time.Duration
	Temperature     *float32
	MaxOutputTokens int

	// RepairMalformedJSON runs jsonrepair once when a response fails to decode.
	RepairMalformedJSON bool

	// InferProfile fills blank user profile fields from the questions in the
	// decision history before prompting and scoring.
	InferProfile bool
}

func (c Config) withDefaults() Config {
	if c.PrimaryModel == "" {
		c.PrimaryModel = DefaultPrimaryModel
	}
	if c.AlternateModels == nil {
		c.AlternateModels = append([]string(nil), DefaultAlternateModels...)
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = DefaultAttemptTimeout
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	return c
}

// Models returns the primary model followed by the alternates.
func (c Config) Models() []string {
	c = c.withDefaults()
	return append([]string{c.PrimaryModel}, c.AlternateModels...)
}

func (c Config) generation(model string) *llm.GenerationConfig {
	return &llm.GenerationConfig{
		Model:       model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxOutputTokens,
	}
}
