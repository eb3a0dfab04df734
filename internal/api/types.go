// In file: internal/api/types.go

// Package api defines the wire format of the gateway and the sanitization and
// validation every inbound request passes before it reaches the orchestrator.
package api

import (
	"github.com/dileep-u-k/decision-gateway/internal/decision"
	"github.com/dileep-u-k/decision-gateway/internal/llm"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Question               string                           `json:"question"`
	Mode                   string                           `json:"mode"`
	Locale                 string                           `json:"locale"`
	PersonalizationContext *decision.PersonalizationContext `json:"personalizationContext,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CategoryView is one entry of GET /api/v1/categories.
type CategoryView struct {
	Key         decision.Category `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
}

// CategoriesResponse is the body of GET /api/v1/categories.
type CategoriesResponse struct {
	Locale     decision.Locale `json:"locale"`
	Categories []CategoryView  `json:"categories"`
}

// ModelsResponse is the body of GET /api/v1/models.
type ModelsResponse struct {
	Models []*llm.ModelProfile `json:"models"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Validate checks the request in the order the gateway reports problems and
// returns the sanitized request the orchestrator accepts.
func (r AnalyzeRequest) Validate() (decision.Request, error) {
	if r.Question == "" || r.Mode == "" || r.Locale == "" {
		return decision.Request{}, NewValidationError("Missing required fields: question, mode, locale")
	}

	question, err := ValidateQuestion(r.Question)
	if err != nil {
		return decision.Request{}, err
	}
	mode, err := ParseMode(r.Mode)
	if err != nil {
		return decision.Request{}, err
	}
	locale, err := ParseLocale(r.Locale)
	if err != nil {
		return decision.Request{}, err
	}
	personalization, err := SanitizeContext(r.PersonalizationContext)
	if err != nil {
		return decision.Request{}, err
	}

	return decision.Request{
		Question:        question,
		Mode:            mode,
		Locale:          locale,
		Personalization: personalization,
	}, nil
}
