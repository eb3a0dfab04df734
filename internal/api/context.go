// In file: internal/api/context.go
package api

import (
	"unicode/utf8"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

const maxAge = 120

var profileEnums = map[string][]string{
	"riskTolerance":      {"low", "medium", "high"},
	"decisionStyle":      {"quick", "thorough", "collaborative"},
	"lifeStage":          {"student", "early_career", "mid_career", "senior", "retired"},
	"familyStatus":       {"single", "relationship", "married", "parent", "caregiver"},
	"financialSituation": {"tight", "comfortable", "wealthy"},
}

// SanitizeContext returns a sanitized copy of ctx. Every string is sanitized;
// a scalar longer than MaxFieldLength is an error while an over-long list
// element is dropped. Enumerated profile fields must hold a known value.
// Embedded analyses of earlier decisions are not carried over.
func SanitizeContext(ctx *decision.PersonalizationContext) (*decision.PersonalizationContext, error) {
	if ctx == nil {
		return nil, nil
	}
	out := &decision.PersonalizationContext{}
	var err error

	if ctx.UserProfile != nil {
		if out.UserProfile, err = sanitizeProfile(ctx.UserProfile); err != nil {
			return nil, err
		}
	}
	if ctx.RecentDecisions != nil {
		if out.RecentDecisions, err = sanitizeHistory(ctx.RecentDecisions); err != nil {
			return nil, err
		}
	}
	if s := ctx.SessionContext; s != nil {
		session := &decision.SessionContext{Stakeholders: sanitizeList(s.Stakeholders)}
		for _, f := range []struct {
			name string
			in   string
			out  *string
		}{
			{"currentMood", s.CurrentMood, &session.CurrentMood},
			{"timeConstraint", s.TimeConstraint, &session.TimeConstraint},
			{"budget", s.Budget, &session.Budget},
		} {
			if *f.out, err = sanitizeField(f.name, f.in); err != nil {
				return nil, err
			}
		}
		out.SessionContext = session
	}
	if c := ctx.CulturalContext; c != nil {
		country, err := sanitizeField("country", c.Country)
		if err != nil {
			return nil, err
		}
		out.CulturalContext = &decision.CulturalContext{
			Country:        country,
			CulturalValues: sanitizeList(c.CulturalValues),
			LocalFactors:   sanitizeList(c.LocalFactors),
		}
	}
	return out, nil
}

func sanitizeProfile(p *decision.UserProfile) (*decision.UserProfile, error) {
	if p.Age < 0 || p.Age > maxAge {
		return nil, NewValidationError("Invalid profile data: Field 'age' must be between 0 and %d", maxAge)
	}
	if p.PreferredMode != "" && !p.PreferredMode.Valid() {
		return nil, NewValidationError("Invalid profile data: Field 'preferredMode' has an unsupported value")
	}

	out := &decision.UserProfile{
		Age:               p.Age,
		PreferredMode:     p.PreferredMode,
		Interests:         sanitizeList(p.Interests),
		PersonalityTraits: sanitizeList(p.PersonalityTraits),
		Goals:             sanitizeList(p.Goals),
		Values:            sanitizeList(p.Values),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	fields := []struct {
		name string
		in   string
		out  *string
	}{
		{"id", p.ID, &out.ID},
		{"profession", p.Profession, &out.Profession},
		{"location", p.Location, &out.Location},
		{"riskTolerance", p.RiskTolerance, &out.RiskTolerance},
		{"decisionStyle", p.DecisionStyle, &out.DecisionStyle},
		{"lifeStage", p.LifeStage, &out.LifeStage},
		{"familyStatus", p.FamilyStatus, &out.FamilyStatus},
		{"financialSituation", p.FinancialSituation, &out.FinancialSituation},
	}
	for _, f := range fields {
		v, err := sanitizeField(f.name, f.in)
		if err != nil {
			return nil, err
		}
		if allowed, ok := profileEnums[f.name]; ok && v != "" && !contains(allowed, v) {
			return nil, NewValidationError("Invalid profile data: Field '%s' has an unsupported value", f.name)
		}
		*f.out = v
	}

	if p.PreviousDecisions != nil {
		history, err := sanitizeHistory(p.PreviousDecisions)
		if err != nil {
			return nil, err
		}
		out.PreviousDecisions = history
	}
	return out, nil
}

func sanitizeHistory(in []decision.DecisionHistory) ([]decision.DecisionHistory, error) {
	out := make([]decision.DecisionHistory, 0, len(in))
	for _, h := range in {
		question := Sanitize(h.Question)
		if utf8.RuneCountInString(question) > MaxQuestionLength {
			return nil, NewValidationError("Invalid profile data: Field 'question' exceeds maximum length of %d characters", MaxQuestionLength)
		}
		if h.Category != "" {
			if _, ok := decision.Info(h.Category); !ok {
				return nil, NewValidationError("Invalid profile data: Field 'category' has an unsupported value")
			}
		}
		if h.Mode != "" && !h.Mode.Valid() {
			return nil, NewValidationError("Invalid profile data: Field 'mode' has an unsupported value")
		}
		id, err := sanitizeField("id", h.ID)
		if err != nil {
			return nil, err
		}

		entry := decision.DecisionHistory{
			ID:        id,
			Question:  question,
			Category:  h.Category,
			Mode:      h.Mode,
			Timestamp: h.Timestamp,
		}
		if fb := h.UserFeedback; fb != nil {
			entry.UserFeedback = &decision.Feedback{Helpful: fb.Helpful, Rating: fb.Rating}
			if entry.UserFeedback.Comments, err = sanitizeField("comments", fb.Comments); err != nil {
				return nil, err
			}
			if entry.UserFeedback.FollowUp, err = sanitizeField("followUp", fb.FollowUp); err != nil {
				return nil, err
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func sanitizeField(name, v string) (string, error) {
	s := Sanitize(v)
	if utf8.RuneCountInString(s) > MaxFieldLength {
		return "", NewValidationError("Invalid profile data: Field '%s' exceeds maximum length of %d characters", name, MaxFieldLength)
	}
	return s, nil
}

// sanitizeList keeps a nil list nil so an absent bucket stays absent.
func sanitizeList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		s := Sanitize(v)
		if s == "" || utf8.RuneCountInString(s) > MaxFieldLength {
			continue
		}
		out = append(out, s)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
