// In file: internal/api/validate.go
package api

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

const (
	MinQuestionLength = 10
	MaxQuestionLength = 2000
	MaxFieldLength    = 200
)

// suspiciousPatterns are matched against the raw, unsanitized question.
var suspiciousPatterns = compileAll(
	`(?i)<script`,
	`(?i)javascript:`,
	`(?i)vbscript:`,
	`(?i)onload=`,
	`(?i)onerror=`,
	`(?i)eval\(`,
	`(?i)expression\(`,
	`(?i)document\.`,
	`(?i)window\.`,
	`(?i)alert\(`,
	`(?i)confirm\(`,
	`(?i)prompt\(`,
	`(?i)union.*select`,
	`(?i)drop.*table`,
	`(?i)delete.*from`,
	`(?i)insert.*into`,
	`(?i)update.*set`,
	`(?i)exec\(`,
	`(?i)execute\(`,
	`(?i)sp_`,
	`(?i)xp_`,
	`--`,
	`/\*`,
	`\*/`,
	`(?i)on\w+\s*=`,
	`(?i)href\s*=\s*["']javascript:`,
	`(?i)src\s*=\s*["']javascript:`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// ValidateQuestion returns the sanitized question or a *ValidationError.
func ValidateQuestion(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", NewValidationError("Question is required and must be a string")
	}

	sanitized := Sanitize(raw)
	n := utf8.RuneCountInString(sanitized)
	if n < MinQuestionLength {
		return "", NewValidationError("Question must be at least %d characters long", MinQuestionLength)
	}
	if n > MaxQuestionLength {
		return "", NewValidationError("Question must not exceed %d characters", MaxQuestionLength)
	}

	for _, p := range suspiciousPatterns {
		if p.MatchString(raw) {
			return "", NewValidationError("Question contains potentially harmful content")
		}
	}
	return sanitized, nil
}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (decision.Mode, error) {
	m := decision.Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", NewValidationError("Invalid mode. Must be one of: analytical, emotional, creative")
	}
	return m, nil
}

// ParseLocale accepts a BCP 47 tag and reduces it to its base language, so
// "en-US" and "tr_TR" both resolve.
func ParseLocale(s string) (decision.Locale, error) {
	invalid := NewValidationError("Invalid locale. Must be one of: en, tr, es, ru")

	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return "", invalid
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", invalid
	}
	loc := decision.Locale(base.String())
	if !loc.Valid() {
		return "", invalid
	}
	return loc, nil
}
