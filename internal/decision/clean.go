// In file: internal/decision/clean.go
package decision

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
)

var (
	sessionIDPattern  = regexp.MustCompile(`\s*-\s*Session\s+[a-zA-Z0-9_]+`)
	sessionTagPattern = regexp.MustCompile(`\s*-\s*Session\s+#[a-zA-Z0-9_]+`)
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	bulletPattern     = regexp.MustCompile(`(?m)^\*+\s*`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	jsonFenceOpen = regexp.MustCompile("^```json\\s*")
	fenceOpen     = regexp.MustCompile("^```\\s*")
	fenceClose    = regexp.MustCompile("\\s*```$")
)

// CleanText removes leaked session identifiers and markdown emphasis from
// model output and collapses all whitespace runs to single spaces.
func CleanText(s string) string {
	s = sessionIDPattern.ReplaceAllString(s, "")
	s = sessionTagPattern.ReplaceAllString(s, "")
	s = boldPattern.ReplaceAllString(s, "$1")
	s = bulletPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// CleanAnalysis applies CleanText to every text field of a in place.
func CleanAnalysis(a *Analysis) {
	a.EmotionalReasoning = CleanText(a.EmotionalReasoning)
	a.LogicalReasoning = CleanText(a.LogicalReasoning)
	a.Suggestion = CleanText(a.Suggestion)
	a.Summary = CleanText(a.Summary)
	for i := range a.Pros {
		a.Pros[i] = CleanText(a.Pros[i])
	}
	for i := range a.Cons {
		a.Cons[i] = CleanText(a.Cons[i])
	}
	for i := range a.FollowUpQuestions {
		a.FollowUpQuestions[i] = CleanText(a.FollowUpQuestions[i])
	}
}

// StripFences removes a surrounding ```json or ``` markdown fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = fenceClose.ReplaceAllString(jsonFenceOpen.ReplaceAllString(s, ""), "")
	}
	if strings.HasPrefix(s, "```") {
		s = fenceClose.ReplaceAllString(fenceOpen.ReplaceAllString(s, ""), "")
	}
	return s
}

// ParseAnalysis decodes raw model output into an Analysis. Fences are
// stripped and the text cleaned before decoding; decoded fields are cleaned
// again. When repair is set, a failed decode is retried once on the output of
// jsonrepair.
func ParseAnalysis(raw string, repair bool) (*Analysis, error) {
	text := CleanText(StripFences(raw))

	var a Analysis
	err := json.Unmarshal([]byte(text), &a)
	if err != nil && repair {
		fixed, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w (repair failed: %v)", err, repairErr)
		}
		a = Analysis{}
		err = json.Unmarshal([]byte(fixed), &a)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	CleanAnalysis(&a)
	return &a, nil
}

// MinValidatedFieldLength is the rune length above which a field is checked
// by ValidateFields. Shorter fields carry too little signal.
const MinValidatedFieldLength = 10

// ValidateFields checks every text field of a that is longer than
// MinValidatedFieldLength against loc and returns the indexes (in
// Analysis.TextFields order) of the fields that fail.
func ValidateFields(a *Analysis, loc Locale) []int {
	var failed []int
	for i, f := range a.TextFields() {
		if utf8.RuneCountInString(f) <= MinValidatedFieldLength {
			continue
		}
		if !ValidateResponseLanguage(f, loc) {
			failed = append(failed, i)
		}
	}
	return failed
}
