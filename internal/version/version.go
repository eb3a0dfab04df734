// In file: internal/version/version.go

// Package version centralizes the versions of the data and logic that shape an
// analysis. Every cache key carries them, so bumping one of the strings below
// makes every previously cached analysis unreachable.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

// ComponentVersions holds the version strings for the logical parts of an answer.
// Increment a version here before you deploy a change to that component.
var ComponentVersions = struct {
	// PromptLogic covers the persona, requirement and expertise tables and the
	// prompt template in internal/decision.
	PromptLogic string

	// CategoryData covers the category keyword lists and the language markers.
	CategoryData string

	// FallbackData covers the synthetic answer tables in internal/fallback.
	FallbackData string
}{
	PromptLogic:  "v2.1",
	CategoryData: "v1.3",
	FallbackData: "v1.2",
}

// VersionString is the compact suffix appended to every cache key.
func VersionString() string {
	return fmt.Sprintf("pv%s_cv%s_fv%s",
		ComponentVersions.PromptLogic,
		ComponentVersions.CategoryData,
		ComponentVersions.FallbackData,
	)
}

// GenerateVersionedCacheKey creates a content-addressed, version-aware key for
// an analysis. The question is normalized by trimming and lowercasing before
// hashing; a personalization context adds a hash of its JSON encoding.
//
// Example output: "analysis:9f2c...:pvv2.1_cvv1.3_fvv1.2"
func GenerateVersionedCacheKey(prefix, question string, mode decision.Mode, locale decision.Locale, personalization *decision.PersonalizationContext) string {
	parts := []string{
		decision.Lower(strings.TrimSpace(question)),
		string(mode),
		string(locale),
	}
	if personalization != nil {
		// Struct fields marshal in declaration order, so the encoding is stable.
		if raw, err := json.Marshal(personalization); err == nil {
			parts = append(parts, hashHex(raw))
		}
	}
	return fmt.Sprintf("%s:%s:%s", prefix, hashHex([]byte(strings.Join(parts, "-"))), VersionString())
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
