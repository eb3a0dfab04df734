// In file: internal/decision/categories.go
package decision

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed data/categories.yaml
var categoriesYAML []byte

// CategoryInfo is the localized metadata of one category.
type CategoryInfo struct {
	Key         Category            `yaml:"key"`
	Name        map[Locale]string   `yaml:"name"`
	Description map[Locale]string   `yaml:"description"`
	Keywords    map[Locale][]string `yaml:"keywords"`
}

const generalName = "General Decision"

var categoryTable = mustLoadCategories(categoriesYAML)

func mustLoadCategories(raw []byte) []CategoryInfo {
	var doc struct {
		Categories []CategoryInfo `yaml:"categories"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("decision: failed to parse categories table: %v", err))
	}
	for i := range doc.Categories {
		for loc, kws := range doc.Categories[i].Keywords {
			for j, k := range kws {
				kws[j] = Lower(k)
			}
			doc.Categories[i].Keywords[loc] = kws
		}
	}
	return doc.Categories
}

// Categories returns the category table in classification order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// Info returns the metadata for key, if it exists.
func Info(key Category) (CategoryInfo, bool) {
	for _, c := range categoryTable {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryInfo{}, false
}

func (c CategoryInfo) keywordsFor(loc Locale) []string {
	if kws := c.Keywords[loc]; len(kws) > 0 {
		return kws
	}
	return c.Keywords[LocaleEN]
}

func localized(m map[Locale]string, loc Locale) string {
	if v := m[loc]; v != "" {
		return v
	}
	return m[LocaleEN]
}

// LocalizedName returns the display name of key in loc, falling back to
// English and then to the generic name for unknown keys.
func LocalizedName(key Category, loc Locale) string {
	if c, ok := Info(key); ok {
		if name := localized(c.Name, loc); name != "" {
			return name
		}
	}
	return generalName
}

// LocalizedDescription returns the description of key in loc, or "" when the
// key is unknown.
func LocalizedDescription(key Category, loc Locale) string {
	if c, ok := Info(key); ok {
		return localized(c.Description, loc)
	}
	return ""
}

// CategoryScore is the raw classifier score for one category.
type CategoryScore struct {
	Category Category
	Score    int
}

// ScoreCategories scores every category against question. Each keyword found
// as a substring of the lowercased question adds one point, plus one more when
// the keyword is longer than six characters.
func ScoreCategories(question string, loc Locale) []CategoryScore {
	lower := Lower(question)
	scores := make([]CategoryScore, 0, len(categoryTable))
	for _, c := range categoryTable {
		score := 0
		for _, k := range c.keywordsFor(loc) {
			if k == "" || !strings.Contains(lower, k) {
				continue
			}
			score++
			if utf8.RuneCountInString(k) > 6 {
				score++
			}
		}
		scores = append(scores, CategoryScore{Category: c.Key, Score: score})
	}
	return scores
}

// DetectCategory returns the highest scoring category for question. Ties go to
// the category listed first; a question with no keyword hits is general.
func DetectCategory(question string, loc Locale) Category {
	best, bestScore := CategoryGeneral, 0
	for _, s := range ScoreCategories(question, loc) {
		if s.Score > bestScore {
			best, bestScore = s.Category, s.Score
		}
	}
	return best
}
