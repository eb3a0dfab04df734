package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTable(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 21)
	assert.Equal(t, CategoryCareer, cats[0].Key)
	assert.Equal(t, CategoryGeneral, cats[len(cats)-1].Key)

	for _, c := range cats {
		for _, loc := range Locales {
			assert.NotEmpty(t, c.Name[loc], "%s has no %s name", c.Key, loc)
			assert.NotEmpty(t, c.Description[loc], "%s has no %s description", c.Key, loc)
			if c.Key == CategoryGeneral {
				continue
			}
			assert.NotEmpty(t, c.Keywords[loc], "%s has no %s keywords", c.Key, loc)
		}
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name     string
		question string
		loc      Locale
		want     Category
	}{
		{"career keywords", "Should I ask for a promotion or change my job?", LocaleEN, CategoryCareer},
		{"long keyword bonus", "Should I marry my girlfriend?", LocaleEN, CategoryRelationship},
		// "software" scores two and "ai" matches inside "dubai", beating "job".
		{"substring matching", "Should I take a software engineering job in Dubai?", LocaleEN, CategoryTechnologyAdoption},
		// "pareja" and "casa" both score one; relationship is listed first.
		{"ties keep table order", "¿Debería casarme con mi pareja?", LocaleES, CategoryRelationship},
		{"turkish keywords", "Yeni bir iş teklifini kabul etmeli miyim?", LocaleTR, CategoryCareer},
		{"no hits", "hello world", LocaleEN, CategoryGeneral},
		{"unknown locale uses english keywords", "Should I invest in stocks?", Locale("xx"), CategoryInvestment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.question, tt.loc))
		})
	}
}

func TestScoreCategories(t *testing.T) {
	scores := ScoreCategories("Should I marry my girlfriend?", LocaleEN)
	require.Len(t, scores, 21)
	for _, s := range scores {
		if s.Category == CategoryRelationship {
			assert.Equal(t, 3, s.Score)
		} else {
			assert.Zero(t, s.Score, s.Category)
		}
	}
}

func TestLocalizedName(t *testing.T) {
	assert.Equal(t, "Career Decision", LocalizedName(CategoryCareer, LocaleEN))
	assert.Equal(t, "Kariyer Kararı", LocalizedName(CategoryCareer, LocaleTR))
	assert.Equal(t, "Career Decision", LocalizedName(CategoryCareer, Locale("de")))
	assert.Equal(t, "General Decision", LocalizedName(Category("nonsense"), LocaleTR))
	assert.Empty(t, LocalizedDescription(Category("nonsense"), LocaleEN))
}
