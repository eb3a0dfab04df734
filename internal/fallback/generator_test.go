package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

var sampleQuestions = map[decision.Locale]string{
	decision.LocaleEN: "Should I accept the new job offer at the startup?",
	decision.LocaleTR: "Yeni iş teklifini kabul etmeli miyim?",
	decision.LocaleES: "¿Debería aceptar la nueva oferta de trabajo?",
	decision.LocaleRU: "Стоит ли мне принять новое предложение о работе?",
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New()
	require.NoError(t, err)
	return g
}

// requireComplete asserts the analysis is schema valid and every field reads
// as the requested language.
func requireComplete(t *testing.T, a *decision.Analysis, loc decision.Locale) {
	t.Helper()
	require.NotNil(t, a)
	require.NoError(t, decision.ValidateSchema(a))
	for _, idx := range decision.ValidateFields(a, loc) {
		t.Errorf("field %d is not %s: %.80q", idx, loc, a.TextFields()[idx])
	}
}

func TestGeneric_AllLocales(t *testing.T) {
	g := newGenerator(t)
	for loc, q := range sampleQuestions {
		t.Run(string(loc), func(t *testing.T) {
			a, err := g.Generic(Input{Question: q, Mode: decision.ModeAnalytical, Locale: loc, Category: decision.CategoryCareer})
			require.NoError(t, err)
			requireComplete(t, a, loc)
			assert.Equal(t, decision.CategoryCareer, a.DetectedCategory)
			assert.Nil(t, a.PersonalizationScore)
		})
	}
}

func TestGeneric_QuotesQuestionAndMode(t *testing.T) {
	g := newGenerator(t)
	q := "Should I leave my stable corporate position to travel the world for a year?"
	a, err := g.Generic(Input{Question: q, Mode: decision.ModeCreative, Locale: decision.LocaleEN})
	require.NoError(t, err)

	assert.Contains(t, a.Pros[0], string([]rune(q)[:40])+"...")
	assert.NotContains(t, a.Pros[0], q)
	assert.Contains(t, a.Pros[3], "creative")
	assert.NotContains(t, strings.Join(a.TextFields(), " "), "{{")
}

func TestGeneric_UnknownLocaleUsesEnglish(t *testing.T) {
	g := newGenerator(t)
	a, err := g.Generic(Input{Question: "Should I?", Mode: decision.ModeEmotional, Locale: decision.Locale("de")})
	require.NoError(t, err)
	requireComplete(t, a, decision.LocaleEN)
}

func TestShowcase(t *testing.T) {
	g := newGenerator(t)

	_, ok, err := g.Showcase(Input{Question: "Should I buy a car?", Locale: decision.LocaleEN})
	require.NoError(t, err)
	assert.False(t, ok)

	for loc := range sampleQuestions {
		t.Run(string(loc), func(t *testing.T) {
			a, ok, err := g.Showcase(Input{Question: "Should I take a software engineering job in DUBAI?", Locale: loc, Category: decision.CategoryTechnologyAdoption})
			require.NoError(t, err)
			require.True(t, ok)
			requireComplete(t, a, loc)
			assert.Len(t, a.Pros, 6)
			assert.Len(t, a.Cons, 5)
			assert.Equal(t, decision.CategoryTechnologyAdoption, a.DetectedCategory)
		})
	}
}
