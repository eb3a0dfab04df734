package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

func TestClassifyContext(t *testing.T) {
	tests := []struct {
		question string
		want     Context
	}{
		{"Should I quit my job?", ContextCareer},
		{"Yeni bir iş teklifini kabul etmeli miyim?", ContextCareer},
		{"Should I marry her?", ContextRelationship},
		{"Should I move to a new city?", ContextLifestyle},
		{"Should I invest my money?", ContextFinancial},
		{"Is this medical treatment worth it?", ContextHealth},
		{"Should I study abroad?", ContextEducation},
		{"hello", ContextGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyContext(tt.question))
		})
	}
}

func TestPremium_AllLocalesWithoutProfile(t *testing.T) {
	g := newGenerator(t)
	for loc, q := range sampleQuestions {
		t.Run(string(loc), func(t *testing.T) {
			a, err := g.Premium(Input{Question: q, Mode: decision.ModeAnalytical, Locale: loc, Category: decision.CategoryCareer})
			require.NoError(t, err)
			requireComplete(t, a, loc)
			require.NotNil(t, a.PersonalizationScore)
			assert.Zero(t, *a.PersonalizationScore)
			assert.InDelta(t, 85.0, *a.ConfidenceLevel, 1e-9)
		})
	}
}

func TestPremium_PersonalizedEnglishCareer(t *testing.T) {
	g := newGenerator(t)
	// age, profession, location and risk: 22 of 40 points, score 55
	ctx := &decision.PersonalizationContext{UserProfile: &decision.UserProfile{
		Age:           24,
		Profession:    "Software Engineer",
		Location:      "Berlin",
		RiskTolerance: "high",
	}}
	a, err := g.Premium(Input{
		Question:        "Should I become a developer at a big company?",
		Mode:            decision.ModeAnalytical,
		Locale:          decision.LocaleEN,
		Category:        decision.CategoryCareer,
		Personalization: ctx,
	})
	require.NoError(t, err)
	requireComplete(t, a, decision.LocaleEN)

	assert.Equal(t, 55, *a.PersonalizationScore)
	assert.InDelta(t, 93.25, *a.ConfidenceLevel, 1e-9)

	assert.Contains(t, a.Pros[0], "Extraordinary early-career professional advancement")
	assert.Contains(t, a.Pros[0], "tech industry recognition")
	for _, p := range a.Pros {
		assert.True(t, strings.HasSuffix(p, " (especially relevant for Berlin market)"), p)
	}
	assert.Contains(t, a.EmotionalReasoning, "pivotal early-career emotional crossroads")
	assert.Contains(t, a.LogicalReasoning, "engineering-specific strategic frameworks")
	assert.Contains(t, a.Suggestion, "Phase 1 (Accelerated Approach)")
	assert.True(t, strings.HasSuffix(a.Summary,
		" Given your profile as a 24-year-old Software Engineer with high risk tolerance, this decision aligns well with your current life stage and professional trajectory."))
}

func TestPremium_ThinProfileIsNotPersonalized(t *testing.T) {
	g := newGenerator(t)
	ctx := &decision.PersonalizationContext{UserProfile: &decision.UserProfile{Profession: "student", Location: "Madrid"}}
	a, err := g.Premium(Input{Question: "Should I quit my job?", Locale: decision.LocaleEN, Personalization: ctx})
	require.NoError(t, err)

	// 11 of 40 points
	assert.Equal(t, 28, *a.PersonalizationScore)
	assert.Contains(t, a.Pros[0], "Extraordinary professional advancement")
	assert.NotContains(t, a.Pros[0], "Madrid")
	assert.NotContains(t, a.Summary, "Given your profile")
}

func TestPremium_StudentNote(t *testing.T) {
	g := newGenerator(t)
	ctx := &decision.PersonalizationContext{UserProfile: &decision.UserProfile{
		Age: 21, Profession: "Student", RiskTolerance: "low", DecisionStyle: "thorough",
	}}
	a, err := g.Premium(Input{Question: "Should I quit my job?", Locale: decision.LocaleEN, Personalization: ctx})
	require.NoError(t, err)

	assert.Contains(t, a.Pros[1], "Strategic academic and career positioning")
	assert.True(t, strings.HasSuffix(a.EmotionalReasoning,
		" As a Student, this decision represents a crucial transition from academic to professional life."))
	assert.Contains(t, a.Suggestion, "Phase 1 (Conservative Approach)")
}

func TestPremium_Variants(t *testing.T) {
	g := newGenerator(t)

	tech, err := g.Premium(Input{Question: "Yazılım mühendisi olmalı mıyım?", Locale: decision.LocaleTR, Category: decision.CategoryCareer})
	require.NoError(t, err)
	requireComplete(t, tech, decision.LocaleTR)
	assert.True(t, strings.HasPrefix(tech.Pros[0], "🌟 Yazılım sektöründe"))
	assert.True(t, strings.HasPrefix(tech.Suggestion, "Yazılım Mühendisliği Geçiş Protokolü"))

	fitness, err := g.Premium(Input{Question: "Spor salonuna yazılmalı mıyım?", Locale: decision.LocaleTR, Category: decision.CategoryLifestyleHealth})
	require.NoError(t, err)
	requireComplete(t, fitness, decision.LocaleTR)
	assert.True(t, strings.HasPrefix(fitness.Suggestion, "Optimal Fitness Protokolü"))
}

func TestPremium_FallsBackToCategoryAnalysis(t *testing.T) {
	g := newGenerator(t)
	a, err := g.Premium(Input{Question: "Should I adopt a new password manager?", Locale: decision.LocaleEN, Category: decision.CategoryTechnologyAdoption})
	require.NoError(t, err)
	requireComplete(t, a, decision.LocaleEN)

	general, err := g.Premium(Input{Question: "Should I adopt a new password manager?", Locale: decision.LocaleEN, Category: decision.CategoryGeneral})
	require.NoError(t, err)
	assert.NotEqual(t, general.LogicalReasoning, a.LogicalReasoning)
}

func TestPremium_ShowcaseWins(t *testing.T) {
	g := newGenerator(t)
	a, err := g.Premium(Input{Question: "Should I take a software engineering job in Dubai?", Locale: decision.LocaleEN})
	require.NoError(t, err)
	assert.Len(t, a.Pros, 6)
	assert.Nil(t, a.PersonalizationScore)
}
