package decision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		ctx  *PersonalizationContext
		want int
	}{
		{"nil context", nil, 0},
		{"empty context", &PersonalizationContext{}, 0},
		{
			name: "full profile only",
			ctx: &PersonalizationContext{UserProfile: &UserProfile{
				Age: 30, Profession: "engineer", Location: "Istanbul", RiskTolerance: "high",
				DecisionStyle: "quick", LifeStage: "early_career", FamilyStatus: "single", FinancialSituation: "comfortable",
			}},
			want: 100,
		},
		{
			// 8 of 40
			name: "profession only",
			ctx:  &PersonalizationContext{UserProfile: &UserProfile{Profession: "teacher"}},
			want: 20,
		},
		{
			// empty history still counts toward the denominator: 0 of 30
			name: "empty history",
			ctx:  &PersonalizationContext{RecentDecisions: []DecisionHistory{}},
			want: 0,
		},
		{
			// (5+3) of 10
			name: "cultural with empty values",
			ctx:  &PersonalizationContext{CulturalContext: &CulturalContext{Country: "TR", CulturalValues: []string{}}},
			want: 80,
		},
		{
			// profile 5/40, history 30/30, session 5/20 -> 40/90
			name: "mixed buckets",
			ctx: &PersonalizationContext{
				UserProfile:     &UserProfile{Age: 40},
				RecentDecisions: make([]DecisionHistory, 7),
				SessionContext:  &SessionContext{Budget: "limited"},
			},
			want: 44,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.ctx))
		})
	}
}

func TestAgeGroup(t *testing.T) {
	assert.Equal(t, "Young adult (18-25)", AgeGroup(25, LocaleEN))
	assert.Equal(t, "Early career (26-35)", AgeGroup(26, LocaleEN))
	assert.Equal(t, "Mid-career (36-50)", AgeGroup(50, LocaleEN))
	assert.Equal(t, "Senior professional (51-65)", AgeGroup(65, LocaleEN))
	assert.Equal(t, "Retired (65+)", AgeGroup(66, LocaleEN))
	assert.Equal(t, "Emekli (65+)", AgeGroup(80, LocaleTR))
}

func TestTopCategories(t *testing.T) {
	history := []DecisionHistory{
		{Category: CategoryTravel},
		{Category: CategoryCareer},
		{Category: CategoryFamily},
		{Category: CategoryCareer},
		{Category: CategoryEducation},
		{Category: CategoryFamily},
	}
	assert.Equal(t, []Category{CategoryCareer, CategoryFamily, CategoryTravel}, TopCategories(history, 3))
	assert.Empty(t, TopCategories(nil, 3))
}

func TestPersonalizedPromptAdditions(t *testing.T) {
	ctx := &PersonalizationContext{
		UserProfile: &UserProfile{
			Age:           28,
			Profession:    "Software Engineer",
			RiskTolerance: "high",
			FamilyStatus:  "astronaut",
			Interests:     []string{"hiking", "chess"},
		},
		RecentDecisions: []DecisionHistory{
			{Category: CategoryCareer, UserFeedback: &Feedback{Helpful: true, Rating: 5}},
			{Category: CategoryCareer, UserFeedback: &Feedback{Helpful: true, Rating: 3}},
			{Category: CategoryTravel},
		},
		SessionContext:  &SessionContext{CurrentMood: "stressed", Stakeholders: []string{"partner"}},
		CulturalContext: &CulturalContext{Country: "Turkey"},
	}

	out := personalizedPromptAdditions(ctx, LocaleEN, "PERSONALIZED_ANALYSIS_1_abcdef")
	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 6)

	assert.Equal(t, "🎯 CRITICAL PERSONALIZATION DIRECTIVE:\n"+
		"This analysis MUST be uniquely tailored to the user's specific profile and context below.\n"+
		"🆔 Unique Analysis ID: PERSONALIZED_ANALYSIS_1_abcdef", blocks[0])

	assert.Equal(t, "🎯 USER PERSONALIZATION CONTEXT:\n"+
		"📊 Age group: Early career (26-35)\n"+
		"💼 Professional background: Software Engineer\n"+
		"⚖️ Risk tolerance: Aggressive\n"+
		"👨‍👩‍👧‍👦 Family situation: astronaut\n"+
		"🎨 Key interests: hiking, chess", blocks[1])

	assert.Equal(t, "📚 DECISION HISTORY INSIGHTS:\n"+
		"📊 Frequently analyzed categories: career, travel\n"+
		"✅ Previous successful decisions: 1 positive outcomes", blocks[2])

	assert.Equal(t, "⏰ CURRENT SESSION CONTEXT:\n"+
		"😊 Current mood: Stressed\n"+
		"👥 Key stakeholders: partner", blocks[3])

	assert.Equal(t, "🌍 CULTURAL CONTEXT:\n🏛️ Country/Region: Turkey", blocks[4])

	assert.True(t, strings.HasPrefix(blocks[5], "🚨 MANDATORY PERSONALIZATION REQUIREMENTS:\n1. "))
	assert.Contains(t, blocks[5], "\n5. Make this analysis completely unique")
}

func TestPersonalizedPromptAdditions_Localized(t *testing.T) {
	out := personalizedPromptAdditions(&PersonalizationContext{}, LocaleTR, "m")
	assert.True(t, strings.HasPrefix(out, "🎯 KRİTİK KİŞİSELLEŞTİRME TALİMATI:"))
	assert.Contains(t, out, "🚨 ZORUNLU KİŞİSELLEŞTİRME GEREKSİNİMLERİ:")

	fallback := personalizedPromptAdditions(&PersonalizationContext{}, Locale("de"), "m")
	assert.True(t, strings.HasPrefix(fallback, "🎯 CRITICAL PERSONALIZATION DIRECTIVE:"))
}

func TestNewAnalysisMarker(t *testing.T) {
	m := NewAnalysisMarker()
	assert.Regexp(t, `^PERSONALIZED_ANALYSIS_\d+_[0-9a-z]{6}$`, m)
	assert.NotEqual(t, m, NewAnalysisMarker())
}
