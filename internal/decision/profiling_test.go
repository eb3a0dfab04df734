package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profilingNow = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

func TestInferProfile(t *testing.T) {
	tests := []struct {
		name      string
		questions []string
		loc       Locale
		want      *UserProfile
	}{
		{
			name: "english clues across questions",
			questions: []string{
				"I am a software engineer and 29 years old, should I join a risky startup?",
				"Should I move in with my girlfriend?",
			},
			loc: LocaleEN,
			want: &UserProfile{
				Age: 29, Profession: "Software Engineer", FamilyStatus: "relationship",
				Interests: []string{"business"}, RiskTolerance: "high",
			},
		},
		{
			name:      "birth year resolves against the clock",
			questions: []string{"I was born in 1990, should I change careers?"},
			loc:       LocaleEN,
			want:      &UserProfile{Age: 36},
		},
		{
			name:      "life event hints an age",
			questions: []string{"I just started university, should I change my major?"},
			loc:       LocaleEN,
			want:      &UserProfile{Age: 21, LifeStage: "student"},
		},
		{
			name:      "turkish suffixes match stems",
			questions: []string{"Yazılım mühendisiyim ve evliyim, yurt dışına taşınmalı mıyım?"},
			loc:       LocaleTR,
			want:      &UserProfile{Profession: "Yazılım Mühendisi", FamilyStatus: "married"},
		},
		{
			name:      "spanish age and partner",
			questions: []string{"Tengo 35 años y soy médica, ¿debería casarme con mi pareja?"},
			loc:       LocaleES,
			want:      &UserProfile{Age: 35, Profession: "Médico", FamilyStatus: "relationship"},
		},
		{
			name:      "russian",
			questions: []string{"Мне 40 лет, я программист и женат. Стоит ли открыть стартап?"},
			loc:       LocaleRU,
			want: &UserProfile{
				Age: 40, Profession: "Программист", FamilyStatus: "married",
				Interests: []string{"бизнес"}, RiskTolerance: "high",
			},
		},
		{
			name:      "opposing risk clues tie at medium",
			questions: []string{"Is a stable job better for me?", "Should I make a bold move?"},
			loc:       LocaleEN,
			want:      &UserProfile{RiskTolerance: "medium"},
		},
		{
			name:      "unknown locale uses english clues",
			questions: []string{"As a teacher, should I take a sabbatical?"},
			loc:       Locale("de"),
			want:      &UserProfile{Profession: "Teacher"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferProfile(tc.questions, tc.loc, profilingNow))
		})
	}
}

func TestInferProfile_NoClues(t *testing.T) {
	assert.Nil(t, InferProfile(nil, LocaleEN, profilingNow))
	assert.Nil(t, InferProfile([]string{"", "   "}, LocaleEN, profilingNow))
	assert.Nil(t, InferProfile([]string{"Should I paint the door blue?"}, LocaleEN, profilingNow))
	// A child's age is not the asker's.
	assert.Nil(t, InferProfile([]string{"What should I buy my 5 year old for her birthday?"}, LocaleEN, profilingNow))
}

func TestInferProfile_WholeWordsOnly(t *testing.T) {
	// "art" must not match inside "start" and "single" not inside "singles".
	got := InferProfile([]string{"Should I start a podcast about singles bars?"}, LocaleEN, profilingNow)
	assert.Nil(t, got)
}

func TestCompleteProfile(t *testing.T) {
	history := []DecisionHistory{{Question: "Should I leave my husband and my stable job as a nurse?"}}

	t.Run("fills only blank fields", func(t *testing.T) {
		in := &PersonalizationContext{
			UserProfile:     &UserProfile{Profession: "Midwife", Location: "Izmir"},
			RecentDecisions: history,
		}
		out := CompleteProfile(in, LocaleEN, profilingNow)
		require.NotSame(t, in, out)
		require.NotNil(t, out.UserProfile)

		assert.Equal(t, "Midwife", out.UserProfile.Profession)
		assert.Equal(t, "Izmir", out.UserProfile.Location)
		assert.Equal(t, "married", out.UserProfile.FamilyStatus)
		assert.Equal(t, "low", out.UserProfile.RiskTolerance)
		assert.Empty(t, in.UserProfile.FamilyStatus, "input must not be modified")
		assert.Greater(t, Score(out), Score(in))
	})

	t.Run("creates a profile when none was given", func(t *testing.T) {
		in := &PersonalizationContext{RecentDecisions: history}
		out := CompleteProfile(in, LocaleEN, profilingNow)
		require.NotNil(t, out.UserProfile)
		assert.Equal(t, "Nurse", out.UserProfile.Profession)
		assert.Nil(t, in.UserProfile)
	})

	t.Run("previous decisions on the profile count too", func(t *testing.T) {
		in := &PersonalizationContext{UserProfile: &UserProfile{PreviousDecisions: history}}
		out := CompleteProfile(in, LocaleEN, profilingNow)
		assert.Equal(t, "Nurse", out.UserProfile.Profession)
	})

	t.Run("returns the input when nothing is filled", func(t *testing.T) {
		full := &PersonalizationContext{
			UserProfile: &UserProfile{
				Age: 40, Profession: "Nurse", LifeStage: "mid_career", FamilyStatus: "married",
				RiskTolerance: "low", Interests: []string{"reading"},
			},
			RecentDecisions: history,
		}
		assert.Same(t, full, CompleteProfile(full, LocaleEN, profilingNow))

		quiet := &PersonalizationContext{RecentDecisions: []DecisionHistory{{Question: "Should I paint the door blue?"}}}
		assert.Same(t, quiet, CompleteProfile(quiet, LocaleEN, profilingNow))
		assert.Nil(t, CompleteProfile(nil, LocaleEN, profilingNow))
	})
}

func TestProfilingTablesCoverEveryLocale(t *testing.T) {
	valid := map[string][]string{
		"lifeStage":    {"student", "early_career", "mid_career", "senior", "retired"},
		"familyStatus": {"single", "relationship", "married", "parent", "caregiver"},
	}
	for _, loc := range Locales {
		p, ok := profilers[loc]
		require.True(t, ok, "no profiling clues for %s", loc)
		assert.NotEmpty(t, p.numeric, loc)
		assert.NotEmpty(t, p.profession, loc)
		assert.NotEmpty(t, p.interests, loc)
		assert.NotEmpty(t, p.riskLow.phrases, loc)
		assert.NotEmpty(t, p.riskHigh.phrases, loc)
		for _, r := range p.lifeStage {
			assert.Contains(t, valid["lifeStage"], r.value, loc)
		}
		for _, r := range p.family {
			assert.Contains(t, valid["familyStatus"], r.value, loc)
		}
	}
}
