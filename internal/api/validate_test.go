package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

func TestValidateQuestion(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "valid", input: "Should I accept the new job offer?", want: "Should I accept the new job offer?"},
		{name: "normalized", input: "Should I   move\n to Berlin?", want: "Should I move to Berlin?"},
		{name: "empty", input: "   ", wantErr: "Question is required and must be a string"},
		{name: "too short", input: "Move?", wantErr: "Question must be at least 10 characters long"},
		{name: "short after sanitizing", input: "<b></b><i></i>short", wantErr: "Question must be at least 10 characters long"},
		{name: "too long", input: strings.Repeat("a", MaxQuestionLength+1), wantErr: "Question must not exceed 2000 characters"},
		{name: "script tag", input: "<script>x</script>Should I move abroad?", wantErr: "Question contains potentially harmful content"},
		{name: "sql keywords", input: "Should I drop the table I built?", wantErr: "Question contains potentially harmful content"},
		{name: "sql comment", input: "Should I stay -- or should I go?", wantErr: "Question contains potentially harmful content"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateQuestion(tc.input)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Equal(t, tc.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateQuestion_CountsRunes(t *testing.T) {
	// 2000 Cyrillic letters are 4000 bytes but still within the limit.
	q := strings.Repeat("я", MaxQuestionLength)
	got, err := ValidateQuestion(q)
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Analytical ")
	require.NoError(t, err)
	assert.Equal(t, decision.ModeAnalytical, m)

	_, err = ParseMode("logical")
	require.Error(t, err)
	assert.Equal(t, "Invalid mode. Must be one of: analytical, emotional, creative", err.Error())
}

func TestParseLocale(t *testing.T) {
	valid := map[string]decision.Locale{
		"en":     decision.LocaleEN,
		"en-US":  decision.LocaleEN,
		"tr_TR":  decision.LocaleTR,
		"RU":     decision.LocaleRU,
		"es-419": decision.LocaleES,
	}
	for input, want := range valid {
		got, err := ParseLocale(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"de", "fr-FR", "not a locale!"} {
		_, err := ParseLocale(input)
		require.Error(t, err, input)
		assert.Equal(t, "Invalid locale. Must be one of: en, tr, es, ru", err.Error())
	}
}

func TestAnalyzeRequest_Validate(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		_, err := AnalyzeRequest{Question: "Should I accept the offer?"}.Validate()
		require.Error(t, err)
		assert.Equal(t, "Missing required fields: question, mode, locale", err.Error())
	})

	t.Run("valid request", func(t *testing.T) {
		req, err := AnalyzeRequest{
			Question: "  Should I accept the <b>new</b> job offer?",
			Mode:     "emotional",
			Locale:   "en-GB",
			PersonalizationContext: &decision.PersonalizationContext{
				UserProfile: &decision.UserProfile{Age: 30, Profession: "Teacher"},
			},
		}.Validate()
		require.NoError(t, err)
		assert.Equal(t, "Should I accept the new job offer?", req.Question)
		assert.Equal(t, decision.ModeEmotional, req.Mode)
		assert.Equal(t, decision.LocaleEN, req.Locale)
		require.NotNil(t, req.Personalization)
		assert.Equal(t, "Teacher", req.Personalization.UserProfile.Profession)
	})

	t.Run("invalid mode reported before locale", func(t *testing.T) {
		_, err := AnalyzeRequest{Question: "Should I accept the offer?", Mode: "x", Locale: "x"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid mode")
	})
}
