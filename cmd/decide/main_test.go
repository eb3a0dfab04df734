package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep a stray config.yaml or key in the environment out of the tests.
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DECIDE_GEMINI_API_KEY", "")

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("models:\n  primary: gemini-1.5-flash\n"), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", cfg, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeProfile(t *testing.T, ctx *decision.PersonalizationContext) string {
	t.Helper()
	raw, err := json.Marshal(ctx)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestClassify(t *testing.T) {
	q := "Should I quit my job to start my own company?"
	lang := decision.DetectLanguage(q)
	want := decision.DetectCategory(q, lang)

	out, err := execute(t, "classify", q)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s\t%s\n", want, decision.LocalizedName(want, lang)), out)
}

func TestClassify_InvalidLocale(t *testing.T) {
	_, err := execute(t, "classify", "Should I move abroad?", "--locale", "de")
	assert.Error(t, err)
}

func TestDetectLang(t *testing.T) {
	text := "Стоит ли мне переехать в другой город?"
	out, err := execute(t, "detect-lang", text)
	require.NoError(t, err)
	assert.Equal(t, string(decision.DetectLanguage(text))+"\n", out)
}

func TestDetectLang_Expect(t *testing.T) {
	_, err := execute(t, "detect-lang", "This answer is written in plain English", "--expect", "ru")
	require.Error(t, err)
	assert.Equal(t, "text is not in ru", err.Error())
}

func TestPrompt(t *testing.T) {
	q := "Should I move to another city for a better job?"
	out, err := execute(t, "prompt", q, "--mode", "creative")
	require.NoError(t, err)
	assert.Contains(t, out, q)

	_, err = execute(t, "prompt", q, "--mode", "logical")
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	ctx := &decision.PersonalizationContext{
		UserProfile: &decision.UserProfile{Age: 24, Profession: "Software Engineer", Interests: []string{"hiking"}},
	}
	want := decision.Score(ctx)

	out, err := execute(t, "score", "--profile", writeProfile(t, ctx))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, fmt.Sprintf("score: %d\n", want)), out)
	assert.Contains(t, out, fmt.Sprintf("confidence: %.2f", decision.ConfidenceFor(want)))
}

func TestScore_InferFillsProfileFromHistory(t *testing.T) {
	ctx := &decision.PersonalizationContext{RecentDecisions: []decision.DecisionHistory{
		{Question: "I am a software engineer and 29 years old, should I join a risky startup?"},
		{Question: "Should I move in with my girlfriend?"},
	}}
	path := writeProfile(t, ctx)

	out, err := execute(t, "score", "--profile", path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("score: 33\nconfidence: %.2f\n", decision.ConfidenceFor(33)), out)

	out, err = execute(t, "score", "--profile", path, "--infer")
	require.NoError(t, err)
	assert.Contains(t, out, "inferred age: 29\n")
	assert.Contains(t, out, "inferred profession: Software Engineer\n")
	assert.Contains(t, out, "inferred familyStatus: relationship\n")
	assert.Contains(t, out, "inferred riskTolerance: high\n")
	assert.Contains(t, out, "inferred interests: business\n")
	assert.Contains(t, out, "score: 47\n")
}

func TestScore_InferRejectsUnknownLocale(t *testing.T) {
	ctx := &decision.PersonalizationContext{RecentDecisions: []decision.DecisionHistory{{Question: "Should I switch teams?"}}}
	_, err := execute(t, "score", "--profile", writeProfile(t, ctx), "--infer", "--locale", "de")
	assert.Error(t, err)
}

func TestScore_RequiresProfile(t *testing.T) {
	_, err := execute(t, "score")
	assert.Error(t, err)
}

func TestAnalyze_Offline(t *testing.T) {
	q := "Should I move to another city for a better job?"
	out, err := execute(t, "analyze", q, "--mode", "analytical", "--locale", "en", "--offline")
	require.NoError(t, err)

	var a decision.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.GreaterOrEqual(t, len(a.Pros), 4)
	assert.GreaterOrEqual(t, len(a.Cons), 4)
	assert.Equal(t, decision.DetectCategory(q, decision.LocaleEN), a.DetectedCategory)
	require.NotNil(t, a.PersonalizationScore)
	assert.Equal(t, 0, *a.PersonalizationScore)
}

func TestAnalyze_WithoutKeyFails(t *testing.T) {
	_, err := execute(t, "analyze", "Should I move to another city for a better job?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestAnalyze_RejectsInvalidQuestion(t *testing.T) {
	_, err := execute(t, "analyze", "short", "--offline")
	require.Error(t, err)
	assert.Equal(t, "Question must be at least 10 characters long", err.Error())
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "decide dev\n", out)
}
