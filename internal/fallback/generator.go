// In file: internal/fallback/generator.go

// Package fallback synthesizes complete decision analyses without calling a
// model. There are three generators, in escalating order of effort: a fixed
// showcase answer for a known demo question, a generic contextual answer that
// quotes the question, and a premium answer picked by topic and tailored to
// the user's profile.
package fallback

import (
	"embed"
	"fmt"
	"strings"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Input is everything a generator may draw on.
type Input struct {
	Question        string
	Mode            decision.Mode
	Locale          decision.Locale
	Category        decision.Category
	Personalization *decision.PersonalizationContext
}

type showcaseTable struct {
	Trigger string                     `yaml:"trigger"`
	Locales map[decision.Locale]*entry `yaml:"locales"`
}

type premiumTable struct {
	Triggers struct {
		Tech    []string `yaml:"tech"`
		Fitness []string `yaml:"fitness"`
	} `yaml:"triggers"`
	LocationSuffix    map[decision.Locale]*text             `yaml:"location_suffix"`
	ProfileInsight    map[decision.Locale]*text             `yaml:"profile_insight"`
	StudentTransition map[decision.Locale]*text             `yaml:"student_transition"`
	Phrases           map[string]string                     `yaml:"phrases"`
	Responses         map[decision.Locale]map[string]*entry `yaml:"responses"`
	Analysis          map[decision.Locale]map[string]*entry `yaml:"analysis"`
}

// Generator renders synthetic analyses from the embedded template tables. It
// is immutable after construction and safe for concurrent use.
type Generator struct {
	showcase showcaseTable
	generic  map[decision.Locale]*entry
	premium  premiumTable
}

// New loads and compiles the embedded template tables.
func New() (*Generator, error) {
	g := &Generator{}
	if err := load("data/showcase.yaml", &g.showcase); err != nil {
		return nil, err
	}
	if err := load("data/generic.yaml", &g.generic); err != nil {
		return nil, err
	}
	if err := load("data/premium.yaml", &g.premium); err != nil {
		return nil, err
	}
	if g.showcase.Locales[decision.LocaleEN] == nil || g.generic[decision.LocaleEN] == nil {
		return nil, fmt.Errorf("fallback tables are missing English entries")
	}
	if g.premium.Responses[decision.LocaleEN][string(ContextGeneral)] == nil ||
		g.premium.Analysis[decision.LocaleEN][string(ContextGeneral)] == nil {
		return nil, fmt.Errorf("premium tables are missing the English general entry")
	}
	return g, nil
}

func load(name string, into any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// IsShowcase reports whether question is the hard-coded demo question.
func (g *Generator) IsShowcase(question string) bool {
	return strings.Contains(decision.Lower(question), g.showcase.Trigger)
}

// Showcase returns the hand-written answer for the demo question. It reports
// false when question is not the demo question.
func (g *Generator) Showcase(in Input) (*decision.Analysis, bool, error) {
	if !g.IsShowcase(in.Question) {
		return nil, false, nil
	}
	e := localeEntry(g.showcase.Locales, in.Locale)
	a, err := build(e, e, baseVars(in.Question, string(in.Mode)))
	if err != nil {
		return nil, true, fmt.Errorf("failed to render showcase analysis: %w", err)
	}
	a.DetectedCategory = in.Category
	return a, true, nil
}

// Generic returns the contextual answer that quotes the question and mode
// back to the user. It never looks at the personalization context.
func (g *Generator) Generic(in Input) (*decision.Analysis, error) {
	e := localeEntry(g.generic, in.Locale)
	a, err := build(e, e, baseVars(in.Question, string(in.Mode)))
	if err != nil {
		return nil, fmt.Errorf("failed to render generic analysis: %w", err)
	}
	a.DetectedCategory = in.Category
	return a, nil
}

func localeEntry(m map[decision.Locale]*entry, loc decision.Locale) *entry {
	if e, ok := m[loc]; ok && e != nil {
		return e
	}
	return m[decision.LocaleEN]
}

func build(responses, analysis *entry, v *vars) (*decision.Analysis, error) {
	pros, err := renderAll(responses.Pros, v)
	if err != nil {
		return nil, err
	}
	cons, err := renderAll(responses.Cons, v)
	if err != nil {
		return nil, err
	}
	a := &decision.Analysis{Pros: pros, Cons: cons}
	for _, f := range []struct {
		dst *string
		src *text
	}{
		{&a.EmotionalReasoning, analysis.EmotionalReasoning},
		{&a.LogicalReasoning, analysis.LogicalReasoning},
		{&a.Suggestion, analysis.Suggestion},
		{&a.Summary, analysis.Summary},
	} {
		if *f.dst, err = f.src.render(v); err != nil {
			return nil, err
		}
	}
	return a, nil
}
