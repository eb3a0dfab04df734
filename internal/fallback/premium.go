// In file: internal/fallback/premium.go
package fallback

import (
	"fmt"
	"strings"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

// Context is the coarse topic the premium generator keys its tables on. It is
// deliberately broader than decision.Category.
type Context string

const (
	ContextCareer       Context = "career"
	ContextRelationship Context = "relationship"
	ContextLifestyle    Context = "lifestyle"
	ContextFinancial    Context = "financial"
	ContextHealth       Context = "health"
	ContextEducation    Context = "education"
	ContextGeneral      Context = "general"
)

// contextRules are checked in order; the first rule with a substring hit wins.
var contextRules = []struct {
	ctx      Context
	keywords []string
}{
	{ContextCareer, []string{
		"job", "work", "career", "software engineer", "developer", "programming",
		"yazılım", "mühendis", "geliştiric", "programc", "iş", "çalış", "kariyer",
		"trabajo", "empleo", "carrera", "desarrollador", "programador", "ingeniero",
		"работа", "карьера", "программист", "разработчик", "инженер",
	}},
	{ContextRelationship, []string{
		"relationship", "marry", "love",
		"evli", "sevgili", "aşk",
		"relación", "amor", "matrimonio",
		"отношения", "любовь", "брак",
	}},
	{ContextLifestyle, []string{
		"move", "relocate", "city",
		"taşın", "şehir", "ev",
		"mudanza", "ciudad", "casa",
		"переезд", "город", "дом",
	}},
	{ContextFinancial, []string{
		"invest", "money", "financial", "para", "dinero", "yatır", "деньги", "финанс",
	}},
	{ContextHealth, []string{"health", "medical", "sağlık", "salud", "здоровье"}},
	{ContextEducation, []string{"education", "study", "school", "eğitim", "okul", "educación", "образование"}},
}

// ClassifyContext maps a question to its premium topic by substring match.
func ClassifyContext(question string) Context {
	for _, r := range contextRules {
		if decision.ContainsAnySubstring(question, r.keywords) {
			return r.ctx
		}
	}
	return ContextGeneral
}

// PersonalizationThreshold is the score a context must exceed before the
// premium answer is tailored to the profile.
const PersonalizationThreshold = 50

// Premium returns the topic-specific answer, tailored to the user's profile
// when the personalization context is rich enough. The demo question still
// gets its showcase answer.
func (g *Generator) Premium(in Input) (*decision.Analysis, error) {
	if a, ok, err := g.Showcase(in); ok {
		return a, err
	}

	ctx := ClassifyContext(in.Question)
	responses := g.lookupResponses(in.Locale, ctx)
	analysis := g.lookupAnalysis(in.Locale, ctx, in.Category)

	variant := g.variantFor(in.Question)
	responses = responses.variant(variant)
	analysis = analysis.variant(variant)

	score := decision.Score(in.Personalization)
	v := baseVars(in.Question, string(in.Mode))

	var profile *decision.UserProfile
	if in.Personalization != nil && in.Personalization.UserProfile != nil && score > PersonalizationThreshold {
		profile = in.Personalization.UserProfile
		g.applyProfile(v, profile)
	}

	a, err := build(responses, analysis, v)
	if err != nil {
		return nil, fmt.Errorf("failed to render premium analysis: %w", err)
	}

	if profile != nil {
		if err := g.appendProfileText(a, in.Locale, ctx, v); err != nil {
			return nil, fmt.Errorf("failed to render premium personalization: %w", err)
		}
	}

	confidence := decision.ConfidenceFor(score)
	a.DetectedCategory = in.Category
	a.PersonalizationScore = &score
	a.ConfidenceLevel = &confidence
	return a, nil
}

func (g *Generator) lookupResponses(loc decision.Locale, ctx Context) *entry {
	byCtx := g.premium.Responses[loc]
	if e := byCtx[string(ctx)]; e != nil {
		return e
	}
	if e := byCtx[string(ContextGeneral)]; e != nil {
		return e
	}
	return g.premium.Responses[decision.LocaleEN][string(ContextGeneral)]
}

// lookupAnalysis prefers the topic entry, then the detected category entry,
// then the locale's general entry.
func (g *Generator) lookupAnalysis(loc decision.Locale, ctx Context, cat decision.Category) *entry {
	byKey := g.premium.Analysis[loc]
	keys := []string{string(cat), string(ContextGeneral)}
	if ctx != ContextGeneral {
		keys = append([]string{string(ctx)}, keys...)
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if e := byKey[key]; e != nil {
			return e
		}
	}
	return g.premium.Analysis[decision.LocaleEN][string(ContextGeneral)]
}

func (g *Generator) variantFor(question string) string {
	switch {
	case decision.ContainsAnySubstring(question, g.premium.Triggers.Tech):
		return "tech"
	case decision.ContainsAnySubstring(question, g.premium.Triggers.Fitness):
		return "fitness"
	}
	return ""
}

func (g *Generator) phrase(key, fallback string) string {
	if p, ok := g.premium.Phrases[key]; ok {
		return p
	}
	return fallback
}

// applyProfile fills the profile fields of v and swaps the neutral phrases
// for profile specific ones. Missing profile fields take the defaults age 25,
// "professional" and "medium".
func (g *Generator) applyProfile(v *vars, p *decision.UserProfile) {
	v.Age = p.Age
	if v.Age == 0 {
		v.Age = 25
	}
	v.Profession = p.Profession
	if v.Profession == "" {
		v.Profession = "professional"
	}
	v.RiskTolerance = p.RiskTolerance
	if v.RiskTolerance == "" {
		v.RiskTolerance = "medium"
	}
	v.Location = p.Location

	profession := decision.Lower(v.Profession)
	technical := strings.Contains(profession, "engineer") || strings.Contains(profession, "developer")

	switch {
	case v.Age <= 25:
		v.Professional = g.phrase("early_career_professional", v.Professional)
		v.Crossroads = g.phrase("early_career_crossroads", v.Crossroads)
	case v.Age >= 45:
		v.Professional = g.phrase("experienced_professional", v.Professional)
	}

	if strings.Contains(profession, "student") {
		v.Career = g.phrase("academic_career", v.Career)
	} else if technical {
		v.Industry = g.phrase("tech_industry", v.Industry)
	}
	if technical {
		v.Frameworks = g.phrase("engineering_frameworks", v.Frameworks)
	}

	switch v.RiskTolerance {
	case "low":
		v.PhaseOne = g.phrase("conservative_phase", v.PhaseOne)
	case "high":
		v.PhaseOne = g.phrase("accelerated_phase", v.PhaseOne)
	}
}

// appendProfileText adds the location note to every pro for money related
// topics, the student note to the emotional reasoning and the profile insight
// to the summary.
func (g *Generator) appendProfileText(a *decision.Analysis, loc decision.Locale, ctx Context, v *vars) error {
	if v.Location != "" && (ctx == ContextCareer || ctx == ContextFinancial || ctx == ContextLifestyle) {
		suffix, err := localeText(g.premium.LocationSuffix, loc).render(v)
		if err != nil {
			return err
		}
		for i := range a.Pros {
			a.Pros[i] += suffix
		}
	}

	if strings.Contains(decision.Lower(v.Profession), "student") {
		if t, ok := g.premium.StudentTransition[loc]; ok {
			note, err := t.render(v)
			if err != nil {
				return err
			}
			a.EmotionalReasoning += note
		}
	}

	insight, err := localeText(g.premium.ProfileInsight, loc).render(v)
	if err != nil {
		return err
	}
	a.Summary += insight
	return nil
}

func localeText(m map[decision.Locale]*text, loc decision.Locale) *text {
	if t, ok := m[loc]; ok {
		return t
	}
	return m[decision.LocaleEN]
}
