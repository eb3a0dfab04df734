// In file: internal/decision/personalization.go
package decision

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/personalization.yaml
var personalizationYAML []byte

type personalizationTexts struct {
	Directive struct {
		Header   string `yaml:"header"`
		Mandate  string `yaml:"mandate"`
		UniqueID string `yaml:"uniqueId"`
	} `yaml:"directive"`
	Instructions struct {
		Instructions string   `yaml:"instructions"`
		Requirements []string `yaml:"requirements"`
	} `yaml:"instructions"`
	Profile struct {
		UserContext        string `yaml:"userContext"`
		Age                string `yaml:"age"`
		Profession         string `yaml:"profession"`
		Location           string `yaml:"location"`
		RiskTolerance      string `yaml:"riskTolerance"`
		DecisionStyle      string `yaml:"decisionStyle"`
		LifeStage          string `yaml:"lifeStage"`
		FamilyStatus       string `yaml:"familyStatus"`
		FinancialSituation string `yaml:"financialSituation"`
		Interests          string `yaml:"interests"`
		Goals              string `yaml:"goals"`
		Values             string `yaml:"values"`
		PersonalityTraits  string `yaml:"personalityTraits"`
	} `yaml:"profile"`
	History struct {
		HistoryContext      string `yaml:"historyContext"`
		PreferredCategories string `yaml:"preferredCategories"`
		SuccessfulOutcomes  string `yaml:"successfulOutcomes"`
	} `yaml:"history"`
	Session struct {
		SessionContext string `yaml:"sessionContext"`
		Mood           string `yaml:"mood"`
		TimeConstraint string `yaml:"timeConstraint"`
		Stakeholders   string `yaml:"stakeholders"`
		Budget         string `yaml:"budget"`
	} `yaml:"session"`
	Cultural struct {
		CulturalContext string `yaml:"culturalContext"`
		Country         string `yaml:"country"`
		CulturalValues  string `yaml:"culturalValues"`
		LocalFactors    string `yaml:"localFactors"`
	} `yaml:"cultural"`
	AgeGroups struct {
		Young       string `yaml:"young"`
		EarlyCareer string `yaml:"earlyCareer"`
		MidCareer   string `yaml:"midCareer"`
		Senior      string `yaml:"senior"`
		Retired     string `yaml:"retired"`
	} `yaml:"age_groups"`
	RiskTolerance      map[string]string `yaml:"risk_tolerance"`
	DecisionStyle      map[string]string `yaml:"decision_style"`
	LifeStage          map[string]string `yaml:"life_stage"`
	FamilyStatus       map[string]string `yaml:"family_status"`
	FinancialSituation map[string]string `yaml:"financial_situation"`
	Mood               map[string]string `yaml:"mood"`
	TimeConstraint     map[string]string `yaml:"time_constraint"`
	Budget             map[string]string `yaml:"budget"`
}

var personalization = mustLoadPersonalization(personalizationYAML)

func mustLoadPersonalization(raw []byte) map[Locale]*personalizationTexts {
	var doc map[Locale]*personalizationTexts
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("decision: failed to parse personalization table: %v", err))
	}
	if doc[LocaleEN] == nil {
		panic("decision: personalization table has no English entry")
	}
	return doc
}

func textsFor(loc Locale) *personalizationTexts {
	if t, ok := personalization[loc]; ok {
		return t
	}
	return personalization[LocaleEN]
}

// translate returns the localized label for value, or value itself when the
// table has no entry for it.
func translate(table map[string]string, value string) string {
	if v, ok := table[value]; ok {
		return v
	}
	return value
}

// Score rates how much personalization data ctx carries, from 0 to 100. Only
// the buckets that are present contribute to the denominator, so a single
// fully filled bucket scores 100.
func Score(ctx *PersonalizationContext) int {
	if ctx == nil {
		return 0
	}
	score, maxScore := 0, 0

	if p := ctx.UserProfile; p != nil {
		maxScore += 40
		score += pointsIf(p.Age != 0, 5)
		score += pointsIf(p.Profession != "", 8)
		score += pointsIf(p.Location != "", 3)
		score += pointsIf(p.RiskTolerance != "", 6)
		score += pointsIf(p.DecisionStyle != "", 6)
		score += pointsIf(p.LifeStage != "", 4)
		score += pointsIf(p.FamilyStatus != "", 4)
		score += pointsIf(p.FinancialSituation != "", 4)
	}

	if ctx.RecentDecisions != nil {
		maxScore += 30
		score += min(len(ctx.RecentDecisions)*5, 30)
	}

	if s := ctx.SessionContext; s != nil {
		maxScore += 20
		score += pointsIf(s.CurrentMood != "", 5)
		score += pointsIf(s.TimeConstraint != "", 5)
		score += pointsIf(s.Stakeholders != nil, 5)
		score += pointsIf(s.Budget != "", 5)
	}

	if c := ctx.CulturalContext; c != nil {
		maxScore += 10
		score += pointsIf(c.Country != "", 5)
		score += pointsIf(c.CulturalValues != nil, 3)
		score += pointsIf(c.LocalFactors != nil, 2)
	}

	if maxScore == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(maxScore) * 100))
}

func pointsIf(cond bool, points int) int {
	if cond {
		return points
	}
	return 0
}

// AgeGroup returns the localized life-phase bucket for age.
func AgeGroup(age int, loc Locale) string {
	g := textsFor(loc).AgeGroups
	switch {
	case age <= 25:
		return g.Young
	case age <= 35:
		return g.EarlyCareer
	case age <= 50:
		return g.MidCareer
	case age <= 65:
		return g.Senior
	default:
		return g.Retired
	}
}

// NewAnalysisMarker returns a fresh PERSONALIZED_ANALYSIS identifier.
func NewAnalysisMarker() string {
	return fmt.Sprintf("PERSONALIZED_ANALYSIS_%d_%s", time.Now().UnixMilli(), randomBase36(6))
}

func randomBase36(n int) string {
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}
	return sb.String()[:n]
}

// PersonalizedPromptAdditions renders the localized personalization blocks
// that are appended to the analysis prompt. It always contains the directive
// header and the mandatory requirement list.
func PersonalizedPromptAdditions(question string, ctx *PersonalizationContext, loc Locale) string {
	return personalizedPromptAdditions(ctx, loc, NewAnalysisMarker())
}

func personalizedPromptAdditions(ctx *PersonalizationContext, loc Locale, marker string) string {
	t := textsFor(loc)
	if ctx == nil {
		ctx = &PersonalizationContext{}
	}

	blocks := []string{
		t.Directive.Header + "\n" + t.Directive.Mandate + "\n🆔 " + t.Directive.UniqueID + ": " + marker,
	}
	if ctx.UserProfile != nil {
		blocks = append(blocks, profileBlock(ctx.UserProfile, loc, t))
	}
	if len(ctx.RecentDecisions) > 0 {
		blocks = append(blocks, historyBlock(ctx.RecentDecisions, t))
	}
	if ctx.SessionContext != nil {
		blocks = append(blocks, sessionBlock(ctx.SessionContext, t))
	}
	if ctx.CulturalContext != nil {
		blocks = append(blocks, culturalBlock(ctx.CulturalContext, t))
	}

	reqs := make([]string, len(t.Instructions.Requirements))
	for i, r := range t.Instructions.Requirements {
		reqs[i] = fmt.Sprintf("%d. %s", i+1, r)
	}
	blocks = append(blocks, t.Instructions.Instructions+"\n"+strings.Join(reqs, "\n"))

	return strings.Join(blocks, "\n\n")
}

func profileBlock(p *UserProfile, loc Locale, t *personalizationTexts) string {
	l := t.Profile
	lines := []string{l.UserContext}
	add := func(cond bool, icon, label, value string) {
		if cond {
			lines = append(lines, icon+" "+label+": "+value)
		}
	}
	add(p.Age != 0, "📊", l.Age, AgeGroup(p.Age, loc))
	add(p.Profession != "", "💼", l.Profession, p.Profession)
	add(p.Location != "", "📍", l.Location, p.Location)
	add(p.RiskTolerance != "", "⚖️", l.RiskTolerance, translate(t.RiskTolerance, p.RiskTolerance))
	add(p.DecisionStyle != "", "🎯", l.DecisionStyle, translate(t.DecisionStyle, p.DecisionStyle))
	add(p.LifeStage != "", "🌱", l.LifeStage, translate(t.LifeStage, p.LifeStage))
	add(p.FamilyStatus != "", "👨‍👩‍👧‍👦", l.FamilyStatus, translate(t.FamilyStatus, p.FamilyStatus))
	add(p.FinancialSituation != "", "💰", l.FinancialSituation, translate(t.FinancialSituation, p.FinancialSituation))
	add(len(p.Interests) > 0, "🎨", l.Interests, strings.Join(p.Interests, ", "))
	add(len(p.Goals) > 0, "🎯", l.Goals, strings.Join(p.Goals, ", "))
	add(len(p.Values) > 0, "💎", l.Values, strings.Join(p.Values, ", "))
	add(len(p.PersonalityTraits) > 0, "🧠", l.PersonalityTraits, strings.Join(p.PersonalityTraits, ", "))
	return strings.Join(lines, "\n")
}

func historyBlock(decisions []DecisionHistory, t *personalizationTexts) string {
	lines := []string{t.History.HistoryContext}

	if top := TopCategories(decisions, 3); len(top) > 0 {
		names := make([]string, len(top))
		for i, c := range top {
			names[i] = string(c)
		}
		lines = append(lines, "📊 "+t.History.PreferredCategories+": "+strings.Join(names, ", "))
	}

	successful := 0
	for _, d := range decisions {
		if f := d.UserFeedback; f != nil && f.Helpful && f.Rating >= 4 {
			successful++
		}
	}
	if successful > 0 {
		lines = append(lines, fmt.Sprintf("✅ %s: %d positive outcomes", t.History.SuccessfulOutcomes, successful))
	}
	return strings.Join(lines, "\n")
}

// TopCategories returns up to n categories ordered by how often they occur in
// decisions. Equal counts keep the order of first appearance.
func TopCategories(decisions []DecisionHistory, n int) []Category {
	counts := make(map[Category]int)
	var order []Category
	for _, d := range decisions {
		if _, seen := counts[d.Category]; !seen {
			order = append(order, d.Category)
		}
		counts[d.Category]++
	}
	// Insertion sort keeps equal elements stable and the list is tiny.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func sessionBlock(s *SessionContext, t *personalizationTexts) string {
	l := t.Session
	lines := []string{l.SessionContext}
	if s.CurrentMood != "" {
		lines = append(lines, "😊 "+l.Mood+": "+translate(t.Mood, s.CurrentMood))
	}
	if s.TimeConstraint != "" {
		lines = append(lines, "⏱️ "+l.TimeConstraint+": "+translate(t.TimeConstraint, s.TimeConstraint))
	}
	if len(s.Stakeholders) > 0 {
		lines = append(lines, "👥 "+l.Stakeholders+": "+strings.Join(s.Stakeholders, ", "))
	}
	if s.Budget != "" {
		lines = append(lines, "💵 "+l.Budget+": "+translate(t.Budget, s.Budget))
	}
	return strings.Join(lines, "\n")
}

func culturalBlock(c *CulturalContext, t *personalizationTexts) string {
	l := t.Cultural
	lines := []string{l.CulturalContext}
	if c.Country != "" {
		lines = append(lines, "🏛️ "+l.Country+": "+c.Country)
	}
	if len(c.CulturalValues) > 0 {
		lines = append(lines, "💫 "+l.CulturalValues+": "+strings.Join(c.CulturalValues, ", "))
	}
	if len(c.LocalFactors) > 0 {
		lines = append(lines, "📍 "+l.LocalFactors+": "+strings.Join(c.LocalFactors, ", "))
	}
	return strings.Join(lines, "\n")
}
