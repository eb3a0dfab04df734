// In file: internal/decision/profiling.go
package decision

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/profiling.yaml
var profilingYAML []byte

// Inferred ages outside this range are ignored ("my 5 year old").
const (
	minInferredAge = 16
	maxInferredAge = 120
)

type profilingRules struct {
	Stems bool `yaml:"stems"`
	Age   struct {
		Numeric   []string `yaml:"numeric"`
		BirthYear []string `yaml:"birth_year"`
		Hints     []struct {
			Age   int      `yaml:"age"`
			Words []string `yaml:"words"`
		} `yaml:"hints"`
	} `yaml:"age"`
	Profession   []labelRule `yaml:"profession"`
	LifeStage    []valueRule `yaml:"life_stage"`
	FamilyStatus []valueRule `yaml:"family_status"`
	Interests    []valueRule `yaml:"interests"`
	Risk         struct {
		Low  []string `yaml:"low"`
		High []string `yaml:"high"`
	} `yaml:"risk"`
}

type labelRule struct {
	Label string   `yaml:"label"`
	Words []string `yaml:"words"`
}

type valueRule struct {
	Value string   `yaml:"value"`
	Words []string `yaml:"words"`
}

// clueSet is a compiled list of clue phrases.
type clueSet struct {
	phrases [][]string
	stems   bool
}

func newClueSet(words []string, stems bool) clueSet {
	cs := clueSet{stems: stems}
	for _, w := range words {
		if toks := Tokens(w); len(toks) > 0 {
			cs.phrases = append(cs.phrases, toks)
		}
	}
	return cs
}

func (cs clueSet) match(toks []string) bool {
	for _, p := range cs.phrases {
		if cs.matchPhrase(toks, p) {
			return true
		}
	}
	return false
}

func (cs clueSet) matchPhrase(toks, phrase []string) bool {
	n := len(phrase)
	for i := 0; i+n <= len(toks); i++ {
		ok := true
		for j := 0; j < n && ok; j++ {
			if cs.stems && j == n-1 {
				ok = strings.HasPrefix(toks[i+j], phrase[j])
			} else {
				ok = toks[i+j] == phrase[j]
			}
		}
		if ok {
			return true
		}
	}
	return false
}

type valueClue struct {
	value string
	clues clueSet
}

type ageHint struct {
	age   int
	clues clueSet
}

type profiler struct {
	numeric    []*regexp.Regexp
	birthYear  []*regexp.Regexp
	ageHints   []ageHint
	profession []valueClue
	lifeStage  []valueClue
	family     []valueClue
	interests  []valueClue
	riskLow    clueSet
	riskHigh   clueSet
}

var profilers = mustLoadProfiling(profilingYAML)

func mustLoadProfiling(raw []byte) map[Locale]*profiler {
	var doc map[Locale]*profilingRules
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("decision: failed to parse profiling table: %v", err))
	}
	if doc[LocaleEN] == nil {
		panic("decision: profiling table has no English entry")
	}
	out := make(map[Locale]*profiler, len(doc))
	for loc, rules := range doc {
		p, err := compileProfiler(rules)
		if err != nil {
			panic(fmt.Sprintf("decision: profiling table for %s: %v", loc, err))
		}
		out[loc] = p
	}
	return out
}

func compileProfiler(r *profilingRules) (*profiler, error) {
	p := &profiler{
		riskLow:  newClueSet(r.Risk.Low, r.Stems),
		riskHigh: newClueSet(r.Risk.High, r.Stems),
	}
	var err error
	if p.numeric, err = compilePatterns(r.Age.Numeric); err != nil {
		return nil, err
	}
	if p.birthYear, err = compilePatterns(r.Age.BirthYear); err != nil {
		return nil, err
	}
	for _, h := range r.Age.Hints {
		p.ageHints = append(p.ageHints, ageHint{age: h.Age, clues: newClueSet(h.Words, r.Stems)})
	}
	for _, l := range r.Profession {
		p.profession = append(p.profession, valueClue{value: l.Label, clues: newClueSet(l.Words, r.Stems)})
	}
	p.lifeStage = compileValues(r.LifeStage, r.Stems)
	p.family = compileValues(r.FamilyStatus, r.Stems)
	p.interests = compileValues(r.Interests, r.Stems)
	return p, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, s := range patterns {
		re, err := regexp.Compile("(?i)" + s)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", s, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("pattern %q has no capture group", s)
		}
		out = append(out, re)
	}
	return out, nil
}

func compileValues(rules []valueRule, stems bool) []valueClue {
	out := make([]valueClue, 0, len(rules))
	for _, r := range rules {
		out = append(out, valueClue{value: r.Value, clues: newClueSet(r.Words, stems)})
	}
	return out
}

func profilerFor(loc Locale) *profiler {
	if p, ok := profilers[loc]; ok {
		return p
	}
	return profilers[LocaleEN]
}

// InferProfile guesses a user profile from the questions someone asked
// before, using the clue tables of loc. Only age, profession, life stage,
// family status, interests and risk tolerance are inferred. It returns nil
// when no question carries a clue. now resolves birth years to ages.
func InferProfile(questions []string, loc Locale, now time.Time) *UserProfile {
	p := profilerFor(loc)
	texts := make([]string, 0, len(questions))
	toks := make([][]string, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		texts = append(texts, q)
		toks = append(toks, Tokens(q))
	}
	if len(texts) == 0 {
		return nil
	}

	out := &UserProfile{
		Age:           p.age(texts, toks, now),
		Profession:    firstValue(p.profession, toks),
		LifeStage:     firstValue(p.lifeStage, toks),
		FamilyStatus:  firstValue(p.family, toks),
		Interests:     allValues(p.interests, toks),
		RiskTolerance: p.risk(toks),
	}
	if out.Age == 0 && out.Profession == "" && out.LifeStage == "" && out.FamilyStatus == "" &&
		len(out.Interests) == 0 && out.RiskTolerance == "" {
		return nil
	}
	return out
}

// CompleteProfile fills the blank inferable fields of ctx's user profile
// from the questions in its decision history. Fields the caller supplied are
// never overwritten. ctx itself is not modified; a copy is returned when
// anything was filled, otherwise ctx.
func CompleteProfile(ctx *PersonalizationContext, loc Locale, now time.Time) *PersonalizationContext {
	if ctx == nil {
		return nil
	}
	inferred := InferProfile(historyQuestions(ctx), loc, now)
	if inferred == nil {
		return ctx
	}

	var merged UserProfile
	if ctx.UserProfile != nil {
		merged = *ctx.UserProfile
	}
	filled := false
	fill := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst, filled = v, true
		}
	}
	if merged.Age == 0 && inferred.Age != 0 {
		merged.Age, filled = inferred.Age, true
	}
	fill(&merged.Profession, inferred.Profession)
	fill(&merged.LifeStage, inferred.LifeStage)
	fill(&merged.FamilyStatus, inferred.FamilyStatus)
	fill(&merged.RiskTolerance, inferred.RiskTolerance)
	if len(merged.Interests) == 0 && len(inferred.Interests) > 0 {
		merged.Interests, filled = inferred.Interests, true
	}
	if !filled {
		return ctx
	}

	out := *ctx
	out.UserProfile = &merged
	return &out
}

// --- HELPER FUNCTIONS ---

func historyQuestions(ctx *PersonalizationContext) []string {
	var qs []string
	for _, d := range ctx.RecentDecisions {
		qs = append(qs, d.Question)
	}
	if ctx.UserProfile != nil {
		for _, d := range ctx.UserProfile.PreviousDecisions {
			qs = append(qs, d.Question)
		}
	}
	return qs
}

// age prefers a stated age, then a birth year, then a life-event hint.
func (p *profiler) age(texts []string, toks [][]string, now time.Time) int {
	for _, re := range p.numeric {
		for _, t := range texts {
			if n, ok := capturedInt(re, t); ok && n >= minInferredAge && n <= maxInferredAge {
				return n
			}
		}
	}
	for _, re := range p.birthYear {
		for _, t := range texts {
			if y, ok := capturedInt(re, t); ok {
				if n := now.Year() - y; n >= minInferredAge && n <= maxInferredAge {
					return n
				}
			}
		}
	}
	for _, h := range p.ageHints {
		for _, t := range toks {
			if h.clues.match(t) {
				return h.age
			}
		}
	}
	return 0
}

// risk returns low or high when one side has more clues, medium on a tie,
// and "" when there are none at all.
func (p *profiler) risk(toks [][]string) string {
	low, high := 0, 0
	for _, t := range toks {
		if p.riskLow.match(t) {
			low++
		}
		if p.riskHigh.match(t) {
			high++
		}
	}
	switch {
	case low == 0 && high == 0:
		return ""
	case low > high:
		return "low"
	case high > low:
		return "high"
	default:
		return "medium"
	}
}

func firstValue(rules []valueClue, toks [][]string) string {
	for _, r := range rules {
		for _, t := range toks {
			if r.clues.match(t) {
				return r.value
			}
		}
	}
	return ""
}

func allValues(rules []valueClue, toks [][]string) []string {
	var out []string
	for _, r := range rules {
		for _, t := range toks {
			if r.clues.match(t) {
				out = append(out, r.value)
				break
			}
		}
	}
	return out
}

func capturedInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}
