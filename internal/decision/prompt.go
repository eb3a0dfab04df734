// In file: internal/decision/prompt.go
package decision

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/prompts.yaml
var promptsYAML []byte

type expertise struct {
	Frameworks     string `yaml:"frameworks"`
	Metrics        string `yaml:"metrics"`
	Considerations string `yaml:"considerations"`
}

type promptTables struct {
	Languages    map[Locale]string          `yaml:"languages"`
	Personas     map[Mode]string            `yaml:"personas"`
	Requirements map[Mode]map[Locale]string `yaml:"requirements"`
	Expertise    map[Category]expertise     `yaml:"expertise"`
}

var prompts = mustLoadPrompts(promptsYAML)

func mustLoadPrompts(raw []byte) *promptTables {
	var t promptTables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		panic(fmt.Sprintf("decision: failed to parse prompt tables: %v", err))
	}
	return &t
}

// LanguageName is the name the model is told to answer in.
func LanguageName(loc Locale) string {
	if n, ok := prompts.Languages[loc]; ok {
		return n
	}
	return prompts.Languages[LocaleEN]
}

func requirementsFor(mode Mode, loc Locale) string {
	if byLoc, ok := prompts.Requirements[mode]; ok {
		if r := byLoc[loc]; r != "" {
			return r
		}
		if r := byLoc[LocaleEN]; r != "" {
			return r
		}
	}
	return prompts.Requirements[ModeAnalytical][LocaleEN]
}

func expertiseFor(c Category) expertise {
	if e, ok := prompts.Expertise[c]; ok {
		return e
	}
	return prompts.Expertise[CategoryGeneral]
}

// Prompt is a rendered analysis prompt together with the values that were
// baked into it.
type Prompt struct {
	Text                 string
	Category             Category
	PersonalizationScore int
	UniqueMarker         string
}

var promptTemplate = template.Must(template.New("analysis").Parse(`🔮 EXPERT DECISION ANALYSIS SYSTEM

🎯 EXPERT IDENTITY: {{.Persona}}

🔍 DECISION CATEGORY: "{{.CategoryName}}" - {{.CategoryDescription}}

🧠 SPECIALIZED KNOWLEDGE BASE:
- Advanced Frameworks: {{.Expertise.Frameworks}}
- Key Metrics: {{.Expertise.Metrics}}
- Critical Considerations: {{.Expertise.Considerations}}

🌍 CRITICAL LANGUAGE REQUIREMENT:
- RESPOND EXCLUSIVELY AND ONLY IN {{.Language}}
- DO NOT USE ANY OTHER LANGUAGE
- ALL TEXT MUST BE IN {{.Language}}
- VERIFY EVERY WORD IS IN {{.Language}}

🔥 DECISION TO ANALYZE: "{{.Question}}"

{{.Personalization}}

📋 ANALYSIS REQUIREMENTS:
{{.Requirements}}

🎯 RESPONSE STRUCTURE - Provide comprehensive, detailed analysis:

{
  "pros": [
    "🌟 [Detailed advantage 1 - minimum 40-60 words with specific benefits, metrics, and real-world impact]",
    "🌟 [Detailed advantage 2 - minimum 40-60 words with specific benefits, metrics, and real-world impact]",
    "🌟 [Detailed advantage 3 - minimum 40-60 words with specific benefits, metrics, and real-world impact]",
    "🌟 [Detailed advantage 4 - minimum 40-60 words with specific benefits, metrics, and real-world impact]",
    "🌟 [Detailed advantage 5 - minimum 40-60 words with specific benefits, metrics, and real-world impact]",
    "🌟 [Detailed advantage 6 - minimum 40-60 words with specific benefits, metrics, and real-world impact]"
  ],
  "cons": [
    "⚠️ [Detailed disadvantage 1 - minimum 40-60 words with specific risks, challenges, and mitigation strategies]",
    "⚠️ [Detailed disadvantage 2 - minimum 40-60 words with specific risks, challenges, and mitigation strategies]",
    "⚠️ [Detailed disadvantage 3 - minimum 40-60 words with specific risks, challenges, and mitigation strategies]",
    "⚠️ [Detailed disadvantage 4 - minimum 40-60 words with specific risks, challenges, and mitigation strategies]",
    "⚠️ [Detailed disadvantage 5 - minimum 40-60 words with specific risks, challenges, and mitigation strategies]"
  ],
  "emotional_reasoning": "[COMPREHENSIVE emotional analysis - 400-500 words exploring psychological aspects, emotional impact, personal values, relationships, stress factors, motivation, fears, hopes, and emotional preparation strategies specific to this decision]",
  "logical_reasoning": "[COMPREHENSIVE logical analysis - 400-500 words covering data analysis, financial implications, risk assessment, opportunity costs, market conditions, timing factors, resource requirements, success probabilities, and strategic considerations]",
  "suggestion": "[DETAILED action plan - 250-300 words with specific steps, timeline, resources needed, success metrics, contingency plans, and implementation strategies]",
  "summary": "[EXECUTIVE summary - 200-250 words synthesizing key insights, final recommendation, expected outcomes, and next steps]",
  "detected_category": "{{.Category}}",
  "personalization_score": {{.Score}},
  "confidence_level": {{.Confidence}},
  "unique_marker": "{{.UniqueMarker}}",
  "follow_up_questions": [
    "What additional context would help refine this analysis?",
    "Are there specific constraints or preferences we should consider?",
    "Would you like to explore alternative scenarios?"
  ]
}

🎯 QUALITY STANDARDS:
- Each pro/con must be substantive with specific details and real-world examples
- Emotional reasoning must deeply explore psychological and personal aspects
- Logical reasoning must include quantitative analysis and strategic thinking
- Suggestion must provide actionable, step-by-step guidance
- All content must be highly relevant to the specific question asked
- Use expertise in {{.CategoryName}} to provide specialized insights
- Ensure response is comprehensive, detailed, and valuable

⚠️ FINAL LANGUAGE CHECK: EVERY SINGLE WORD MUST BE IN {{.Language}}. NO EXCEPTIONS.
RESPOND ONLY IN {{.Language}} WITH MAXIMUM DETAIL AND INSIGHT.`))

// BuildPrompt renders the expert analysis prompt for question. The category is
// detected from the question in lang, and personalization blocks are included
// only when ctx is non-nil.
func BuildPrompt(question string, mode Mode, lang Locale, ts time.Time, ctx *PersonalizationContext) (Prompt, error) {
	category := DetectCategory(question, lang)

	var additions string
	score := 0
	if ctx != nil {
		additions = PersonalizedPromptAdditions(question, ctx, lang)
		score = Score(ctx)
	}
	return renderPrompt(question, mode, lang, category, additions, score, newUniqueMarker(ts))
}

func newUniqueMarker(ts time.Time) string {
	return fmt.Sprintf("UNIQUE_ANALYSIS_%d_%s", ts.UnixMilli(), randomBase36(13))
}

func renderPrompt(question string, mode Mode, lang Locale, category Category, additions string, score int, marker string) (Prompt, error) {
	persona, ok := prompts.Personas[mode]
	if !ok {
		persona = prompts.Personas[ModeAnalytical]
	}

	var personalizationBlock string
	if additions != "" {
		personalizationBlock = "\n🎯 PERSONALIZATION CONTEXT:\n" + additions + "\n"
	}

	data := struct {
		Persona             string
		CategoryName        string
		CategoryDescription string
		Expertise           expertise
		Language            string
		Question            string
		Personalization     string
		Requirements        string
		Category            Category
		Score               int
		Confidence          string
		UniqueMarker        string
	}{
		Persona:             persona,
		CategoryName:        LocalizedName(category, lang),
		CategoryDescription: LocalizedDescription(category, lang),
		Expertise:           expertiseFor(category),
		Language:            LanguageName(lang),
		Question:            question,
		Personalization:     personalizationBlock,
		Requirements:        requirementsFor(mode, lang),
		Category:            category,
		Score:               score,
		Confidence:          strconv.FormatFloat(ConfidenceFor(score), 'f', -1, 64),
		UniqueMarker:        marker,
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to render analysis prompt: %w", err)
	}
	return Prompt{
		Text:                 sb.String(),
		Category:             category,
		PersonalizationScore: score,
		UniqueMarker:         marker,
	}, nil
}
