// In file: internal/decision/types.go

// Package decision holds the deterministic core of the decision analysis
// pipeline: category classification, language detection and validation,
// personalization scoring, prompt construction and response cleaning.
//
// Every function in this package is pure over its inputs. Lookup tables are
// embedded YAML documents loaded once at package initialisation.
package decision

import "time"

// Mode selects the expert persona and the requirement template of a prompt.
type Mode string

const (
	ModeAnalytical Mode = "analytical"
	ModeEmotional  Mode = "emotional"
	ModeCreative   Mode = "creative"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeAnalytical, ModeEmotional, ModeCreative}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAnalytical, ModeEmotional, ModeCreative:
		return true
	}
	return false
}

// Locale is both a declared UI locale and a detected text language.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleTR Locale = "tr"
	LocaleES Locale = "es"
	LocaleRU Locale = "ru"
)

// Locales lists every supported locale. English is the fallback for all tables.
var Locales = []Locale{LocaleEN, LocaleTR, LocaleES, LocaleRU}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	switch l {
	case LocaleEN, LocaleTR, LocaleES, LocaleRU:
		return true
	}
	return false
}

// Category is a topical decision tag.
type Category string

const (
	CategoryCareer               Category = "career"
	CategoryRelationship         Category = "relationship"
	CategoryRelocation           Category = "relocation"
	CategoryEducation            Category = "education"
	CategoryEntrepreneurship     Category = "entrepreneurship"
	CategoryInvestment           Category = "investment"
	CategoryFamily               Category = "family"
	CategoryPersonalGrowth       Category = "personal_growth"
	CategoryLifestyleHealth      Category = "lifestyle_health"
	CategoryTravel               Category = "travel"
	CategoryWorkLifeBalance      Category = "work_life_balance"
	CategorySocialCircle         Category = "social_circle"
	CategoryRetirementPlanning   Category = "retirement_planning"
	CategoryParenting            Category = "parenting"
	CategoryTechnologyAdoption   Category = "technology_adoption"
	CategoryHousingDecision      Category = "housing_decision"
	CategoryMentalWellbeing      Category = "mental_wellbeing"
	CategoryCareerPivot          Category = "career_pivot"
	CategoryPartnershipCofounder Category = "partnership_cofounder"
	CategoryLegalBureaucratic    Category = "legal_bureaucratic"
	CategoryGeneral              Category = "general"
)

// UserProfile is the caller-supplied, read-only description of the person
// asking. Zero values mean "not provided".
type UserProfile struct {
	ID                 string            `json:"id,omitempty"`
	Age                int               `json:"age,omitempty"`
	Profession         string            `json:"profession,omitempty"`
	Location           string            `json:"location,omitempty"`
	Interests          []string          `json:"interests,omitempty"`
	PreferredMode      Mode              `json:"preferredMode,omitempty"`
	RiskTolerance      string            `json:"riskTolerance,omitempty"`
	DecisionStyle      string            `json:"decisionStyle,omitempty"`
	LifeStage          string            `json:"lifeStage,omitempty"`
	FamilyStatus       string            `json:"familyStatus,omitempty"`
	FinancialSituation string            `json:"financialSituation,omitempty"`
	PersonalityTraits  []string          `json:"personalityTraits,omitempty"`
	Goals              []string          `json:"goals,omitempty"`
	Values             []string          `json:"values,omitempty"`
	PreviousDecisions  []DecisionHistory `json:"previousDecisions,omitempty"`
	CreatedAt          *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time        `json:"updatedAt,omitempty"`
}

// Feedback is what a user reported after acting on an earlier analysis.
type Feedback struct {
	Helpful  bool   `json:"helpful"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments,omitempty"`
	FollowUp string `json:"followUp,omitempty"`
}

// DecisionHistory is one previously analysed decision.
type DecisionHistory struct {
	ID           string     `json:"id,omitempty"`
	Question     string     `json:"question,omitempty"`
	Category     Category   `json:"category,omitempty"`
	Mode         Mode       `json:"mode,omitempty"`
	Analysis     *Analysis  `json:"analysis,omitempty"`
	UserFeedback *Feedback  `json:"userFeedback,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// SessionContext describes the circumstances of the current session.
type SessionContext struct {
	CurrentMood    string   `json:"currentMood,omitempty"`
	TimeConstraint string   `json:"timeConstraint,omitempty"`
	Stakeholders   []string `json:"stakeholders,omitempty"`
	Budget         string   `json:"budget,omitempty"`
}

// CulturalContext describes the cultural setting of the decision.
type CulturalContext struct {
	Country        string   `json:"country,omitempty"`
	CulturalValues []string `json:"culturalValues,omitempty"`
	LocalFactors   []string `json:"localFactors,omitempty"`
}

// PersonalizationContext bundles everything known about the user. A nil
// pointer or nil slice means the whole bucket is absent; an empty but non-nil
// slice counts as present.
type PersonalizationContext struct {
	UserProfile     *UserProfile      `json:"userProfile,omitempty"`
	RecentDecisions []DecisionHistory `json:"recentDecisions,omitempty"`
	SessionContext  *SessionContext   `json:"sessionContext,omitempty"`
	CulturalContext *CulturalContext  `json:"culturalContext,omitempty"`
}

// Analysis is the structured answer returned for every request.
type Analysis struct {
	Pros                 []string `json:"pros"`
	Cons                 []string `json:"cons"`
	EmotionalReasoning   string   `json:"emotional_reasoning"`
	LogicalReasoning     string   `json:"logical_reasoning"`
	Suggestion           string   `json:"suggestion"`
	Summary              string   `json:"summary"`
	DetectedCategory     Category `json:"detected_category,omitempty"`
	PersonalizationScore *int     `json:"personalization_score,omitempty"`
	ConfidenceLevel      *float64 `json:"confidence_level,omitempty"`
	FollowUpQuestions    []string `json:"follow_up_questions,omitempty"`
}

// TextFields returns the reasoning strings followed by every pro and con, the
// order in which per-field language validation inspects them.
func (a *Analysis) TextFields() []string {
	fields := []string{a.EmotionalReasoning, a.LogicalReasoning, a.Suggestion, a.Summary}
	fields = append(fields, a.Pros...)
	return append(fields, a.Cons...)
}

// Request is a sanitized analysis request as handed to the orchestrator.
type Request struct {
	Question        string
	Mode            Mode
	Locale          Locale
	Personalization *PersonalizationContext
}

// ConfidenceFor derives the confidence level reported alongside a
// personalization score.
func ConfidenceFor(score int) float64 {
	return 85 + float64(score)*0.15
}
