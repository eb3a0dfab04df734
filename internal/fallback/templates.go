// In file: internal/fallback/templates.go
package fallback

import (
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

var funcs = template.FuncMap{
	// excerpt returns the first n characters of s.
	"excerpt": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n])
	},
}

// text is a YAML scalar compiled as a text/template at load time.
type text struct {
	raw  string
	tmpl *template.Template
}

func (t *text) UnmarshalYAML(node *yaml.Node) error {
	if err := node.Decode(&t.raw); err != nil {
		return err
	}
	tmpl, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(t.raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	t.tmpl = tmpl
	return nil
}

func (t *text) render(v *vars) (string, error) {
	if t == nil || t.tmpl == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderAll(texts []*text, v *vars) ([]string, error) {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		s, err := t.render(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// entry is a (possibly partial) analysis template. Response tables only fill
// Pros and Cons, analysis tables only the four reasoning fields.
type entry struct {
	Pros               []*text           `yaml:"pros"`
	Cons               []*text           `yaml:"cons"`
	EmotionalReasoning *text             `yaml:"emotional_reasoning"`
	LogicalReasoning   *text             `yaml:"logical_reasoning"`
	Suggestion         *text             `yaml:"suggestion"`
	Summary            *text             `yaml:"summary"`
	Variants           map[string]*entry `yaml:"variants"`
}

// variant returns the named variant of e, or e itself.
func (e *entry) variant(name string) *entry {
	if name == "" {
		return e
	}
	if v, ok := e.Variants[name]; ok && v != nil {
		return v
	}
	return e
}

// vars is the data every fallback template is rendered against. The phrase
// fields default to neutral wording and are swapped for profile specific
// wording when personalization applies.
type vars struct {
	Question      string
	Mode          string
	Age           int
	Profession    string
	Location      string
	RiskTolerance string

	Professional string
	Career       string
	Industry     string
	Crossroads   string
	Frameworks   string
	PhaseOne     string
}

func baseVars(question, mode string) *vars {
	return &vars{
		Question:     question,
		Mode:         mode,
		Professional: "professional",
		Career:       "career",
		Industry:     "industry",
		Crossroads:   "emotional crossroads",
		Frameworks:   "strategic frameworks",
		PhaseOne:     "Phase 1",
	}
}
