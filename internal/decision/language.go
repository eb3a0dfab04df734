// In file: internal/decision/language.go
package decision

import (
	_ "embed"
	"fmt"
	"regexp"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed data/language.yaml
var languageYAML []byte

type lexicon struct {
	Chars     string   `yaml:"chars"`
	Words     []string `yaml:"words"`
	Questions []string `yaml:"questions"`
	Verbs     []string `yaml:"verbs"`
	Forbidden string   `yaml:"forbidden"`
}

type languageTables struct {
	trChars   string
	trWords   *WordSet
	esChars   string
	esWords   *WordSet
	validate  map[Locale]*WordSet
	vChars    map[Locale]string
	forbidden string
}

var (
	langs = mustLoadLanguage(languageYAML)

	spanishQuestion = regexp.MustCompile(`¿[^?]*\?`)
)

func mustLoadLanguage(raw []byte) *languageTables {
	var doc struct {
		Detect   map[Locale]lexicon `yaml:"detect"`
		Validate map[Locale]lexicon `yaml:"validate"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("decision: failed to parse language table: %v", err))
	}
	tr, es := doc.Detect[LocaleTR], doc.Detect[LocaleES]
	t := &languageTables{
		trChars:  tr.Chars,
		trWords:  NewWordSet(tr.Words, tr.Questions, tr.Verbs),
		esChars:  es.Chars,
		esWords:  NewWordSet(es.Words, es.Verbs),
		validate: make(map[Locale]*WordSet),
		vChars:   make(map[Locale]string),
	}
	for loc, lx := range doc.Validate {
		t.validate[loc] = NewWordSet(lx.Words)
		t.vChars[loc] = lx.Chars
		if loc == LocaleEN {
			t.forbidden = lx.Forbidden
		}
	}
	return t
}

// HasCyrillic reports whether text contains at least one Cyrillic letter.
func HasCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// DetectLanguage guesses the language a question is written in. Cyrillic
// script wins outright, then Turkish markers, then Spanish markers. Anything
// else is English.
func DetectLanguage(text string) Locale {
	if HasCyrillic(text) {
		return LocaleRU
	}
	toks := Tokens(text)
	if ContainsAnyRune(text, langs.trChars) || langs.trWords.MatchTokens(toks) {
		return LocaleTR
	}
	if ContainsAnyRune(text, langs.esChars) || spanishQuestion.MatchString(text) || langs.esWords.MatchTokens(toks) {
		return LocaleES
	}
	return LocaleEN
}

// ValidateResponseLanguage reports whether text plausibly is in loc.
//
// Non-English locales accept either a script marker or a common word. English
// additionally rejects Turkish, Spanish and Cyrillic letters, so it is the
// stricter of the four.
func ValidateResponseLanguage(text string, loc Locale) bool {
	switch loc {
	case LocaleTR, LocaleES:
		return ContainsAnyRune(text, langs.vChars[loc]) || langs.validate[loc].MatchAny(text)
	case LocaleRU:
		return HasCyrillic(text) || langs.validate[LocaleRU].MatchAny(text)
	default:
		return langs.validate[LocaleEN].MatchAny(text) &&
			!ContainsAnyRune(text, langs.forbidden) &&
			!HasCyrillic(text)
	}
}
