// In file: internal/decision/keywords.go
package decision

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower folds s to lower case without locale tailoring. A fresh caser is
// created per call because cases.Caser is stateful and not safe for
// concurrent use.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Tokens splits lowercased text into runs of letters, marks and digits.
// Punctuation, spaces and symbols act as separators.
func Tokens(s string) []string {
	return strings.FieldsFunc(Lower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}

// WordSet is a precompiled whole-word lexicon. Single-token entries are
// matched by set membership; multi-token entries are matched as contiguous
// token sequences.
type WordSet struct {
	single  map[string]struct{}
	phrases [][]string
}

// NewWordSet compiles words into a WordSet. Entries that tokenize to nothing
// are ignored.
func NewWordSet(words ...[]string) *WordSet {
	ws := &WordSet{single: make(map[string]struct{})}
	for _, list := range words {
		for _, w := range list {
			toks := Tokens(w)
			switch len(toks) {
			case 0:
				continue
			case 1:
				ws.single[toks[0]] = struct{}{}
			default:
				ws.phrases = append(ws.phrases, toks)
			}
		}
	}
	return ws
}

// Len returns the number of compiled entries.
func (ws *WordSet) Len() int {
	return len(ws.single) + len(ws.phrases)
}

// MatchAny reports whether any entry occurs in text as a whole word or a
// whole-word phrase.
func (ws *WordSet) MatchAny(text string) bool {
	return ws.MatchTokens(Tokens(text))
}

// MatchTokens is MatchAny over an already tokenized text.
func (ws *WordSet) MatchTokens(toks []string) bool {
	for _, t := range toks {
		if _, ok := ws.single[t]; ok {
			return true
		}
	}
	for _, p := range ws.phrases {
		if containsSequence(toks, p) {
			return true
		}
	}
	return false
}

func containsSequence(toks, seq []string) bool {
	n := len(seq)
	for i := 0; i+n <= len(toks); i++ {
		match := true
		for j := 0; j < n; j++ {
			if toks[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ContainsAnyRune reports whether lowercased text contains any rune of set.
func ContainsAnyRune(text, set string) bool {
	if set == "" {
		return false
	}
	return strings.ContainsAny(Lower(text), set)
}

// ContainsAnySubstring reports whether lowercased text contains any of the
// substrings. Unlike WordSet this matches inside words.
func ContainsAnySubstring(text string, subs []string) bool {
	lower := Lower(text)
	for _, s := range subs {
		if s != "" && strings.Contains(lower, Lower(s)) {
			return true
		}
	}
	return false
}
