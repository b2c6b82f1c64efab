package locate

import (
	"strings"
	"unicode/utf8"
)

// Score tiers. Exact membership beats everything else; a hyphenated
// word's leading fragment lands in the prefix tier, its short trailing
// fragment in the suffix tier.
const (
	ScoreExact    = 10
	ScorePrefix   = 7
	ScoreContains = 5
	ScoreSuffix   = 3
)

// Suffix matching only applies to short trailing fragments; anything
// longer is handled by the prefix or containment tiers.
const maxSuffixLen = 4

// Score rates a fragment's text against the lookups, returning one of
// {0, 3, 5, 7, 10}. Tiers are checked in strict priority order: an
// exact match wins even when the text is also a prefix of a longer term.
func (lk Lookups) Score(text string) int {
	// One trailing hyphen is a line-continuation marker, not content.
	text = strings.ToLower(text)
	text = strings.TrimSuffix(text, "-")
	text = strings.TrimSpace(text)

	n := utf8.RuneCountInString(text)
	if n < 2 {
		return 0
	}

	if _, ok := lk.exact[text]; ok {
		return ScoreExact
	}
	if _, ok := lk.prefixes[text]; ok {
		return ScorePrefix
	}
	if lk.contains != nil && lk.contains.MatchString(text) {
		return ScoreContains
	}
	if n <= maxSuffixLen {
		for _, term := range lk.terms {
			if utf8.RuneCountInString(term) > n && strings.HasSuffix(term, text) {
				return ScoreSuffix
			}
		}
	}
	return 0
}
