// Package locate finds the region of a rendered page's text layer that
// best matches a set of search terms. Direct substring search does not
// work there: fragments are split arbitrarily by line wrapping,
// hyphenation, OCR tokenization, and column layout, so matching is
// fuzzy, per-fragment, and spatially constrained.
package locate

import (
	"regexp"
	"strings"
)

// Lookups holds the matchable structures derived from one term list.
// Build a fresh value per search; lookups must never be cached across
// searches, since stale terms silently corrupt results.
type Lookups struct {
	terms    []string            // normalized, unique, in first-seen order
	exact    map[string]struct{} // full normalized terms
	prefixes map[string]struct{} // proper prefixes of length >= 2
	contains *regexp.Regexp      // case-insensitive alternation; nil when no terms
}

// BuildLookups normalizes raw terms (lowercase, trim, drop empties) and
// derives the exact set, the prefix set, and the containment pattern.
// The prefix set holds every proper prefix of length >= 2, so the first
// fragment of a hyphenated word ("gian-" for "gianna") still matches.
func BuildLookups(rawTerms []string) Lookups {
	lk := Lookups{
		exact:    make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}

	for _, raw := range rawTerms {
		term := strings.TrimSpace(strings.ToLower(raw))
		if term == "" {
			continue
		}
		if _, seen := lk.exact[term]; seen {
			continue
		}
		lk.exact[term] = struct{}{}
		lk.terms = append(lk.terms, term)

		runes := []rune(term)
		for i := 2; i < len(runes); i++ {
			lk.prefixes[string(runes[:i])] = struct{}{}
		}
	}

	// An empty term list must match nothing, so the pattern stays nil
	// rather than compiling to a universal match.
	if len(lk.terms) > 0 {
		quoted := make([]string, len(lk.terms))
		for i, term := range lk.terms {
			quoted[i] = regexp.QuoteMeta(term)
		}
		lk.contains = regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
	}

	return lk
}

// Empty reports whether no usable terms survived normalization.
func (lk Lookups) Empty() bool { return len(lk.terms) == 0 }
