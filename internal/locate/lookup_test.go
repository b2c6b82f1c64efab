package locate

import "testing"

func TestBuildLookups_NormalizesAndDedupes(t *testing.T) {
	lk := BuildLookups([]string{"  Gianna ", "gianna", "", "   ", "Rossi"})

	if len(lk.terms) != 2 {
		t.Fatalf("expected 2 unique terms, got %d (%v)", len(lk.terms), lk.terms)
	}
	if lk.terms[0] != "gianna" || lk.terms[1] != "rossi" {
		t.Errorf("expected normalized terms in first-seen order, got %v", lk.terms)
	}
	if _, ok := lk.exact["gianna"]; !ok {
		t.Errorf("exact set missing normalized term")
	}
}

func TestBuildLookups_PrefixSet(t *testing.T) {
	lk := BuildLookups([]string{"gianna"})

	// Proper prefixes of length >= 2 and shorter than the term.
	for _, want := range []string{"gi", "gia", "gian", "giann"} {
		if _, ok := lk.prefixes[want]; !ok {
			t.Errorf("prefix set missing %q", want)
		}
	}
	if _, ok := lk.prefixes["g"]; ok {
		t.Errorf("prefix set must not contain single-character prefixes")
	}
	if _, ok := lk.prefixes["gianna"]; ok {
		t.Errorf("prefix set must not contain the full term")
	}
}

func TestBuildLookups_EmptyTermsMatchNothing(t *testing.T) {
	lk := BuildLookups(nil)

	if !lk.Empty() {
		t.Fatalf("expected empty lookups")
	}
	if lk.contains != nil {
		t.Errorf("empty term list must not compile a containment pattern")
	}
	if got := lk.Score("anything at all"); got != 0 {
		t.Errorf("empty lookups scored %d, want 0", got)
	}
}

func TestBuildLookups_EscapesRegexMetacharacters(t *testing.T) {
	lk := BuildLookups([]string{"p. 14"})

	if got := lk.Score("see p. 14 above"); got != ScoreContains {
		t.Errorf("literal containment scored %d, want %d", got, ScoreContains)
	}
	// The dot must not act as a wildcard.
	if got := lk.Score("see px 14 above"); got != 0 {
		t.Errorf("wildcard-like containment scored %d, want 0", got)
	}
}
