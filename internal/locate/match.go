package locate

import "github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"

// previewLen bounds the text carried on a match for display purposes.
const previewLen = 50

// Match is a fragment that scored positively against the lookups, with
// its rectangle mapped into the text layer's local coordinate space.
type Match struct {
	Text    string         `json:"-"`
	Preview string         `json:"preview"`
	Score   int            `json:"score"`
	Rect    textlayer.Rect `json:"rect"`
}

// FindMatches scores every fragment and keeps the positive ones, in
// encounter order. scale is the renderer's active linear scale factor;
// rectangles are divided by it so results are zoom-independent. Ranking
// happens later, after clustering.
func FindMatches(fragments []textlayer.Fragment, scale float64, lk Lookups) []Match {
	var matches []Match
	for _, f := range fragments {
		score := lk.Score(f.Text)
		if score == 0 {
			continue
		}
		matches = append(matches, Match{
			Text:    f.Text,
			Preview: preview(f.Text),
			Score:   score,
			Rect:    f.Rect.Scaled(scale),
		})
	}
	return matches
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen])
}
