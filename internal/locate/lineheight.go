package locate

import "github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"

const (
	// fallbackLineHeight stands in when a page has no fragments at all.
	fallbackLineHeight = 14
	// minLineHeight guards against degenerate (zero-height) samples.
	minLineHeight = 10
	// lineHeightSample bounds how many fragments are averaged.
	lineHeightSample = 10
)

// EstimateLineHeight samples the first few fragments and averages their
// heights. All downstream spatial thresholds are expressed as multiples
// of this value, which keeps matching behavior stable across zoom levels
// and font sizes.
func EstimateLineHeight(fragments []textlayer.Fragment) float64 {
	if len(fragments) == 0 {
		return fallbackLineHeight
	}
	n := min(lineHeightSample, len(fragments))
	var sum float64
	for _, f := range fragments[:n] {
		sum += f.Rect.Height
	}
	avg := sum / float64(n)
	if avg < minLineHeight {
		return minLineHeight
	}
	return avg
}
