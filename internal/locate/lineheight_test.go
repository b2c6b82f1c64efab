package locate

import (
	"testing"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

func frag(text string, left, top, width, height float64) textlayer.Fragment {
	return textlayer.Fragment{
		Text: text,
		Rect: textlayer.Rect{
			Left:   left,
			Top:    top,
			Right:  left + width,
			Bottom: top + height,
			Width:  width,
			Height: height,
		},
	}
}

func TestEstimateLineHeight_EmptyFallsBack(t *testing.T) {
	if got := EstimateLineHeight(nil); got != fallbackLineHeight {
		t.Errorf("line height = %v, want %v", got, float64(fallbackLineHeight))
	}
}

func TestEstimateLineHeight_AveragesSample(t *testing.T) {
	frags := []textlayer.Fragment{
		frag("a1", 0, 0, 40, 12),
		frag("b2", 50, 0, 40, 16),
		frag("c3", 100, 0, 40, 14),
	}
	if got := EstimateLineHeight(frags); got != 14 {
		t.Errorf("line height = %v, want 14", got)
	}
}

func TestEstimateLineHeight_SampleIsBounded(t *testing.T) {
	// First ten fragments are 12px tall; an eleventh outlier must not
	// affect the estimate.
	var frags []textlayer.Fragment
	for i := 0; i < 10; i++ {
		frags = append(frags, frag("word", float64(i*50), 0, 40, 12))
	}
	frags = append(frags, frag("outlier", 0, 200, 40, 120))

	if got := EstimateLineHeight(frags); got != 12 {
		t.Errorf("line height = %v, want 12", got)
	}
}

func TestEstimateLineHeight_ClampsToMinimum(t *testing.T) {
	frags := []textlayer.Fragment{
		frag("tiny", 0, 0, 10, 2),
		frag("tiny", 20, 0, 10, 2),
	}
	if got := EstimateLineHeight(frags); got != minLineHeight {
		t.Errorf("line height = %v, want %v", got, float64(minLineHeight))
	}
}
