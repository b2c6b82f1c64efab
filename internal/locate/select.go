package locate

import (
	"math"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

// Policy holds the tunable clustering parameters. Thresholds are
// expressed in line-heights and character-widths rather than pixels, so
// one policy works across zoom levels and font sizes.
type Policy struct {
	// MinClusterSize is the member count a cluster needs to qualify
	// outright.
	MinClusterSize int `json:"minClusterSize"`
	// MaxLines caps cluster height, in line-heights.
	MaxLines float64 `json:"maxLines"`
	// VerticalThresholdLines is the clustering distance along y, in
	// line-heights.
	VerticalThresholdLines float64 `json:"verticalThresholdLines"`
	// HorizontalThresholdChars is the clustering distance along x, in
	// average character widths.
	HorizontalThresholdChars float64 `json:"horizontalThresholdChars"`
	// AnchorTerm, when set, requires the winning cluster to contain a
	// fragment matching it (e.g. a footnote marker). Empty disables
	// the filter.
	AnchorTerm string `json:"anchorTerm,omitempty"`
}

// DefaultPolicy returns the tuned defaults.
func DefaultPolicy() Policy {
	return Policy{
		MinClusterSize:           5,
		MaxLines:                 5,
		VerticalThresholdLines:   1.2,
		HorizontalThresholdChars: 8,
	}
}

const (
	// charWidthRatio approximates average character width as a fraction
	// of line height.
	charWidthRatio = 0.6
	// relaxedHeightFactor widens the height cap in the second fallback
	// tier.
	relaxedHeightFactor = 1.5
	// relaxedSizeFactor shrinks the size floor in the last fallback
	// tier, never below two members.
	relaxedSizeFactor = 0.6
)

// Select finds the best-matching cluster for the given terms, or nil
// when nothing qualifies. A nil result is the expected "not found"
// outcome for empty term lists, empty layers, and genuinely absent
// text, never a failure.
//
// Spatial thresholds derive from the estimated line height, so strict
// criteria apply first and relax step-wise: strict size and height,
// then a taller height allowance, then the single best cluster with a
// reduced size floor. Relaxing gradually avoids both missing noisy OCR
// matches and accepting arbitrary sprawl.
func Select(fragments []textlayer.Fragment, terms []string, scale float64, policy Policy) *Cluster {
	lineHeight := EstimateLineHeight(fragments)
	if scale > 0 {
		// Match rectangles are divided by scale, so the thresholds
		// derived from line height must live in the same space.
		lineHeight /= scale
	}
	avgCharWidth := lineHeight * charWidthRatio

	maxHeight := lineHeight * policy.MaxLines
	verticalThreshold := lineHeight * policy.VerticalThresholdLines
	horizontalThreshold := avgCharWidth * policy.HorizontalThresholdChars

	matches := FindMatches(fragments, scale, BuildLookups(terms))
	if len(matches) == 0 {
		return nil
	}

	clusters := ClusterMatches(matches, verticalThreshold, horizontalThreshold)
	if len(clusters) == 0 {
		return nil
	}

	hasAnchor := anchorFilter(policy.AnchorTerm)

	// Tier 1: strict size and height.
	for _, c := range clusters {
		if c.Size() >= policy.MinClusterSize && c.Height() <= maxHeight && hasAnchor(c) {
			return c
		}
	}

	// Tier 2: same size floor, relaxed height.
	for _, c := range clusters {
		if c.Size() >= policy.MinClusterSize && c.Height() <= maxHeight*relaxedHeightFactor && hasAnchor(c) {
			return c
		}
	}

	// Tier 3: best-ranked cluster only, reduced size floor, height
	// unconstrained.
	absoluteMin := max(2, int(math.Floor(float64(policy.MinClusterSize)*relaxedSizeFactor)))
	if best := clusters[0]; best.Size() >= absoluteMin && hasAnchor(best) {
		return best
	}

	return nil
}

// anchorFilter returns the anchor-presence predicate for a policy. With
// no anchor term it accepts everything.
func anchorFilter(anchorTerm string) func(*Cluster) bool {
	if anchorTerm == "" {
		return func(*Cluster) bool { return true }
	}
	anchor := BuildLookups([]string{anchorTerm})
	return func(c *Cluster) bool {
		for _, m := range c.Matches {
			if anchor.Score(m.Text) > 0 {
				return true
			}
		}
		return false
	}
}
