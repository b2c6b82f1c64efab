package locate

import (
	"math"
	"sort"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/disjointset"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

// densityEpsilon is the margin below which two cluster densities are
// considered equal and the tie falls to total score.
const densityEpsilon = 0.0001

// Cluster is one connected component of spatially proximate matches: a
// single candidate region for the viewer to scroll to and highlight.
type Cluster struct {
	Matches    []Match        `json:"matches"`
	Bounds     textlayer.Rect `json:"bounds"`
	TotalScore int            `json:"totalScore"`
}

// Size returns the number of member matches.
func (c *Cluster) Size() int { return len(c.Matches) }

// Height returns the height of the cluster's bounding box.
func (c *Cluster) Height() float64 { return c.Bounds.Height }

// Density is the cluster's total score per unit of bounding-box area.
// Small areas are floored at 1 so tiny clusters don't divide by zero.
func (c *Cluster) Density() float64 {
	return float64(c.TotalScore) / math.Max(1, c.Bounds.Area())
}

// ClusterMatches partitions matches into spatial clusters and returns
// them best-first. Two matches join the same cluster when their center
// points fall within the threshold box of each other: |dy| within
// verticalThreshold AND |dx| within horizontalThreshold (an axis-aligned
// box test, not a radius). Pairwise unions are quadratic, but only in
// the matched fragments, which are few per page.
func ClusterMatches(matches []Match, verticalThreshold, horizontalThreshold float64) []*Cluster {
	if len(matches) == 0 {
		return nil
	}

	set := disjointset.New(len(matches))
	for i := 0; i < len(matches); i++ {
		for j := i + 1; j < len(matches); j++ {
			dy := math.Abs(matches[i].Rect.CenterY() - matches[j].Rect.CenterY())
			dx := math.Abs(matches[i].Rect.CenterX() - matches[j].Rect.CenterX())
			if dy <= verticalThreshold && dx <= horizontalThreshold {
				set.Union(i, j)
			}
		}
	}

	// Group members by root, preserving match order within and across
	// clusters so output is deterministic before ranking.
	byRoot := make(map[int]*Cluster)
	var clusters []*Cluster
	for i, m := range matches {
		root := set.Find(i)
		c, ok := byRoot[root]
		if !ok {
			c = &Cluster{Bounds: m.Rect}
			byRoot[root] = c
			clusters = append(clusters, c)
		} else {
			c.Bounds = c.Bounds.Union(m.Rect)
		}
		c.Matches = append(c.Matches, m)
		c.TotalScore += m.Score
	}

	// Densest first: compact high-confidence regions beat sprawling
	// ones with the same raw score. Stable sort keeps discovery order
	// for fully tied clusters.
	sort.SliceStable(clusters, func(i, j int) bool {
		di, dj := clusters[i].Density(), clusters[j].Density()
		if math.Abs(di-dj) < densityEpsilon {
			return clusters[i].TotalScore > clusters[j].TotalScore
		}
		return di > dj
	})

	return clusters
}
