package timeline

import (
	"math"
	"sort"
)

// SnapEdge names which edge of a clip a snap candidate comes from.
type SnapEdge string

const (
	SnapEdgeStart SnapEdge = "start"
	SnapEdgeEnd   SnapEdge = "end"
)

// SnapCandidate is one clip edge that a dragged edge can align with.
type SnapCandidate struct {
	Time            float64  `json:"time"`
	PixelPosition   float64  `json:"pixelPosition"`
	SourceElementID string   `json:"sourceElementId"`
	Edge            SnapEdge `json:"edge"`
}

// GuideSignal activates the snap guide line at a position.
type GuideSignal struct {
	PixelPosition float64 `json:"pixelPosition"`
	Time          float64 `json:"time"`
}

// SnapGuide holds the edges of every clip on every lane, sorted by pixel
// position. It only drives a visual hint and never changes clip bounds.
type SnapGuide struct {
	candidates []SnapCandidate
}

// NewSnapGuide builds the candidate list from all elements except excludeID.
func NewSnapGuide(elements []Element, pxPerSec float64, excludeID string) *SnapGuide {
	candidates := make([]SnapCandidate, 0, len(elements)*2)
	for _, el := range elements {
		if excludeID != "" && el.ID == excludeID {
			continue
		}
		candidates = append(candidates,
			SnapCandidate{
				Time:            el.StartTime,
				PixelPosition:   SecondsToPixels(el.StartTime, pxPerSec),
				SourceElementID: el.ID,
				Edge:            SnapEdgeStart,
			},
			SnapCandidate{
				Time:            el.EndTime,
				PixelPosition:   SecondsToPixels(el.EndTime, pxPerSec),
				SourceElementID: el.ID,
				Edge:            SnapEdgeEnd,
			},
		)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PixelPosition < candidates[j].PixelPosition
	})
	return &SnapGuide{candidates: candidates}
}

// Candidates returns the sorted candidate list.
func (g *SnapGuide) Candidates() []SnapCandidate {
	return g.candidates
}

// FindNearest returns the candidate closest to targetPx within tolerancePx.
func (g *SnapGuide) FindNearest(targetPx, tolerancePx float64) (SnapCandidate, bool) {
	n := len(g.candidates)
	if n == 0 {
		return SnapCandidate{}, false
	}

	idx := sort.Search(n, func(i int) bool {
		return g.candidates[i].PixelPosition >= targetPx
	})

	var (
		best     SnapCandidate
		found    bool
		bestDist = math.Inf(1)
	)
	for i := idx - 1; i <= idx+1; i++ {
		if i < 0 || i >= n {
			continue
		}
		dist := math.Abs(g.candidates[i].PixelPosition - targetPx)
		if dist <= tolerancePx && dist < bestDist {
			best = g.candidates[i]
			bestDist = dist
			found = true
		}
	}
	return best, found
}

// Signal converts a candidate hit into the guide activation signal.
func (c SnapCandidate) Signal() *GuideSignal {
	return &GuideSignal{PixelPosition: c.PixelPosition, Time: c.Time}
}
