package timeline

import "fmt"

// Positioner resolves raw drop positions into positions that keep the lane
// free of overlaps.
type Positioner struct {
	detector *Detector
}

// NewPositioner creates a positioner over the elements of one lane.
func NewPositioner(lane []Element) *Positioner {
	return &Positioner{detector: NewDetector(lane)}
}

// Detector returns the detector the positioner works with.
func (p *Positioner) Detector() *Detector {
	return p.detector
}

// CalculateValidDropTime returns the smallest start time at or after
// candidateStart where a clip of the given duration fits without overlapping.
//
// The lane is walked once in start order; every element the running candidate
// overlaps pushes it to that element's end.
func (p *Positioner) CalculateValidDropTime(candidateStart, duration float64, excludeID string) float64 {
	t := RoundTime(candidateStart)
	if t < 0 {
		t = 0
	}
	for _, el := range p.detector.SortedByStart(excludeID) {
		if Overlaps(candidateSpan(t, duration), el.Span()) {
			t = RoundTime(el.EndTime)
		}
	}
	if p.detector.HasOverlapAt(t, duration, excludeID) {
		panic(fmt.Sprintf("timeline: greedy drop left %.3f+%.3f overlapping", t, duration))
	}
	return t
}

// ComputeSnapPosition places the clip edge to edge with the overlapping
// element closest to it, preferring the side the clip's center is on, then the
// opposite side, and finally the greedy drop time.
func (p *Positioner) ComputeSnapPosition(candidateStart, duration float64, excludeID string) float64 {
	candidateStart = RoundTime(candidateStart)
	// Clamp first: a negative candidate would measure its center against
	// neighbours from a position the clip can never occupy.
	if candidateStart < 0 {
		candidateStart = 0
	}

	closest, ok := p.detector.FindClosestOverlap(candidateStart, duration, excludeID)
	if !ok {
		return p.CalculateValidDropTime(candidateStart, duration, excludeID)
	}

	before := RoundTime(closest.StartTime - duration)
	if before < 0 {
		before = 0
	}
	after := RoundTime(closest.EndTime)

	proposals := [2]float64{after, before}
	if candidateStart+duration/2 < closest.Center() {
		proposals = [2]float64{before, after}
	}

	for _, proposal := range proposals {
		if !p.detector.HasOverlapAt(proposal, duration, excludeID) {
			return proposal
		}
	}
	return p.CalculateValidDropTime(candidateStart, duration, excludeID)
}
