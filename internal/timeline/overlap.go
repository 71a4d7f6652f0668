package timeline

import (
	"math"
	"sort"
)

// Detector answers overlap questions about the elements of a single lane.
// It holds a snapshot and never mutates it.
type Detector struct {
	elements []Element
}

// NewDetector creates a detector over the elements of one lane.
func NewDetector(lane []Element) *Detector {
	return &Detector{elements: lane}
}

// SortedByStart returns the lane's elements ordered by start time, leaving
// out excludeID. The sort is stable so equal starts keep snapshot order.
func (d *Detector) SortedByStart(excludeID string) []Element {
	sorted := make([]Element, 0, len(d.elements))
	for _, el := range d.elements {
		if excludeID != "" && el.ID == excludeID {
			continue
		}
		sorted = append(sorted, el)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}

// FindOverlapping returns every element overlapping
// [candidateStart, candidateStart+duration), in start-time order.
func (d *Detector) FindOverlapping(candidateStart, duration float64, excludeID string) []Element {
	candidate := candidateSpan(candidateStart, duration)

	var found []Element
	for _, el := range d.SortedByStart(excludeID) {
		if Overlaps(candidate, el.Span()) {
			found = append(found, el)
		}
	}
	return found
}

// FindClosestOverlap returns the overlapping element whose center is nearest
// to the candidate's center. Ties go to the earliest element by start time.
func (d *Detector) FindClosestOverlap(candidateStart, duration float64, excludeID string) (Element, bool) {
	center := candidateStart + duration/2

	var (
		closest  Element
		found    bool
		bestDist = math.Inf(1)
	)
	for _, el := range d.FindOverlapping(candidateStart, duration, excludeID) {
		dist := math.Abs(el.Center() - center)
		if dist < bestDist {
			closest = el
			bestDist = dist
			found = true
		}
	}
	return closest, found
}

// HasOverlapAt reports whether a clip placed at candidateStart would overlap
// anything on the lane.
func (d *Detector) HasOverlapAt(candidateStart, duration float64, excludeID string) bool {
	candidate := candidateSpan(candidateStart, duration)
	for _, el := range d.elements {
		if excludeID != "" && el.ID == excludeID {
			continue
		}
		if Overlaps(candidate, el.Span()) {
			return true
		}
	}
	return false
}

func candidateSpan(start, duration float64) Span {
	start = RoundTime(start)
	return Span{Start: start, End: RoundTime(start + duration)}
}
