package timeline

import (
	"errors"
	"sort"
)

// Engine errors
var (
	ErrSessionActive    = errors.New("a drag session is already active")
	ErrNoSession        = errors.New("no active drag session")
	ErrControllerClosed = errors.New("drag controller is closed")
	ErrOverlap          = errors.New("elements overlap on the same lane")
	ErrElementNotFound  = errors.New("element not found")
	ErrInvalidSplit     = errors.New("split point must leave both parts at least the minimum duration")
)

// Element is a clip on the timeline. Only the time bounds and the lane matter
// to the engine; Kind is carried through so resize predicates can look at it.
type Element struct {
	ID        string  `json:"id"`
	LaneID    string  `json:"laneId"`
	Kind      string  `json:"kind,omitempty"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// Duration returns the rounded length of the element.
func (e Element) Duration() float64 {
	return RoundTime(e.EndTime - e.StartTime)
}

// Span returns the element's time range.
func (e Element) Span() Span {
	return Span{Start: e.StartTime, End: e.EndTime}
}

// Center returns the midpoint of the element.
func (e Element) Center() float64 {
	return (e.StartTime + e.EndTime) / 2
}

// Span is a half-open time range [Start, End).
type Span struct {
	Start float64
	End   float64
}

// Overlaps reports whether two ranges share any time. Ranges that only touch
// (a.End == b.Start) do not overlap, which is what lets clips sit edge to edge.
func Overlaps(a, b Span) bool {
	return a.Start < b.End && a.End > b.Start
}

// Bounds is the update written back to the clip store.
type Bounds struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Duration  float64 `json:"duration"`
}

// NewBounds builds rounded bounds from a start and end time.
func NewBounds(start, end float64) Bounds {
	start = RoundTime(start)
	end = RoundTime(end)
	return Bounds{StartTime: start, EndTime: end, Duration: RoundTime(end - start)}
}

// ElementUpdate pairs an element id with its new bounds for batch commits.
type ElementUpdate struct {
	ID      string `json:"id"`
	Updates Bounds `json:"updates"`
}

// LaneElements returns the elements that belong to laneID, in input order.
func LaneElements(elements []Element, laneID string) []Element {
	lane := make([]Element, 0, len(elements))
	for _, el := range elements {
		if el.LaneID == laneID {
			lane = append(lane, el)
		}
	}
	return lane
}

// FindElement returns the element with the given id.
func FindElement(elements []Element, id string) (Element, bool) {
	for _, el := range elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// Conflict describes two elements of the same lane that overlap.
type Conflict struct {
	LaneID string `json:"laneId"`
	First  string `json:"first"`
	Second string `json:"second"`
}

// Validate checks the non-overlap invariant of every lane and returns all
// conflicting pairs. An empty result means the snapshot is consistent.
func Validate(elements []Element) []Conflict {
	lanes := make(map[string][]Element)
	var laneIDs []string
	for _, el := range elements {
		if _, ok := lanes[el.LaneID]; !ok {
			laneIDs = append(laneIDs, el.LaneID)
		}
		lanes[el.LaneID] = append(lanes[el.LaneID], el)
	}
	sort.Strings(laneIDs)

	var conflicts []Conflict
	for _, laneID := range laneIDs {
		sorted := NewDetector(lanes[laneID]).SortedByStart("")
		for i := range sorted {
			for j := i + 1; j < len(sorted); j++ {
				if sorted[j].StartTime >= sorted[i].EndTime {
					break
				}
				if Overlaps(sorted[i].Span(), sorted[j].Span()) {
					conflicts = append(conflicts, Conflict{
						LaneID: laneID,
						First:  sorted[i].ID,
						Second: sorted[j].ID,
					})
				}
			}
		}
	}
	return conflicts
}

// Split cuts el at time at into two touching elements. The left part keeps
// the original id; the right part takes rightID. Both parts must be at least
// MinDuration long.
func Split(el Element, at float64, rightID string) (Element, Element, error) {
	at = RoundTime(at)
	if at-el.StartTime < MinDuration-1e-9 || el.EndTime-at < MinDuration-1e-9 {
		return Element{}, Element{}, ErrInvalidSplit
	}
	left := el
	left.EndTime = at
	right := el
	right.ID = rightID
	right.StartTime = at
	return left, right, nil
}
