package timeline

// Edge identifies which handle of a clip is being dragged.
type Edge string

const (
	// EdgeLeft trims or extends the start of a clip.
	EdgeLeft Edge = "left"
	// EdgeRight trims or extends the end of a clip.
	EdgeRight Edge = "right"
)

// Valid reports whether e is a known edge.
func (e Edge) Valid() bool {
	return e == EdgeLeft || e == EdgeRight
}

// ResizeSession tracks one edge drag of one clip.
type ResizeSession struct {
	ElementID         string
	LaneID            string
	Edge              Edge
	StartPointerX     float64
	OriginalStartTime float64
	OriginalEndTime   float64

	// MaxEndTimeReached is the farthest end the clip has reached during this
	// drag. Downstream clips are only pushed when the end goes past it, so
	// they never retract before the session ends.
	MaxEndTimeReached float64
}

// NewResizeSession starts an edge drag of el at pointer position pointerX.
func NewResizeSession(el Element, edge Edge, pointerX float64) *ResizeSession {
	return &ResizeSession{
		ElementID:         el.ID,
		LaneID:            el.LaneID,
		Edge:              edge,
		StartPointerX:     pointerX,
		OriginalStartTime: el.StartTime,
		OriginalEndTime:   el.EndTime,
		MaxEndTimeReached: el.EndTime,
	}
}

// ResizeResult is what a pointer move during a resize produces: the dragged
// clip's new bounds plus any downstream clips that had to be pushed.
type ResizeResult struct {
	ElementID string          `json:"elementId"`
	Bounds    Bounds          `json:"bounds"`
	Cascade   []ElementUpdate `json:"cascade,omitempty"`
}

// Updates returns the dragged clip's update followed by the cascade, ready to
// be committed in one batch.
func (r ResizeResult) Updates() []ElementUpdate {
	updates := make([]ElementUpdate, 0, len(r.Cascade)+1)
	updates = append(updates, ElementUpdate{ID: r.ElementID, Updates: r.Bounds})
	return append(updates, r.Cascade...)
}

// Update computes the new bounds for a pointer at pointerX. lane is the
// current state of the clip's lane, including the clip itself.
func (s *ResizeSession) Update(pointerX, pxPerSec float64, lane []Element) ResizeResult {
	dt := PixelsToSeconds(pointerX-s.StartPointerX, pxPerSec)
	if s.Edge == EdgeLeft {
		return s.resizeLeft(dt, lane)
	}
	return s.resizeRight(dt, lane)
}

func (s *ResizeSession) resizeLeft(dt float64, lane []Element) ResizeResult {
	start := RoundTime(s.OriginalStartTime + dt)

	floor := 0.0
	for _, el := range NewDetector(lane).SortedByStart(s.ElementID) {
		if el.StartTime >= s.OriginalStartTime {
			break
		}
		floor = el.EndTime
	}
	if start < floor {
		start = floor
	}

	if ceiling := RoundTime(s.OriginalEndTime - MinDuration); start > ceiling {
		start = ceiling
	}

	return ResizeResult{
		ElementID: s.ElementID,
		Bounds:    NewBounds(start, s.OriginalEndTime),
	}
}

func (s *ResizeSession) resizeRight(dt float64, lane []Element) ResizeResult {
	end := RoundTime(s.OriginalEndTime + dt)
	if floor := RoundTime(s.OriginalStartTime + MinDuration); end < floor {
		end = floor
	}

	result := ResizeResult{
		ElementID: s.ElementID,
		Bounds:    NewBounds(s.OriginalStartTime, end),
	}

	if end > s.MaxEndTimeReached {
		s.MaxEndTimeReached = end
		result.Cascade = cascadeAfter(lane, s.ElementID, s.OriginalStartTime, end)
	}
	return result
}

// cascadeAfter sweeps the clips that follow the dragged one and shifts right
// every clip that starts before the running end.
func cascadeAfter(lane []Element, elementID string, draggedStart, newEnd float64) []ElementUpdate {
	var updates []ElementUpdate
	prevEnd := newEnd
	for _, el := range NewDetector(lane).SortedByStart(elementID) {
		if el.StartTime < draggedStart {
			continue
		}
		if el.StartTime < prevEnd {
			shift := prevEnd - el.StartTime
			b := NewBounds(el.StartTime+shift, el.EndTime+shift)
			updates = append(updates, ElementUpdate{ID: el.ID, Updates: b})
			prevEnd = b.EndTime
			continue
		}
		prevEnd = el.EndTime
	}
	return updates
}
