package timeline

import "math"

// GhostThresholdPx is how far, in pixels, the resolved position must be from
// the cursor position before the "will snap here" indicator is shown.
const GhostThresholdPx = 0.5

// MoveSession tracks a whole-clip drag.
type MoveSession struct {
	ElementID         string
	LaneID            string
	StartPointerX     float64
	OriginalStartTime float64
	OriginalEndTime   float64

	// GhostPixelPosition is the last resolved position, in pixels, shown as
	// a non-committal preview.
	GhostPixelPosition float64

	previewVisible bool
	previewTime    float64
}

// NewMoveSession starts a drag of el. The ghost is seeded at the clip's
// current pixel position and the drop preview at its current time.
func NewMoveSession(el Element, pointerX, pxPerSec float64) *MoveSession {
	return &MoveSession{
		ElementID:          el.ID,
		LaneID:             el.LaneID,
		StartPointerX:      pointerX,
		OriginalStartTime:  el.StartTime,
		OriginalEndTime:    el.EndTime,
		GhostPixelPosition: SecondsToPixels(el.StartTime, pxPerSec),
		previewVisible:     true,
		previewTime:        el.StartTime,
	}
}

// Duration returns the length of the clip being moved.
func (s *MoveSession) Duration() float64 {
	return RoundTime(s.OriginalEndTime - s.OriginalStartTime)
}

// MovePreview is the visual state of a move drag after a pointer event.
type MovePreview struct {
	ElementID string `json:"elementId"`

	// RawStartTime and RawPixelPosition follow the cursor exactly.
	RawStartTime     float64 `json:"rawStartTime"`
	RawPixelPosition float64 `json:"rawPixelPosition"`

	// GhostStartTime and GhostPixelPosition are where the clip would land.
	GhostStartTime     float64 `json:"ghostStartTime"`
	GhostPixelPosition float64 `json:"ghostPixelPosition"`

	// ShowGhost is set when the landing position is visibly apart from the
	// cursor position.
	ShowGhost bool `json:"showGhost"`
}

// PreviewVisible reports whether the session still has a drop preview to
// commit.
func (s *MoveSession) PreviewVisible() bool {
	return s.previewVisible
}

// PreviewTime returns the time the primary drop indicator sits at.
func (s *MoveSession) PreviewTime() float64 {
	return s.previewTime
}

// Hide clears the drop preview; a later Drop will not commit anything.
func (s *MoveSession) Hide() {
	s.previewVisible = false
}

// RawStart returns the unconstrained start time for a pointer at pointerX.
func (s *MoveSession) RawStart(pointerX, pxPerSec float64) float64 {
	dt := PixelsToSeconds(pointerX-s.StartPointerX, pxPerSec)
	return RoundTime(s.OriginalStartTime + dt)
}

// Update recomputes the raw and ghost positions for a pointer at pointerX
// against the current state of the clip's lane.
func (s *MoveSession) Update(pointerX, pxPerSec float64, lane []Element) MovePreview {
	raw := s.RawStart(pointerX, pxPerSec)
	ghost := NewPositioner(lane).ComputeSnapPosition(raw, s.Duration(), s.ElementID)

	display := raw
	if display < 0 {
		display = 0
	}

	s.GhostPixelPosition = SecondsToPixels(ghost, pxPerSec)
	s.previewTime = display
	s.previewVisible = true

	rawPx := SecondsToPixels(display, pxPerSec)
	return MovePreview{
		ElementID:          s.ElementID,
		RawStartTime:       display,
		RawPixelPosition:   rawPx,
		GhostStartTime:     ghost,
		GhostPixelPosition: s.GhostPixelPosition,
		ShowGhost:          math.Abs(s.GhostPixelPosition-rawPx) > GhostThresholdPx,
	}
}

// Drop resolves the final position for a pointer released at pointerX. The
// snap position is computed again rather than taken from the last ghost, so a
// fast final movement without an intervening move event still lands right.
// It reports false when there is no drop preview to commit.
func (s *MoveSession) Drop(pointerX, pxPerSec float64, lane []Element) (Bounds, bool) {
	if !s.previewVisible {
		return Bounds{}, false
	}
	duration := s.Duration()
	start := NewPositioner(lane).ComputeSnapPosition(s.RawStart(pointerX, pxPerSec), duration, s.ElementID)
	s.previewVisible = false
	return NewBounds(start, start+duration), true
}
