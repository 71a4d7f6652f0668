package timeline

import (
	"fmt"
	"math"
)

// DefaultPixelsPerSecond is the timeline scale used when none is configured.
const DefaultPixelsPerSecond = 50

// DefaultSnapTolerancePx is the default reach of the snap guide in pixels.
const DefaultSnapTolerancePx = 8

// Store is the external clip store. The controller reads a fresh snapshot on
// every pointer event and writes new bounds back through it; it never keeps
// its own copy of the clip list.
type Store interface {
	// Elements returns the current state of every clip on every lane.
	Elements() ([]Element, error)
	// UpdateElement writes new bounds for one clip.
	UpdateElement(id string, b Bounds) error
	// UpdateElements writes several clips atomically.
	UpdateElements(updates []ElementUpdate) error
}

// SessionKind discriminates drag sessions.
type SessionKind string

const (
	SessionResize SessionKind = "resize"
	SessionMove   SessionKind = "move"
)

// Tool is the active editing tool of the host UI.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolDelete Tool = "delete"
)

// CaptureFunc acquires the global pointer listeners for a session. The
// returned release function is called exactly once when the session ends,
// whichever way it ends.
type CaptureFunc func(kind SessionKind, elementID string) (release func())

// Options configures a Controller.
type Options struct {
	PixelsPerSecond float64
	SnapTolerancePx float64
	// CanResize reports whether an element's edges may be dragged. Nil allows
	// every element.
	CanResize func(Element) bool
	Capture   CaptureFunc
}

// Frame is the state produced by one pointer move.
type Frame struct {
	Kind   SessionKind   `json:"kind"`
	Resize *ResizeResult `json:"resize,omitempty"`
	Move   *MovePreview  `json:"move,omitempty"`
	Guide  *GuideSignal  `json:"guide,omitempty"`
}

// Outcome describes how a session ended on pointer-up.
type Outcome struct {
	Kind      SessionKind `json:"kind"`
	ElementID string      `json:"elementId"`
	// Committed is set when the session wrote bounds to the store.
	Committed bool    `json:"committed"`
	Bounds    *Bounds `json:"bounds,omitempty"`
}

// Controller owns the single active drag session of an editor view. It has
// an explicit lifecycle: sessions are started with BeginResize or BeginMove,
// driven with PointerMove and ended with PointerUp or Cancel; Close tears the
// controller down and releases any session still running.
//
// A Controller is not safe for concurrent use. Pointer events are expected to
// arrive from one goroutine, in order.
type Controller struct {
	store     Store
	canResize func(Element) bool
	capture   CaptureFunc
	tolerance float64
	pxPerSec  float64
	tool      Tool

	resize  *ResizeSession
	move    *MoveSession
	release func()

	lastResize *Bounds
	closed     bool
}

// NewController creates a controller over store.
func NewController(store Store, opts Options) *Controller {
	c := &Controller{
		store:     store,
		canResize: opts.CanResize,
		capture:   opts.Capture,
		tolerance: opts.SnapTolerancePx,
		pxPerSec:  opts.PixelsPerSecond,
		tool:      ToolSelect,
	}
	if c.pxPerSec <= 0 {
		c.pxPerSec = DefaultPixelsPerSecond
	}
	if c.tolerance <= 0 {
		c.tolerance = DefaultSnapTolerancePx
	}
	return c
}

// PixelsPerSecond returns the current scale.
func (c *Controller) PixelsPerSecond() float64 {
	return c.pxPerSec
}

// SetScale changes the pixel-per-second scale. An active resize keeps its
// original pointer anchor, so changing the scale mid-drag is allowed.
func (c *Controller) SetScale(pxPerSec float64) error {
	if pxPerSec <= 0 || math.IsNaN(pxPerSec) || math.IsInf(pxPerSec, 0) {
		return fmt.Errorf("invalid scale %v", pxPerSec)
	}
	c.pxPerSec = pxPerSec
	return nil
}

// SetTool switches the active tool.
func (c *Controller) SetTool(t Tool) {
	c.tool = t
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool {
	return c.tool
}

// Active returns the kind of the running session, if any.
func (c *Controller) Active() (SessionKind, bool) {
	switch {
	case c.resize != nil:
		return SessionResize, true
	case c.move != nil:
		return SessionMove, true
	}
	return "", false
}

// BeginResize starts an edge drag. It reports false, without error, when the
// element does not exist or may not be resized.
func (c *Controller) BeginResize(elementID string, edge Edge, pointerX float64) (bool, error) {
	if err := c.checkIdle(); err != nil {
		return false, err
	}
	if !edge.Valid() {
		return false, fmt.Errorf("invalid edge %q", edge)
	}

	el, ok, err := c.lookup(elementID)
	if err != nil || !ok {
		return false, err
	}
	if c.canResize != nil && !c.canResize(el) {
		return false, nil
	}

	c.resize = NewResizeSession(el, edge, pointerX)
	c.lastResize = nil
	c.acquire(SessionResize, el.ID)
	return true, nil
}

// BeginMove starts a whole-clip drag. It reports false, without error, when
// the element does not exist or the delete tool is active.
func (c *Controller) BeginMove(elementID string, pointerX float64) (bool, error) {
	if err := c.checkIdle(); err != nil {
		return false, err
	}
	if c.tool == ToolDelete {
		return false, nil
	}

	el, ok, err := c.lookup(elementID)
	if err != nil || !ok {
		return false, err
	}

	c.move = NewMoveSession(el, pointerX, c.pxPerSec)
	c.acquire(SessionMove, el.ID)
	return true, nil
}

// PointerMove feeds a pointer position into the running session. Resizes are
// committed to the store immediately; moves are only previewed.
func (c *Controller) PointerMove(pointerX float64) (Frame, error) {
	if c.closed {
		return Frame{}, ErrControllerClosed
	}
	switch {
	case c.resize != nil:
		return c.moveResize(pointerX)
	case c.move != nil:
		return c.moveMove(pointerX)
	}
	return Frame{}, ErrNoSession
}

func (c *Controller) moveResize(pointerX float64) (Frame, error) {
	s := c.resize
	elements, err := c.store.Elements()
	if err != nil {
		c.end()
		return Frame{}, fmt.Errorf("failed to read clips: %w", err)
	}

	result := s.Update(pointerX, c.pxPerSec, LaneElements(elements, s.LaneID))
	if len(result.Cascade) == 0 {
		err = c.store.UpdateElement(result.ElementID, result.Bounds)
	} else {
		err = c.store.UpdateElements(result.Updates())
	}
	if err != nil {
		c.end()
		return Frame{}, fmt.Errorf("failed to commit resize: %w", err)
	}
	bounds := result.Bounds
	c.lastResize = &bounds

	edgeTime := result.Bounds.EndTime
	if s.Edge == EdgeLeft {
		edgeTime = result.Bounds.StartTime
	}
	guide := NewSnapGuide(applyUpdates(elements, result.Updates()), c.pxPerSec, s.ElementID)

	frame := Frame{Kind: SessionResize, Resize: &result}
	if hit, ok := guide.FindNearest(SecondsToPixels(edgeTime, c.pxPerSec), c.tolerance); ok {
		frame.Guide = hit.Signal()
	}
	return frame, nil
}

func (c *Controller) moveMove(pointerX float64) (Frame, error) {
	s := c.move
	elements, err := c.store.Elements()
	if err != nil {
		c.end()
		return Frame{}, fmt.Errorf("failed to read clips: %w", err)
	}

	preview := s.Update(pointerX, c.pxPerSec, LaneElements(elements, s.LaneID))
	frame := Frame{Kind: SessionMove, Move: &preview}

	guide := NewSnapGuide(elements, c.pxPerSec, s.ElementID)
	startPx := preview.RawPixelPosition
	endPx := SecondsToPixels(preview.RawStartTime+s.Duration(), c.pxPerSec)

	startHit, startOK := guide.FindNearest(startPx, c.tolerance)
	endHit, endOK := guide.FindNearest(endPx, c.tolerance)
	switch {
	case startOK && endOK:
		if math.Abs(endHit.PixelPosition-endPx) < math.Abs(startHit.PixelPosition-startPx) {
			frame.Guide = endHit.Signal()
		} else {
			frame.Guide = startHit.Signal()
		}
	case startOK:
		frame.Guide = startHit.Signal()
	case endOK:
		frame.Guide = endHit.Signal()
	}
	return frame, nil
}

// PointerUp ends the running session. A move is resolved against the current
// lane and committed once; a resize has already been committed live and is
// simply discarded.
func (c *Controller) PointerUp(pointerX float64) (Outcome, error) {
	if c.closed {
		return Outcome{}, ErrControllerClosed
	}
	switch {
	case c.resize != nil:
		s := c.resize
		out := Outcome{Kind: SessionResize, ElementID: s.ElementID}
		if c.lastResize != nil {
			out.Committed = true
			out.Bounds = c.lastResize
		}
		c.end()
		return out, nil
	case c.move != nil:
		return c.drop(pointerX)
	}
	return Outcome{}, ErrNoSession
}

func (c *Controller) drop(pointerX float64) (Outcome, error) {
	s := c.move
	defer c.end()

	out := Outcome{Kind: SessionMove, ElementID: s.ElementID}
	elements, err := c.store.Elements()
	if err != nil {
		return out, fmt.Errorf("failed to read clips: %w", err)
	}
	if _, ok := FindElement(elements, s.ElementID); !ok {
		return out, nil
	}

	bounds, ok := s.Drop(pointerX, c.pxPerSec, LaneElements(elements, s.LaneID))
	if !ok {
		return out, nil
	}
	if err := c.store.UpdateElement(s.ElementID, bounds); err != nil {
		return out, fmt.Errorf("failed to commit move: %w", err)
	}
	out.Committed = true
	out.Bounds = &bounds
	return out, nil
}

// Cancel ends the running session without committing anything further. It
// reports whether a session was running.
func (c *Controller) Cancel() bool {
	if c.resize == nil && c.move == nil {
		return false
	}
	if c.move != nil {
		c.move.Hide()
	}
	c.end()
	return true
}

// Close cancels any running session and refuses new ones. It is safe to call
// more than once.
func (c *Controller) Close() {
	c.Cancel()
	c.closed = true
}

func (c *Controller) checkIdle() error {
	if c.closed {
		return ErrControllerClosed
	}
	if c.resize != nil || c.move != nil {
		return ErrSessionActive
	}
	return nil
}

func (c *Controller) lookup(elementID string) (Element, bool, error) {
	elements, err := c.store.Elements()
	if err != nil {
		return Element{}, false, fmt.Errorf("failed to read clips: %w", err)
	}
	el, ok := FindElement(elements, elementID)
	return el, ok, nil
}

func (c *Controller) acquire(kind SessionKind, elementID string) {
	if c.capture == nil {
		c.release = nil
		return
	}
	c.release = c.capture(kind, elementID)
}

// end tears down the running session and releases its pointer capture.
func (c *Controller) end() {
	c.resize = nil
	c.move = nil
	c.lastResize = nil
	if release := c.release; release != nil {
		c.release = nil
		release()
	}
}

// applyUpdates returns a copy of elements with updates applied.
func applyUpdates(elements []Element, updates []ElementUpdate) []Element {
	byID := make(map[string]Bounds, len(updates))
	for _, u := range updates {
		byID[u.ID] = u.Updates
	}
	out := make([]Element, len(elements))
	for i, el := range elements {
		if b, ok := byID[el.ID]; ok {
			el.StartTime = b.StartTime
			el.EndTime = b.EndTime
		}
		out[i] = el
	}
	return out
}
