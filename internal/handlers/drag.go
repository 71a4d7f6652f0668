package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"video-editor/internal/logging"
	"video-editor/internal/mediatypes"
	"video-editor/internal/metrics"
	"video-editor/internal/timeline"
)

// Drag channel timing
const (
	dragWriteWait    = 10 * time.Second
	dragPongWait     = 60 * time.Second
	dragPingPeriod   = (dragPongWait * 9) / 10
	dragMaxMessageSz = 4096
)

// Client message types
const (
	msgResizeStart = "resize_start"
	msgMoveStart   = "move_start"
	msgPointerMove = "pointer_move"
	msgPointerUp   = "pointer_up"
	msgCancel      = "cancel"
	msgScale       = "scale"
	msgTool        = "tool"
)

// Server message types
const (
	msgStarted   = "started"
	msgFrame     = "frame"
	msgCommitted = "committed"
	msgCancelled = "cancelled"
	msgIgnored   = "ignored"
	msgError     = "error"
	msgScaleSet  = "scale_set"
	msgToolSet   = "tool_set"
)

// DragMessage is a pointer event sent by the editor.
type DragMessage struct {
	Type      string        `json:"type"`
	ElementID string        `json:"elementId,omitempty"`
	Edge      timeline.Edge `json:"edge,omitempty"`
	X         float64       `json:"x"`
	PxPerSec  float64       `json:"pxPerSec,omitempty"`
	Mode      timeline.Tool `json:"mode,omitempty"`
}

// DragEvent is a state update sent back to the editor.
type DragEvent struct {
	Type      string               `json:"type"`
	Kind      timeline.SessionKind `json:"kind,omitempty"`
	ElementID string               `json:"elementId,omitempty"`
	Frame     *timeline.Frame      `json:"frame,omitempty"`
	Outcome   *timeline.Outcome    `json:"outcome,omitempty"`
	PxPerSec  float64              `json:"pxPerSec,omitempty"`
	Mode      timeline.Tool        `json:"mode,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// dragSession tracks one connection's controller and the metrics of the
// session it is running.
type dragSession struct {
	conn       *websocket.Conn
	controller *timeline.Controller
	projectID  string

	kind      timeline.SessionKind
	started   time.Time
	ended     bool
	lastFrame *timeline.Frame
}

// Drag upgrades to a WebSocket that drives one drag controller over the
// project's clips. Resizes are committed live on every pointer_move; moves
// are committed once on pointer_up. Closing the connection ends any running
// session without committing it.
func (h *Handlers) Drag(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	if _, err := h.db.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err, "open drag channel")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		logging.Warn("Drag channel upgrade failed for project %s: %v", projectID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	metrics.DragChannelsOpen.Inc()
	defer metrics.DragChannelsOpen.Dec()

	s := &dragSession{conn: conn, projectID: projectID}
	s.controller = timeline.NewController(h.db.Store(ctx, projectID), timeline.Options{
		PixelsPerSecond: h.pxPerSec,
		SnapTolerancePx: h.tolerance,
		CanResize: func(el timeline.Element) bool {
			return mediatypes.CanTrim(mediatypes.Kind(el.Kind))
		},
		Capture: s.capture,
	})
	defer func() {
		s.controller.Close()
		s.finish(metrics.OutcomeCancelled)
	}()

	logging.Debug("Drag channel opened for project %s from %s", projectID, r.RemoteAddr)

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(done)

	conn.SetReadLimit(dragMaxMessageSz)
	_ = conn.SetReadDeadline(time.Now().Add(dragPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(dragPongWait))
	})

	for {
		var msg DragMessage
		if err := conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if err := s.send(DragEvent{Type: msgError, Error: "invalid message: " + err.Error()}); err != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("Drag channel for project %s closed: %v", projectID, err)
			}
			return
		}
		if err := s.send(s.handle(msg)); err != nil {
			logging.Debug("Drag channel write failed for project %s: %v", projectID, err)
			return
		}
	}
}

// handle applies one client message to the controller.
func (s *dragSession) handle(msg DragMessage) DragEvent {
	c := s.controller
	switch msg.Type {
	case msgResizeStart:
		ok, err := c.BeginResize(msg.ElementID, msg.Edge, msg.X)
		return s.begun(timeline.SessionResize, msg.ElementID, ok, err)

	case msgMoveStart:
		ok, err := c.BeginMove(msg.ElementID, msg.X)
		return s.begun(timeline.SessionMove, msg.ElementID, ok, err)

	case msgPointerMove:
		frame, err := c.PointerMove(msg.X)
		if err != nil {
			s.finish(metrics.OutcomeError)
			return errorEvent(err)
		}
		s.lastFrame = &frame
		if frame.Resize != nil && len(frame.Resize.Cascade) > 0 {
			metrics.ResizeCascadeSize.Observe(float64(len(frame.Resize.Cascade)))
		}
		if frame.Guide != nil {
			metrics.SnapGuideHits.WithLabelValues(string(frame.Kind)).Inc()
		}
		return DragEvent{Type: msgFrame, Kind: frame.Kind, Frame: &frame}

	case msgPointerUp:
		last := s.lastFrame
		out, err := c.PointerUp(msg.X)
		if err != nil {
			s.finish(metrics.OutcomeError)
			return errorEvent(err)
		}
		if !out.Committed {
			s.finish(metrics.OutcomeCancelled)
			return DragEvent{Type: msgCancelled, Kind: out.Kind, ElementID: out.ElementID}
		}
		if out.Kind == timeline.SessionMove && last != nil && last.Move != nil &&
			out.Bounds.StartTime != last.Move.RawStartTime {
			metrics.MoveDropsAdjusted.Inc()
		}
		s.finish(metrics.OutcomeCommitted)
		return DragEvent{Type: msgCommitted, Kind: out.Kind, ElementID: out.ElementID, Outcome: &out}

	case msgCancel:
		kind := s.kind
		if !c.Cancel() {
			return DragEvent{Type: msgIgnored}
		}
		s.finish(metrics.OutcomeCancelled)
		return DragEvent{Type: msgCancelled, Kind: kind}

	case msgScale:
		if err := c.SetScale(msg.PxPerSec); err != nil {
			return errorEvent(err)
		}
		return DragEvent{Type: msgScaleSet, PxPerSec: c.PixelsPerSecond()}

	case msgTool:
		if msg.Mode != timeline.ToolSelect && msg.Mode != timeline.ToolDelete {
			return errorEvent(fmt.Errorf("unknown tool %q", msg.Mode))
		}
		c.SetTool(msg.Mode)
		return DragEvent{Type: msgToolSet, Mode: c.Tool()}
	}
	return errorEvent(fmt.Errorf("unknown message type %q", msg.Type))
}

func (s *dragSession) begun(kind timeline.SessionKind, elementID string, ok bool, err error) DragEvent {
	if err != nil {
		return errorEvent(err)
	}
	if !ok {
		return DragEvent{Type: msgIgnored, Kind: kind, ElementID: elementID}
	}
	return DragEvent{Type: msgStarted, Kind: kind, ElementID: elementID}
}

// capture is the controller's pointer-capture hook. The returned release
// runs exactly once when the session ends, from inside the controller; the
// outcome is recorded afterwards by finish.
func (s *dragSession) capture(kind timeline.SessionKind, elementID string) func() {
	s.kind = kind
	s.started = time.Now()
	s.ended = false
	s.lastFrame = nil

	metrics.DragSessionsStarted.WithLabelValues(string(kind)).Inc()
	metrics.DragSessionsActive.Inc()
	logging.Debug("Drag %s started on clip %s (project %s)", kind, elementID, s.projectID)

	return func() {
		s.ended = true
		metrics.DragSessionsActive.Dec()
		metrics.DragSessionDuration.WithLabelValues(string(kind)).Observe(time.Since(s.started).Seconds())
	}
}

// finish records the outcome of a session whose capture was just released.
func (s *dragSession) finish(outcome string) {
	if !s.ended {
		return
	}
	s.ended = false
	metrics.DragSessionsFinished.WithLabelValues(string(s.kind), outcome).Inc()
	logging.Debug("Drag %s ended: %s (project %s)", s.kind, outcome, s.projectID)
	s.kind = ""
	s.lastFrame = nil
}

func (s *dragSession) send(ev DragEvent) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(dragWriteWait))
	return s.conn.WriteJSON(ev)
}

// keepAlive pings the client until done is closed. WriteControl may be used
// concurrently with the reader's writes.
func (s *dragSession) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(dragPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(dragWriteWait)); err != nil {
				return
			}
		}
	}
}

func errorEvent(err error) DragEvent {
	return DragEvent{Type: msgError, Error: err.Error()}
}
