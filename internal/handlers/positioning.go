package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"

	"video-editor/internal/database"
	"video-editor/internal/mediatypes"
	"video-editor/internal/metrics"
	"video-editor/internal/timeline"
)

// PositionRequest asks where a clip of the given duration may go on a lane.
type PositionRequest struct {
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	ExcludeID string  `json:"excludeId,omitempty"`
}

// PositionResponse is the resolved start time.
type PositionResponse struct {
	LaneID    string  `json:"laneId"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Adjusted  bool    `json:"adjusted"`
}

// SnapGuideResponse reports the nearest clip edge to a pointer position.
type SnapGuideResponse struct {
	Hit   bool                    `json:"hit"`
	Guide *timeline.SnapCandidate `json:"guide,omitempty"`
}

// DropTime returns the first free start time at or after the candidate
func (h *Handlers) DropTime(w http.ResponseWriter, r *http.Request) {
	h.position(w, r, "drop_time", func(p *timeline.Positioner, req PositionRequest) float64 {
		return p.CalculateValidDropTime(req.StartTime, req.Duration, req.ExcludeID)
	})
}

// SnapPosition returns the nearest free start time around the closest
// overlapping clip
func (h *Handlers) SnapPosition(w http.ResponseWriter, r *http.Request) {
	h.position(w, r, "snap_position", func(p *timeline.Positioner, req PositionRequest) float64 {
		return p.ComputeSnapPosition(req.StartTime, req.Duration, req.ExcludeID)
	})
}

func (h *Handlers) position(w http.ResponseWriter, r *http.Request, operation string,
	resolve func(*timeline.Positioner, PositionRequest) float64,
) {
	vars := mux.Vars(r)
	laneID := vars["lane"]
	if _, _, err := mediatypes.ParseLaneID(laneID); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req PositionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !finite(req.StartTime) || !finite(req.Duration) || req.Duration <= 0 {
		writeJSONError(w, "startTime must be finite and duration positive", http.StatusBadRequest)
		return
	}
	if req.StartTime > timeline.MaxTime || req.Duration > timeline.MaxTime {
		writeJSONError(w, fmt.Sprintf("startTime and duration must not exceed %g seconds", timeline.MaxTime), http.StatusBadRequest)
		return
	}

	elements, err := h.db.ListElements(r.Context(), vars["id"])
	if err != nil {
		writeStoreError(w, err, "resolve position")
		return
	}

	lane := timeline.LaneElements(database.TimelineElements(elements), laneID)
	start := resolve(timeline.NewPositioner(lane), req)
	adjusted := start != timeline.RoundTime(math.Max(req.StartTime, 0))

	metrics.PositioningRequestsTotal.WithLabelValues(operation).Inc()
	if adjusted {
		metrics.PositioningAdjusted.WithLabelValues(operation).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, PositionResponse{
		LaneID:    laneID,
		StartTime: start,
		EndTime:   timeline.RoundTime(start + req.Duration),
		Adjusted:  adjusted,
	})
}

// SnapGuide finds the clip edge nearest to a pointer position across all
// lanes of a project
func (h *Handlers) SnapGuide(w http.ResponseWriter, r *http.Request) {
	x, err := queryFloat(r, "x", math.NaN())
	if err == nil && !finite(x) {
		err = errors.New("x is required")
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	tolerance, err := queryFloat(r, "tolerance", h.tolerance)
	if err == nil && tolerance < 0 {
		err = errors.New("tolerance must not be negative")
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	pxPerSec, err := queryFloat(r, "pxPerSec", h.pxPerSec)
	if err == nil && (pxPerSec <= 0 || !finite(pxPerSec)) {
		err = errors.New("pxPerSec must be positive")
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	elements, err := h.db.ListElements(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "find snap guide")
		return
	}

	metrics.PositioningRequestsTotal.WithLabelValues("snap_guide").Inc()
	guide := timeline.NewSnapGuide(database.TimelineElements(elements), pxPerSec, r.URL.Query().Get("exclude"))

	var resp SnapGuideResponse
	if hit, ok := guide.FindNearest(x, tolerance); ok {
		resp.Hit = true
		resp.Guide = &hit
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
