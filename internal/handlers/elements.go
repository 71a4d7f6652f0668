package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"video-editor/internal/database"
	"video-editor/internal/logging"
)

// SplitRequest is the body of a split request.
type SplitRequest struct {
	At float64 `json:"at"`
}

// SplitResponse holds both halves of a split clip.
type SplitResponse struct {
	Left  *database.Element `json:"left"`
	Right *database.Element `json:"right"`
}

// ListElements returns every clip of a project
func (h *Handlers) ListElements(w http.ResponseWriter, r *http.Request) {
	elements, err := h.db.ListElements(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "list clips")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, elements)
}

// AddElement places a new clip at the first free position from its
// requested start time
func (h *Handlers) AddElement(w http.ResponseWriter, r *http.Request) {
	var req database.NewElement
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	el, err := h.db.AddElement(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeStoreError(w, err, "add clip")
		return
	}

	logging.Debug("Clip %s added to %s at %.3fs", el.ID, el.LaneID, el.StartTime)
	writeJSONStatusCode(w, http.StatusCreated, el)
}

// PatchElement applies partial changes to a clip
func (h *Handlers) PatchElement(w http.ResponseWriter, r *http.Request) {
	var patch database.ElementPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	el, err := h.db.PatchElement(r.Context(), vars["id"], vars["eid"], patch)
	if err != nil {
		writeStoreError(w, err, "update clip")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, el)
}

// DeleteElement removes a clip
func (h *Handlers) DeleteElement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.db.DeleteElement(r.Context(), vars["id"], vars["eid"]); err != nil {
		writeStoreError(w, err, "delete clip")
		return
	}
	writeJSONStatus(w, "deleted")
}

// SplitElement cuts a clip in two at an interior time
func (h *Handlers) SplitElement(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	left, right, err := h.db.SplitElement(r.Context(), vars["id"], vars["eid"], req.At)
	if err != nil {
		writeStoreError(w, err, "split clip")
		return
	}
	writeJSONStatusCode(w, http.StatusCreated, SplitResponse{Left: left, Right: right})
}
