package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"video-editor/internal/database"
	"video-editor/internal/logging"
	"video-editor/internal/overview"
	"video-editor/internal/project"
)

// maxImportBytes bounds imported project documents.
const maxImportBytes = 10 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ProjectRequest is the body of a create request.
type ProjectRequest struct {
	Name string `json:"name"`
}

// ListProjects returns every project
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.db.ListProjects(r.Context())
	if err != nil {
		writeStoreError(w, err, "list projects")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, projects)
}

// CreateProject creates an empty project
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.db.CreateProject(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, err, "create project")
		return
	}

	logging.Info("Project created: %s (%q)", p.ID, p.Name)
	writeJSONStatusCode(w, http.StatusCreated, p)
}

// GetProject returns a project header
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "get project")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, p)
}

// DeleteProject removes a project and its clips
func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.db.DeleteProject(r.Context(), id); err != nil {
		writeStoreError(w, err, "delete project")
		return
	}

	logging.Info("Project deleted: %s", id)
	writeJSONStatus(w, "deleted")
}

// ExportProject downloads a project as a YAML document
func (h *Handlers) ExportProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.db.GetProject(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "export project")
		return
	}
	elements, err := h.db.ListElements(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "export project")
		return
	}

	// Encode into a buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := project.Encode(&buf, *p, elements); err != nil {
		writeStoreError(w, err, "export project")
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(p.Name)))
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Error("failed to write export: %v", err)
	}
}

func exportFilename(name string) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "_"), "_.")
	if base == "" {
		base = "project"
	}
	return base + ".yaml"
}

// ImportProject creates or replaces a project from a YAML document
func (h *Handlers) ImportProject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, "Project document too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	doc, err := project.Decode(bytes.NewReader(body))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.db.ReplaceProject(r.Context(), doc.Project(), doc.Elements())
	if err != nil {
		writeStoreError(w, err, "import project")
		return
	}
	writeJSONStatusCode(w, http.StatusCreated, p)
}

// GetOverview renders the project's lanes as a PNG strip
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	pxPerSec, err := queryFloat(r, "pxPerSec", h.pxPerSec)
	if err == nil && (pxPerSec <= 0 || !finite(pxPerSec)) {
		err = errors.New("pxPerSec must be positive")
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	maxWidth, err := queryInt(r, "maxWidth", overview.DefaultMaxWidth)
	if err == nil && (maxWidth < 0 || maxWidth > overview.MaxCanvasWidth) {
		err = fmt.Errorf("maxWidth must be between 0 and %d", overview.MaxCanvasWidth)
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	rowHeight, err := queryInt(r, "rowHeight", overview.DefaultRowHeight)
	if err == nil && (rowHeight < 0 || rowHeight > overview.MaxRowHeight) {
		err = fmt.Errorf("rowHeight must be between 0 and %d", overview.MaxRowHeight)
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	elements, err := h.db.ListElements(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "render overview")
		return
	}

	var buf bytes.Buffer
	opts := overview.Options{PixelsPerSecond: pxPerSec, MaxWidth: maxWidth, RowHeight: rowHeight}
	if err := overview.Encode(&buf, database.TimelineElements(elements), opts); err != nil {
		writeStoreError(w, err, "render overview")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := io.Copy(w, &buf); err != nil {
		logging.Error("failed to write overview: %v", err)
	}
}
