package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"video-editor/internal/database"
	"video-editor/internal/mediatypes"
)

func TestAddElementPlacesClip(t *testing.T) {
	h, db := setupTestHandlers(t)
	p := setupTestProject(t, db)
	addTestElement(t, db, p.ID, "Text-0", mediatypes.KindText, 0, 5)

	vars := map[string]string{"id": p.ID}
	body := database.NewElement{LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 2, Duration: 3, Content: "Hi"}
	w := httptest.NewRecorder()
	h.AddElement(w, newRequest(t, http.MethodPost, "/api/projects/"+p.ID+"/elements", body, vars))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var el database.Element
	decodeBody(t, w, &el)
	if el.StartTime != 5 || el.EndTime != 8 || el.Content != "Hi" {
		t.Errorf("clip = %+v, want placed at [5, 8)", el)
	}

	w = httptest.NewRecorder()
	h.ListElements(w, newRequest(t, http.MethodGet, "/api/projects/"+p.ID+"/elements", nil, vars))
	var elements []database.Element
	decodeBody(t, w, &elements)
	if len(elements) != 2 {
		t.Errorf("got %d clips, want 2", len(elements))
	}
}

func TestAddElementErrors(t *testing.T) {
	h, db := setupTestHandlers(t)
	p := setupTestProject(t, db)

	tests := []struct {
		name       string
		projectID  string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "unknown project",
			projectID:  "missing",
			body:       database.NewElement{LaneID: "Text-0", Kind: mediatypes.KindText, Duration: 1},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrong lane for kind",
			projectID:  p.ID,
			body:       database.NewElement{LaneID: "Text-0", Kind: mediatypes.KindAudio, Duration: 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "too short",
			projectID:  p.ID,
			body:       database.NewElement{LaneID: "Text-0", Kind: mediatypes.KindText, Duration: 0.01},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			projectID:  p.ID,
			body:       `{"laneId":"Text-0","kind":"text","duration":1,"color":"red"}`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.AddElement(w, newRequest(t, http.MethodPost, "/", tt.body, map[string]string{"id": tt.projectID}))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestPatchElement(t *testing.T) {
	h, db := setupTestHandlers(t)
	p := setupTestProject(t, db)
	a := addTestElement(t, db, p.ID, "Text-0", mediatypes.KindText, 0, 5)
	addTestElement(t, db, p.ID, "Text-0", mediatypes.KindText, 5, 5)

	vars := map[string]string{"id": p.ID, "eid": a.ID}

	w := httptest.NewRecorder()
	h.PatchElement(w, newRequest(t, http.MethodPatch, "/", `{"content":"Title","startTime":1}`, vars))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var el database.Element
	decodeBody(t, w, &el)
	if el.Content != "Title" || el.StartTime != 1 || el.EndTime != 5 {
		t.Errorf("clip = %+v", el)
	}

	w = httptest.NewRecorder()
	h.PatchElement(w, newRequest(t, http.MethodPatch, "/", `{"endTime":7}`, vars))
	if w.Code != http.StatusConflict {
		t.Errorf("overlapping patch status = %d, want 409", w.Code)
	}

	w = httptest.NewRecorder()
	h.PatchElement(w, newRequest(t, http.MethodPatch, "/", `{}`, map[string]string{"id": p.ID, "eid": "missing"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing clip status = %d, want 404", w.Code)
	}
}

func TestSplitAndDeleteElement(t *testing.T) {
	h, db := setupTestHandlers(t)
	p := setupTestProject(t, db)
	a := addTestElement(t, db, p.ID, "Media-0", mediatypes.KindVideo, 0, 6)

	vars := map[string]string{"id": p.ID, "eid": a.ID}
	w := httptest.NewRecorder()
	h.SplitElement(w, newRequest(t, http.MethodPost, "/", SplitRequest{At: 2}, vars))
	if w.Code != http.StatusCreated {
		t.Fatalf("split status = %d: %s", w.Code, w.Body.String())
	}
	var resp SplitResponse
	decodeBody(t, w, &resp)
	if resp.Left.EndTime != 2 || resp.Right.StartTime != 2 || resp.Right.EndTime != 6 {
		t.Errorf("split = %+v / %+v", resp.Left, resp.Right)
	}

	w = httptest.NewRecorder()
	h.SplitElement(w, newRequest(t, http.MethodPost, "/", SplitRequest{At: 1.95}, vars))
	if w.Code != http.StatusBadRequest {
		t.Errorf("split near edge status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	h.DeleteElement(w, newRequest(t, http.MethodDelete, "/", nil, map[string]string{"id": p.ID, "eid": resp.Right.ID}))
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.DeleteElement(w, newRequest(t, http.MethodDelete, "/", nil, map[string]string{"id": p.ID, "eid": resp.Right.ID}))
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
