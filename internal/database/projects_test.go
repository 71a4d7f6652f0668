package database

import (
	"context"
	"errors"
	"testing"

	"video-editor/internal/mediatypes"
)

func TestCreateProject(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	p, err := db.CreateProject(ctx, "  Holiday cut  ")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if p.ID == "" {
		t.Error("project id not assigned")
	}
	if p.Name != "Holiday cut" {
		t.Errorf("name = %q, want trimmed", p.Name)
	}

	got, err := db.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Name != p.Name || got.ElementCount != 0 {
		t.Errorf("GetProject = %+v", got)
	}

	if _, err := db.CreateProject(ctx, "   "); !errors.Is(err, ErrInvalidProject) {
		t.Errorf("blank name error = %v, want ErrInvalidProject", err)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	db, _ := setupTestDB(t)

	if _, err := db.GetProject(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListProjectsCountsClips(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	empty := setupTestProject(t, db)
	full, err := db.CreateProject(ctx, "full")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	for range 3 {
		if _, err := db.AddElement(ctx, full.ID, NewElement{
			LaneID: "Text-0", Kind: mediatypes.KindText, Duration: 1,
		}); err != nil {
			t.Fatalf("AddElement failed: %v", err)
		}
	}

	projects, err := db.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	counts := map[string]int{}
	for _, p := range projects {
		counts[p.ID] = p.ElementCount
	}
	if counts[empty.ID] != 0 || counts[full.ID] != 3 {
		t.Errorf("element counts = %v", counts)
	}
}

func TestDeleteProjectRemovesClips(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	p := setupTestProject(t, db)

	el, err := db.AddElement(ctx, p.ID, NewElement{LaneID: "Text-0", Kind: mediatypes.KindText, Duration: 2})
	if err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}

	if err := db.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := db.GetProject(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("project still present: %v", err)
	}
	if _, err := db.GetElement(ctx, p.ID, el.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("clip still present: %v", err)
	}
	if err := db.DeleteProject(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestReplaceProject(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	p := setupTestProject(t, db)

	if _, err := db.AddElement(ctx, p.ID, NewElement{LaneID: "Text-0", Kind: mediatypes.KindText, Duration: 2}); err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}

	out, err := db.ReplaceProject(ctx, Project{ID: p.ID, Name: "renamed"}, []Element{
		{ID: "t1", LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 0, EndTime: 5, Content: "Title"},
		{LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 5, EndTime: 6.0004},
		{ID: "a1", LaneID: "Audio-0", Kind: mediatypes.KindAudio, StartTime: 1, EndTime: 9, Volume: 0.5, FadeIn: 1},
	})
	if err != nil {
		t.Fatalf("ReplaceProject failed: %v", err)
	}
	if out.Name != "renamed" || out.ElementCount != 3 {
		t.Errorf("ReplaceProject = %+v", out)
	}

	elements, err := db.ListElements(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListElements failed: %v", err)
	}
	if len(elements) != 3 {
		t.Fatalf("got %d clips, want 3", len(elements))
	}
	for _, el := range elements {
		if el.ID == "" {
			t.Error("clip imported without an id")
		}
		if el.LaneID == "Text-0" && el.StartTime == 5 && el.EndTime != 6 {
			t.Errorf("imported end time not rounded: %v", el.EndTime)
		}
	}
}

func TestReplaceProjectRejectsInvalid(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	p := setupTestProject(t, db)
	if _, err := db.AddElement(ctx, p.ID, NewElement{LaneID: "Text-0", Kind: mediatypes.KindText, Duration: 2}); err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}

	tests := []struct {
		name     string
		project  Project
		elements []Element
		wantErr  error
	}{
		{
			name:    "blank name",
			project: Project{ID: p.ID, Name: " "},
			wantErr: ErrInvalidProject,
		},
		{
			name:    "overlap",
			project: Project{ID: p.ID, Name: "x"},
			elements: []Element{
				{ID: "a", LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 0, EndTime: 5},
				{ID: "b", LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 4, EndTime: 6},
			},
			wantErr: ErrOverlap,
		},
		{
			name:    "duplicate id",
			project: Project{ID: p.ID, Name: "x"},
			elements: []Element{
				{ID: "a", LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 0, EndTime: 1},
				{ID: "a", LaneID: "Text-1", Kind: mediatypes.KindText, StartTime: 0, EndTime: 1},
			},
			wantErr: ErrInvalidElement,
		},
		{
			name:    "wrong lane",
			project: Project{ID: p.ID, Name: "x"},
			elements: []Element{
				{ID: "a", LaneID: "Audio-0", Kind: mediatypes.KindVideo, StartTime: 0, EndTime: 1},
			},
			wantErr: ErrInvalidElement,
		},
		{
			name:    "inverted bounds",
			project: Project{ID: p.ID, Name: "x"},
			elements: []Element{
				{ID: "a", LaneID: "Text-0", Kind: mediatypes.KindText, StartTime: 3, EndTime: 1},
			},
			wantErr: ErrInvalidBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.ReplaceProject(ctx, tt.project, tt.elements); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing was written by the rejected imports.
	got, err := db.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Name != p.Name || got.ElementCount != 1 {
		t.Errorf("project changed by rejected import: %+v", got)
	}
}
