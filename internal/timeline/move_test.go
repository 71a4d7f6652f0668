package timeline

import "testing"

func TestMoveSessionSeedsGhost(t *testing.T) {
	t.Parallel()

	s := NewMoveSession(clip("x", 4, 6), 420, testScale)
	if s.GhostPixelPosition != 400 {
		t.Errorf("ghost seeded at %v, want 400", s.GhostPixelPosition)
	}
	if !s.PreviewVisible() || s.PreviewTime() != 4 {
		t.Errorf("preview = %v at %v, want visible at 4", s.PreviewVisible(), s.PreviewTime())
	}
	if s.Duration() != 2 {
		t.Errorf("duration = %v, want 2", s.Duration())
	}
}

func TestMoveSessionUpdate(t *testing.T) {
	t.Parallel()

	lane := []Element{clip("a", 10, 20), clip("x", 30, 35)}

	tests := []struct {
		name      string
		pointerX  float64
		wantRaw   float64
		wantGhost float64
		wantShow  bool
	}{
		{name: "free space follows cursor", pointerX: 200, wantRaw: 2, wantGhost: 2, wantShow: false},
		{name: "overlap snaps before", pointerX: 1200, wantRaw: 12, wantGhost: 5, wantShow: true},
		{name: "overlap snaps after", pointerX: 1600, wantRaw: 16, wantGhost: 20, wantShow: true},
		{name: "left of origin clamps preview", pointerX: -500, wantRaw: 0, wantGhost: 0, wantShow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewMoveSession(lane[1], 3000, testScale)
			got := s.Update(tt.pointerX, testScale, lane)
			if got.RawStartTime != tt.wantRaw {
				t.Errorf("raw = %v, want %v", got.RawStartTime, tt.wantRaw)
			}
			if got.GhostStartTime != tt.wantGhost {
				t.Errorf("ghost = %v, want %v", got.GhostStartTime, tt.wantGhost)
			}
			if got.ShowGhost != tt.wantShow {
				t.Errorf("showGhost = %v, want %v", got.ShowGhost, tt.wantShow)
			}
			if got.GhostPixelPosition != SecondsToPixels(tt.wantGhost, testScale) {
				t.Errorf("ghost px = %v", got.GhostPixelPosition)
			}
		})
	}
}

func TestMoveSessionGhostThreshold(t *testing.T) {
	t.Parallel()

	// At 1 px/s a 0.4s snap is 0.4px apart: under the threshold.
	lane := []Element{clip("a", 0, 10), clip("x", 20, 25)}
	s := NewMoveSession(lane[1], 20, 1)
	got := s.Update(9.6, 1, lane)
	if got.GhostStartTime != 10 {
		t.Fatalf("ghost = %v, want 10", got.GhostStartTime)
	}
	if got.ShowGhost {
		t.Error("ghost within 0.5px of cursor should not be shown")
	}
}

func TestMoveSessionDropRecomputes(t *testing.T) {
	t.Parallel()

	lane := []Element{clip("a", 10, 20), clip("x", 30, 35)}
	s := NewMoveSession(lane[1], 3000, testScale)
	s.Update(200, testScale, lane)

	// Released far from the last move event: the drop must not reuse the ghost.
	b, ok := s.Drop(1600, testScale, lane)
	if !ok {
		t.Fatal("drop reported no preview")
	}
	if b != NewBounds(20, 25) {
		t.Errorf("drop = %+v, want {20,25}", b)
	}
	if s.PreviewVisible() {
		t.Error("preview should be consumed by drop")
	}
	if _, ok := s.Drop(1600, testScale, lane); ok {
		t.Error("second drop should not commit")
	}
}

func TestMoveSessionHiddenDoesNotDrop(t *testing.T) {
	t.Parallel()

	lane := []Element{clip("x", 0, 1)}
	s := NewMoveSession(lane[0], 0, testScale)
	s.Hide()
	if _, ok := s.Drop(500, testScale, lane); ok {
		t.Error("hidden preview must not produce a drop")
	}
}
