package timeline

import "testing"

func TestSnapGuideCandidates(t *testing.T) {
	t.Parallel()

	elements := []Element{
		clip("a", 2, 4),
		{ID: "m", LaneID: "Media-0", Kind: "video", StartTime: 1, EndTime: 3},
		{ID: "s", LaneID: "Audio-0", Kind: "audio", StartTime: 0, EndTime: 10},
		clip("self", 5, 6),
	}
	g := NewSnapGuide(elements, 10, "self")

	cands := g.Candidates()
	if len(cands) != 6 {
		t.Fatalf("got %d candidates, want 6", len(cands))
	}
	for i := 1; i < len(cands); i++ {
		if cands[i-1].PixelPosition > cands[i].PixelPosition {
			t.Fatalf("candidates not sorted at %d: %+v", i, cands)
		}
	}
	for _, c := range cands {
		if c.SourceElementID == "self" {
			t.Error("dragged element must not be a snap candidate")
		}
	}
}

func TestSnapGuideFindNearest(t *testing.T) {
	t.Parallel()

	elements := []Element{
		clip("a", 0, 5),
		{ID: "m", LaneID: "Media-0", StartTime: 7, EndTime: 9},
	}
	// Candidates at 0, 50, 70, 90 px.
	g := NewSnapGuide(elements, 10, "")

	tests := []struct {
		name      string
		target    float64
		tolerance float64
		wantOK    bool
		wantPx    float64
		wantSrc   string
		wantEdge  SnapEdge
	}{
		{name: "exact hit", target: 50, tolerance: 8, wantOK: true, wantPx: 50, wantSrc: "a", wantEdge: SnapEdgeEnd},
		{name: "nearest below", target: 54, tolerance: 8, wantOK: true, wantPx: 50, wantSrc: "a", wantEdge: SnapEdgeEnd},
		{name: "nearest above across lanes", target: 66, tolerance: 8, wantOK: true, wantPx: 70, wantSrc: "m", wantEdge: SnapEdgeStart},
		{name: "outside tolerance", target: 60, tolerance: 8, wantOK: false},
		{name: "before first", target: -3, tolerance: 5, wantOK: true, wantPx: 0, wantSrc: "a", wantEdge: SnapEdgeStart},
		{name: "after last", target: 95, tolerance: 5, wantOK: true, wantPx: 90, wantSrc: "m", wantEdge: SnapEdgeEnd},
		{name: "tolerance boundary inclusive", target: 58, tolerance: 8, wantOK: true, wantPx: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := g.FindNearest(tt.target, tt.tolerance)
			if ok != tt.wantOK {
				t.Fatalf("FindNearest(%v) ok = %v, want %v", tt.target, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.PixelPosition != tt.wantPx {
				t.Errorf("px = %v, want %v", got.PixelPosition, tt.wantPx)
			}
			if tt.wantSrc != "" && got.SourceElementID != tt.wantSrc {
				t.Errorf("source = %v, want %v", got.SourceElementID, tt.wantSrc)
			}
			if tt.wantEdge != "" && got.Edge != tt.wantEdge {
				t.Errorf("edge = %v, want %v", got.Edge, tt.wantEdge)
			}
		})
	}
}

func TestSnapGuideEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := NewSnapGuide(nil, 10, "").FindNearest(10, 100); ok {
		t.Error("empty guide should never hit")
	}
}

func TestSnapCandidateSignal(t *testing.T) {
	t.Parallel()

	sig := SnapCandidate{Time: 2, PixelPosition: 20}.Signal()
	if sig.PixelPosition != 20 || sig.Time != 2 {
		t.Errorf("signal = %+v", sig)
	}
}
