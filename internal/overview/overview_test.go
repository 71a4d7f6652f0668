package overview

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"testing"

	"video-editor/internal/timeline"
)

func TestRenderLayout(t *testing.T) {
	t.Parallel()

	elements := []timeline.Element{
		{ID: "t", LaneID: "Text-0", Kind: "text", StartTime: 0, EndTime: 4},
		{ID: "a", LaneID: "Audio-0", Kind: "audio", StartTime: 2, EndTime: 10},
	}
	img := Render(elements, Options{PixelsPerSecond: 20, RowHeight: 20})

	wantWidth := labelWidth + 200 + rightPadding
	if img.Bounds().Dx() != wantWidth {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), wantWidth)
	}
	if img.Bounds().Dy() != 2*20+rowGap {
		t.Errorf("height = %d, want %d", img.Bounds().Dy(), 2*20+rowGap)
	}

	// Audio-0 sorts before Text-0, so it takes the first row.
	if got := img.NRGBAAt(labelWidth+100, 10); got != KindColors["audio"] {
		t.Errorf("audio pixel = %v, want %v", got, KindColors["audio"])
	}
	if got := img.NRGBAAt(labelWidth+40, 20+rowGap+10); got != KindColors["text"] {
		t.Errorf("text pixel = %v, want %v", got, KindColors["text"])
	}
	if got := img.NRGBAAt(labelWidth+150, 20+rowGap+10); got != LaneColor {
		t.Errorf("empty lane pixel = %v, want %v", got, LaneColor)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	t.Parallel()

	img := Render([]timeline.Element{{ID: "x", LaneID: "Media-0", Kind: "hologram", StartTime: 0, EndTime: 5}}, Options{PixelsPerSecond: 20})
	if got := img.NRGBAAt(labelWidth+50, DefaultRowHeight/2); got != unknownKind {
		t.Errorf("pixel = %v, want %v", got, unknownKind)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	img := Render(nil, Options{})
	if img.Bounds().Dx() != labelWidth+minTimelineWidth+rightPadding || img.Bounds().Dy() != DefaultRowHeight {
		t.Errorf("empty strip bounds = %v", img.Bounds())
	}
}

func TestRenderFitsMaxWidth(t *testing.T) {
	t.Parallel()

	elements := []timeline.Element{{ID: "v", LaneID: "Media-0", Kind: "video", StartTime: 0, EndTime: 600}}
	img := Render(elements, Options{PixelsPerSecond: 50, MaxWidth: 800, RowHeight: 30})
	if img.Bounds().Dx() != 800 {
		t.Errorf("width = %d, want 800", img.Bounds().Dx())
	}
	// Drawn at the reduced scale, so rows keep their height.
	if img.Bounds().Dy() != 30 {
		t.Errorf("height = %d, want 30", img.Bounds().Dy())
	}
	if got := img.NRGBAAt(labelWidth+400, 15); got != KindColors["video"] {
		t.Errorf("clip pixel = %v, want %v", got, KindColors["video"])
	}
}

func TestRenderBoundsCanvas(t *testing.T) {
	t.Parallel()

	clip := []timeline.Element{{ID: "v", LaneID: "Media-0", Kind: "video", StartTime: 0, EndTime: 5}}
	tests := []struct {
		name       string
		elements   []timeline.Element
		opts       Options
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "huge scale",
			elements:   clip,
			opts:       Options{PixelsPerSecond: 1e12, MaxWidth: 2000},
			wantWidth:  2000,
			wantHeight: DefaultRowHeight,
		},
		{
			name:       "huge scale without max width",
			elements:   clip,
			opts:       Options{PixelsPerSecond: 1e12},
			wantWidth:  MaxCanvasWidth,
			wantHeight: DefaultRowHeight,
		},
		{
			name:       "infinite scale",
			elements:   clip,
			opts:       Options{PixelsPerSecond: math.Inf(1), MaxWidth: 2000},
			wantWidth:  labelWidth + 5*int(timeline.DefaultPixelsPerSecond) + rightPadding,
			wantHeight: DefaultRowHeight,
		},
		{
			name:       "huge end time",
			elements:   []timeline.Element{{ID: "v", LaneID: "Media-0", Kind: "video", StartTime: 1e12, EndTime: 1e300}},
			opts:       Options{MaxWidth: 1000},
			wantWidth:  1000,
			wantHeight: DefaultRowHeight,
		},
		{
			name:       "tall rows",
			elements:   clip,
			opts:       Options{RowHeight: 100000},
			wantWidth:  labelWidth + 5*int(timeline.DefaultPixelsPerSecond) + rightPadding,
			wantHeight: MaxRowHeight,
		},
		{
			name:       "narrow max width",
			elements:   clip,
			opts:       Options{MaxWidth: 50},
			wantWidth:  50,
			wantHeight: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			img := Render(tt.elements, tt.opts)
			if img.Bounds().Dx() != tt.wantWidth {
				t.Errorf("width = %d, want %d", img.Bounds().Dx(), tt.wantWidth)
			}
			if tt.wantHeight >= 0 && img.Bounds().Dy() != tt.wantHeight {
				t.Errorf("height = %d, want %d", img.Bounds().Dy(), tt.wantHeight)
			}
		})
	}
}

func TestRenderManyLanesFitsHeight(t *testing.T) {
	t.Parallel()

	var elements []timeline.Element
	for i := range 500 {
		elements = append(elements, timeline.Element{
			ID: fmt.Sprintf("e%d", i), LaneID: fmt.Sprintf("Media-%d", i), Kind: "video", StartTime: 0, EndTime: 1,
		})
	}
	img := Render(elements, Options{RowHeight: 64})
	if img.Bounds().Dy() > MaxCanvasHeight {
		t.Errorf("height = %d, want at most %d", img.Bounds().Dy(), MaxCanvasHeight)
	}
}

func TestEncodePNG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	elements := []timeline.Element{{ID: "t", LaneID: "Text-0", Kind: "text", StartTime: 1, EndTime: 3}}
	if err := Encode(&buf, elements, Options{}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() == 0 {
		t.Error("decoded image is empty")
	}
}
