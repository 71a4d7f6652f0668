package timeline

import "testing"

func TestRoundTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "float drift", in: 0.1 + 0.2, want: 0.3},
		{name: "already canonical", in: 1.25, want: 1.25},
		{name: "sub-millisecond rounds down", in: 2.0004, want: 2},
		{name: "sub-millisecond rounds up", in: 2.0006, want: 2.001},
		{name: "negative", in: -0.1 - 0.2, want: -0.3},
		{name: "zero", in: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RoundTime(tt.in); got != tt.want {
				t.Errorf("RoundTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTimeRepeatedDrags(t *testing.T) {
	t.Parallel()

	// Many small deltas must not accumulate drift once rounded.
	end := 5.0
	for i := 0; i < 1000; i++ {
		end = RoundTime(end + 0.001)
	}
	if end != 6 {
		t.Errorf("end after 1000 x 1ms = %v, want 6", end)
	}
}

func TestSecondsPixelsConversion(t *testing.T) {
	t.Parallel()

	if got := SecondsToPixels(2.5, 40); got != 100 {
		t.Errorf("SecondsToPixels(2.5, 40) = %v, want 100", got)
	}
	if got := PixelsToSeconds(100, 40); got != 2.5 {
		t.Errorf("PixelsToSeconds(100, 40) = %v, want 2.5", got)
	}
	if got := PixelsToSeconds(100, 0); got != 0 {
		t.Errorf("PixelsToSeconds with zero scale = %v, want 0", got)
	}
	if got := PixelsToSeconds(-50, 100); got != -0.5 {
		t.Errorf("PixelsToSeconds(-50, 100) = %v, want -0.5", got)
	}
}
