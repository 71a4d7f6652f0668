package timeline

import "math"

// TimePrecision is the number of decimal places kept for every stored or
// compared time value (one millisecond).
const TimePrecision = 3

// MinDuration is the shortest clip a resize may produce, in seconds.
const MinDuration = 0.1

// MaxTime is the latest time, in seconds, a clip may start or end at. It keeps
// millisecond rounding well inside float64 range.
const MaxTime = 1e9

const precisionScale = 1000

// SecondsToPixels converts a time offset to a pixel offset at the given scale.
func SecondsToPixels(t, pxPerSec float64) float64 {
	return t * pxPerSec
}

// PixelsToSeconds converts a pixel offset to a time offset at the given scale.
// A non-positive scale yields 0.
func PixelsToSeconds(px, pxPerSec float64) float64 {
	if pxPerSec <= 0 {
		return 0
	}
	return px / pxPerSec
}

// RoundTime rounds t to the canonical millisecond precision.
func RoundTime(t float64) float64 {
	return math.Round(t*precisionScale) / precisionScale
}
