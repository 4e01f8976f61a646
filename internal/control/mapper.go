// Package control decodes pointer commands and applies them to the dispatcher.
package control

import (
	"fmt"
	"math"

	"github.com/frudas24/pinchpoint/internal/monitor"
)

// NormToAbs maps normalized coordinates to absolute screen coords on m.
func NormToAbs(xn, yn float64, m monitor.Monitor) (int32, int32) {
	xn = clamp01(xn)
	yn = clamp01(yn)
	return int32(m.X + normToPixels(xn, m.W)), int32(m.Y + normToPixels(yn, m.H))
}

func normToPixels(norm float64, span int) int {
	if span <= 1 {
		return 0
	}
	return int(math.Round(norm * float64(span-1)))
}

// clamp01 bounds a float to the [0..1] range. NaN maps to 0.
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toInt32 accepts a JSON number only if it is an integer in the int32 range.
func toInt32(v float64) (int32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("coordinate %v is not a number", v)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("coordinate %v is not an integer", v)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("coordinate %v overflows int32", v)
	}
	return int32(v), nil
}
