// Package calib persists the hand-tracking calibration.
package calib

import "github.com/frudas24/pinchpoint/internal/hand"

// Calib stores which monitor the hand drives and the camera-space box that
// maps onto it. A zero Box means "use the tracker mode default".
type Calib struct {
	MonitorIndex int      `json:"monitor"`
	Box          hand.Box `json:"box"`
}

// Normalize returns a box with ordered bounds clamped to [0..1].
func Normalize(b hand.Box) hand.Box {
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = b.MaxY, b.MinY
	}
	b.MinX, b.MaxX = clamp01(b.MinX), clamp01(b.MaxX)
	b.MinY, b.MaxY = clamp01(b.MinY), clamp01(b.MaxY)
	return b
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
