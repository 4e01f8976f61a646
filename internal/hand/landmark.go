// Package hand turns hand-landmark frames into pointer positions and pinch state.
package hand

import (
	"errors"
	"math"
)

// NumLandmarks is the number of points in a MediaPipe hand frame.
const NumLandmarks = 21

// Landmark indices used by the trackers.
const (
	ThumbIP   = 3
	ThumbTip  = 4
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
)

// ErrTooFewLandmarks is returned for frames shorter than NumLandmarks.
var ErrTooFewLandmarks = errors.New("hand frame needs 21 landmarks")

// Landmark is a normalized camera-space point. X and Y are in [0,1] of the
// frame; Z is depth relative to the wrist.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box is the region of camera space that maps onto the whole monitor.
type Box struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Valid reports whether the box has positive extent on both axes.
func (b Box) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Distance returns the euclidean distance between two landmarks.
func Distance(a, b Landmark) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ConvertRange linearly maps v from [oldMin,oldMax] to [newMin,newMax] and
// clamps the result to the new range.
func ConvertRange(v, oldMin, oldMax, newMin, newMax float64) float64 {
	if oldMax == oldMin {
		return newMin
	}
	r := (v-oldMin)/(oldMax-oldMin)*(newMax-newMin) + newMin
	if r < newMin {
		return newMin
	}
	if r > newMax {
		return newMax
	}
	return r
}

// PinchDistance is the thumb-index tip gap scaled by the mean length of the
// two distal segments, so it stays stable as the hand moves toward the camera.
func PinchDistance(lms []Landmark) float64 {
	tip := Distance(lms[ThumbTip], lms[IndexTip])
	seg := 0.5 * (Distance(lms[ThumbTip], lms[ThumbIP]) + Distance(lms[IndexTip], lms[IndexDIP]))
	if seg == 0 {
		return math.Inf(1)
	}
	return tip * 10 / seg
}
