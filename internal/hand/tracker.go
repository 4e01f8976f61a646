// Package hand turns hand-landmark frames into pointer positions and pinch state.
package hand

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Tracker modes.
const (
	// ModeFront follows the middle-finger knuckle of a hand facing a front
	// camera, compensating for the finger's pointing angle.
	ModeFront = "front"
	// ModeTopDown follows the thumb tip seen by a camera looking down at the desk.
	ModeTopDown = "topdown"
)

const (
	pinchTolerance = 0.5
	cameraFPS      = 60

	// front mode tuning
	knuckleSpanMax   = 0.2
	knuckleSpanMin   = knuckleSpanMax / 5
	angleThreshold   = 0.03
	angleFactor      = 0.3
	axisYOffset      = 0.1
	pinchSettleFrame = 15
	pinchNearMargin  = 3
)

// Options configures a Tracker. Zero values select the mode defaults.
type Options struct {
	Mode           string
	Box            Box
	PinchThreshold float64
	PinchBuffer    int
}

// Result is one tracked pointer sample in normalized monitor space.
type Result struct {
	X        float64
	Y        float64
	Pinch    bool
	Distance float64
}

// Tracker converts successive landmark frames into pointer samples. It is
// safe for concurrent use; frames are processed one at a time.
type Tracker struct {
	mu    sync.Mutex
	mode  string
	box   Box
	pinch *PinchDetector
	fx    *OneEuroFilter
	fy    *OneEuroFilter

	// front mode angle state
	fxz    *OneEuroFilter
	fyz    *OneEuroFilter
	prevXZ float64
	prevYZ float64
	settle int
}

// ParseMode normalizes a mode name, defaulting to ModeFront.
func ParseMode(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", ModeFront:
		return ModeFront, nil
	case ModeTopDown:
		return ModeTopDown, nil
	default:
		return "", fmt.Errorf("unknown tracker mode %q", value)
	}
}

// DefaultBox returns the camera-space region mapped onto the monitor for a mode.
func DefaultBox(mode string) Box {
	if mode == ModeTopDown {
		return Box{MinX: 0.2, MaxX: 0.8, MinY: 0.2, MaxY: 0.8}
	}
	return Box{MinX: 0.1, MaxX: 0.9, MinY: 0.2, MaxY: 0.8}
}

// NewTracker returns a tracker for the given options.
func NewTracker(opts Options) (*Tracker, error) {
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	box := opts.Box
	if !box.Valid() {
		box = DefaultBox(mode)
	}

	threshold, size, beta := 12.0, 11, 0.1
	if mode == ModeTopDown {
		threshold, size, beta = 9, 9, 0.7
	}
	if opts.PinchThreshold > 0 {
		threshold = opts.PinchThreshold
	}
	if opts.PinchBuffer > 0 {
		size = opts.PinchBuffer
	}

	return &Tracker{
		mode:  mode,
		box:   box,
		pinch: NewPinchDetector(threshold, size, pinchTolerance),
		fx:    NewOneEuroFilter(cameraFPS, 0.001, beta, 1),
		fy:    NewOneEuroFilter(cameraFPS, 0.001, beta, 1),
		fxz:   NewOneEuroFilter(cameraFPS, 0.001, 0.1, 1),
		fyz:   NewOneEuroFilter(cameraFPS, 0.001, 0.1, 1),
	}, nil
}

// Mode returns the tracker mode.
func (t *Tracker) Mode() string {
	return t.mode
}

// SetBox replaces the camera-space region. Invalid boxes restore the mode default.
func (t *Tracker) SetBox(b Box) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !b.Valid() {
		b = DefaultBox(t.mode)
	}
	t.box = b
}

// Box returns the active camera-space region.
func (t *Tracker) Box() Box {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.box
}

// Update processes one frame captured at tsMillis and returns the pointer sample.
func (t *Tracker) Update(lms []Landmark, tsMillis float64) (Result, error) {
	if len(lms) < NumLandmarks {
		return Result{}, fmt.Errorf("%w: got %d", ErrTooFewLandmarks, len(lms))
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := tsMillis / 1000
	distance := PinchDistance(lms)
	pinch := t.pinch.Update(distance)

	var px, py float64
	if t.mode == ModeTopDown {
		tip := lms[ThumbTip]
		px = ConvertRange(1-tip.X, t.box.MinX, t.box.MaxX, 0, 1)
		py = ConvertRange(1-tip.Y, t.box.MinY, t.box.MaxY, 0, 1)
	} else {
		px, py = t.knucklePointer(lms, distance, pinch, ts)
	}

	return Result{
		X:        clamp01(t.fx.Filter(px, ts)),
		Y:        clamp01(t.fy.Filter(py, ts)),
		Pinch:    pinch,
		Distance: distance,
	}, nil
}

// Reset clears filter and debounce history, e.g. after the hand leaves the frame.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pinch.Reset()
	t.fx.Reset()
	t.fy.Reset()
	t.fxz.Reset()
	t.fyz.Reset()
	t.prevXZ, t.prevYZ, t.settle = 0, 0, 0
}

// knucklePointer projects the middle-finger knuckle along the finger's
// pointing direction. The farther the hand is from the camera, the more the
// angle contributes. Angles freeze while a pinch is forming and for a few
// frames after it, so closing the fingers does not drag the cursor.
func (t *Tracker) knucklePointer(lms []Landmark, distance float64, pinch bool, ts float64) (float64, float64) {
	mcp := lms[MiddleMCP]
	pip := lms[MiddlePIP]

	span := Distance(pip, mcp)
	depth := 1 - ConvertRange(span, knuckleSpanMin, knuckleSpanMax, 0, 1)

	dz := mcp.Z - pip.Z
	xz, yz := t.prevXZ, t.prevYZ
	if dz != 0 {
		xz = t.fxz.Filter((mcp.X-pip.X)/dz, ts)
		yz = t.fyz.Filter((mcp.Y-pip.Y)/dz, ts)
	}

	switch {
	case distance < t.pinch.Threshold()+pinchNearMargin && !pinch:
		xz, yz = t.prevXZ, t.prevYZ
		t.settle = pinchSettleFrame
	case t.settle > 0:
		t.settle--
		xz, yz = t.prevXZ, t.prevYZ
	default:
		if math.Abs(xz-t.prevXZ) > angleThreshold {
			t.prevXZ = xz
		}
		if math.Abs(yz-t.prevYZ) > angleThreshold {
			t.prevYZ = yz
		}
		xz, yz = t.prevXZ, t.prevYZ
	}

	px := ConvertRange(1-mcp.X+depth*xz*angleFactor, t.box.MinX, t.box.MaxX, 0, 1)
	py := ConvertRange(mcp.Y-depth*yz*angleFactor-axisYOffset, t.box.MinY, t.box.MaxY, 0, 1)
	return px, py
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
