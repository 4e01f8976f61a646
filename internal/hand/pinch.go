// Package hand turns hand-landmark frames into pointer positions and pinch state.
package hand

// PinchDetector debounces raw pinch decisions with a majority vote over the
// most recent samples.
type PinchDetector struct {
	threshold float64
	tolerance float64
	buf       []bool
	next      int
	full      bool
}

// NewPinchDetector returns a detector. A pinch is raw-positive when the
// distance is at most threshold; once size samples are buffered the result is
// positive when at least tolerance*size of them are.
func NewPinchDetector(threshold float64, size int, tolerance float64) *PinchDetector {
	if size < 1 {
		size = 1
	}
	return &PinchDetector{
		threshold: threshold,
		tolerance: tolerance,
		buf:       make([]bool, size),
	}
}

// Threshold returns the raw pinch distance threshold.
func (p *PinchDetector) Threshold() float64 {
	return p.threshold
}

// Update records one distance sample and returns the debounced pinch state.
// The first size samples return the raw decision; voting starts with the
// sample that displaces the oldest entry.
func (p *PinchDetector) Update(distance float64) bool {
	raw := distance <= p.threshold
	voting := p.full
	p.buf[p.next] = raw
	p.next = (p.next + 1) % len(p.buf)
	if p.next == 0 {
		p.full = true
	}
	if !voting {
		return raw
	}
	count := 0
	for _, v := range p.buf {
		if v {
			count++
		}
	}
	return float64(count) >= p.tolerance*float64(len(p.buf))
}

// Reset clears buffered samples.
func (p *PinchDetector) Reset() {
	for i := range p.buf {
		p.buf[i] = false
	}
	p.next = 0
	p.full = false
}
