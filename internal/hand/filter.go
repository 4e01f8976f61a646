// Package hand turns hand-landmark frames into pointer positions and pinch state.
package hand

import "math"

// lowPass is a first-order exponential smoother.
type lowPass struct {
	init bool
	raw  float64
	s    float64
}

func (l *lowPass) filter(x, alpha float64) float64 {
	if !l.init {
		l.init = true
		l.s = x
	} else {
		l.s = alpha*x + (1-alpha)*l.s
	}
	l.raw = x
	return l.s
}

// OneEuroFilter is the adaptive low-pass filter of Casiez et al. Lower
// minCutoff reduces jitter; higher beta reduces lag on fast motion.
type OneEuroFilter struct {
	freq      float64
	minCutoff float64
	beta      float64
	dCutoff   float64
	x         lowPass
	dx        lowPass
	lastTime  float64
	hasTime   bool
}

// NewOneEuroFilter returns a filter with an initial sampling frequency in Hz.
func NewOneEuroFilter(freq, minCutoff, beta, dCutoff float64) *OneEuroFilter {
	return &OneEuroFilter{freq: freq, minCutoff: minCutoff, beta: beta, dCutoff: dCutoff}
}

// alpha returns the smoothing factor for a cutoff frequency.
func (f *OneEuroFilter) alpha(cutoff float64) float64 {
	te := 1 / f.freq
	tau := 1 / (2 * math.Pi * cutoff)
	return 1 / (1 + tau/te)
}

// Filter smooths x sampled at ts seconds. A non-increasing ts keeps the
// previous frequency estimate.
func (f *OneEuroFilter) Filter(x, ts float64) float64 {
	if f.hasTime && ts > f.lastTime {
		f.freq = 1 / (ts - f.lastTime)
	}
	f.lastTime = ts
	f.hasTime = true

	dx := 0.0
	if f.x.init {
		dx = (x - f.x.raw) * f.freq
	}
	edx := f.dx.filter(dx, f.alpha(f.dCutoff))
	cutoff := f.minCutoff + f.beta*math.Abs(edx)
	return f.x.filter(x, f.alpha(cutoff))
}

// Reset forgets all filter history.
func (f *OneEuroFilter) Reset() {
	f.x = lowPass{}
	f.dx = lowPass{}
	f.hasTime = false
}
