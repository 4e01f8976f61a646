// Package monitor describes display geometry and enumeration.
package monitor

import "errors"

// ErrUnsupported indicates display enumeration is not available on this platform.
var ErrUnsupported = errors.New("monitor enumeration is not supported on this platform")

// Monitor describes a display and its bounds.
type Monitor struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	Primary bool `json:"primary"`
}

// GetMonitorByIndex returns the monitor matching the 1-based index.
func GetMonitorByIndex(list []Monitor, idx int) (Monitor, bool) {
	for _, m := range list {
		if m.Index == idx {
			return m, true
		}
	}
	return Monitor{}, false
}

// FromBounds builds a monitor from edge coordinates. Inverted edges give a
// zero extent.
func FromBounds(index, left, top, right, bottom int, primary bool) Monitor {
	return Monitor{
		Index:   index,
		X:       left,
		Y:       top,
		W:       max(right-left, 0),
		H:       max(bottom-top, 0),
		Primary: primary,
	}
}

// listMonitors is the platform enumerator; tests replace it.
var listMonitors = ListMonitors

// Fallback returns a single primary monitor of the given size at the origin.
func Fallback(w, h int) []Monitor {
	return []Monitor{{Index: 1, W: w, H: h, Primary: true}}
}

// Discover lists monitors, substituting Fallback(w, h) when the platform
// cannot enumerate displays or reports none.
func Discover(w, h int) ([]Monitor, error) {
	list, err := listMonitors()
	if errors.Is(err, ErrUnsupported) {
		return Fallback(w, h), nil
	}
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return Fallback(w, h), nil
	}
	return list, nil
}
