//go:build darwin

// Package monitor describes display geometry and enumeration.
package monitor

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// ListMonitors reports the main display. robotgo only exposes the main
// display size, so secondary displays are not enumerated.
func ListMonitors() ([]Monitor, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("main display size unavailable (%dx%d)", w, h)
	}
	return []Monitor{{Index: 1, W: w, H: h, Primary: true}}, nil
}
