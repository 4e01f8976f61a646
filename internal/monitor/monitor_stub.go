//go:build !windows && !darwin

// Package monitor describes display geometry and enumeration.
package monitor

// ListMonitors returns ErrUnsupported; callers fall back to a configured screen.
func ListMonitors() ([]Monitor, error) {
	return nil, ErrUnsupported
}
