//go:build darwin

// Package inject synthesizes OS-level mouse input.
package inject

import "github.com/go-vgo/robotgo"

// RobotInjector injects mouse input through robotgo's CoreGraphics bindings.
type RobotInjector struct{}

// NewNative returns a macOS injector. Accessibility permission is required
// for events to reach other applications.
func NewNative(Screen) (Injector, error) {
	return &RobotInjector{}, nil
}

// MoveAbs moves the cursor to an absolute screen coordinate.
func (r *RobotInjector) MoveAbs(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// LeftDown presses the left mouse button.
func (r *RobotInjector) LeftDown() error {
	return robotgo.Toggle("left")
}

// LeftUp releases the left mouse button.
func (r *RobotInjector) LeftUp() error {
	return robotgo.Toggle("left", "up")
}

// Close is a no-op.
func (r *RobotInjector) Close() error {
	return nil
}
