//go:build !windows && !linux && !darwin

// Package inject synthesizes OS-level mouse input.
package inject

// NoopInjector is a placeholder injector for platforms without a backend.
type NoopInjector struct{}

// NewNative returns a non-functional injector and ErrUnsupported.
func NewNative(Screen) (Injector, error) {
	return &NoopInjector{}, ErrUnsupported
}

// MoveAbs returns ErrUnsupported.
func (n *NoopInjector) MoveAbs(x, y int) error {
	_ = x
	_ = y
	return ErrUnsupported
}

// LeftDown returns ErrUnsupported.
func (n *NoopInjector) LeftDown() error {
	return ErrUnsupported
}

// LeftUp returns ErrUnsupported.
func (n *NoopInjector) LeftUp() error {
	return ErrUnsupported
}

// Close is a no-op.
func (n *NoopInjector) Close() error {
	return nil
}
