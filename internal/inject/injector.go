// Package inject synthesizes OS-level mouse input.
package inject

import "errors"

// ErrUnsupported indicates no native injector exists for this platform.
var ErrUnsupported = errors.New("native input injection is not supported on this platform")

var errClosed = errors.New("injector closed")

// Injector defines the mouse operations used by the pointer dispatcher.
type Injector interface {
	MoveAbs(x, y int) error
	LeftDown() error
	LeftUp() error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendAuto = "auto"
	BackendLog  = "log"
)

// Screen is the logical extent used by backends that need explicit bounds
// for absolute motion.
type Screen struct {
	Width  int
	Height int
}
