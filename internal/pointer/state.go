// Package pointer tracks the simulated left button across cursor updates.
package pointer

import (
	"fmt"
	"sync"

	"github.com/frudas24/pinchpoint/internal/inject"
)

// State owns the injector and the held-button flag. The host constructs one
// per process and shares it between every inbound transport.
//
// Lock order is flagMu then injMu, and every method holds both for its full
// duration, so calls are serialized.
type State struct {
	flagMu     sync.Mutex
	buttonDown bool

	injMu    sync.Mutex
	injector inject.Injector
}

// New returns a dispatcher in the ButtonUp state.
func New(injector inject.Injector) *State {
	return &State{injector: injector}
}

// HandleMouseAction moves the cursor to (x, y) and brings the left button to
// the state requested by pinch. Coordinates are forwarded unvalidated.
//
// The held flag only changes after the matching button event succeeds, so a
// failed call leaves the previous state intact and the next call retries the
// transition.
func (s *State) HandleMouseAction(x, y int32, pinch bool) error {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	s.injMu.Lock()
	defer s.injMu.Unlock()

	if err := s.injector.MoveAbs(int(x), int(y)); err != nil {
		return fmt.Errorf("move to (%d,%d): %w", x, y, err)
	}

	switch {
	case pinch && !s.buttonDown:
		if err := s.injector.LeftDown(); err != nil {
			return fmt.Errorf("left down: %w", err)
		}
		s.buttonDown = true
	case !pinch && s.buttonDown:
		if err := s.injector.LeftUp(); err != nil {
			return fmt.Errorf("left up: %w", err)
		}
		s.buttonDown = false
	}
	return nil
}

// Release lifts a held button without moving the cursor. It is a no-op in
// the ButtonUp state.
func (s *State) Release() error {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	s.injMu.Lock()
	defer s.injMu.Unlock()

	if !s.buttonDown {
		return nil
	}
	if err := s.injector.LeftUp(); err != nil {
		return fmt.Errorf("left up: %w", err)
	}
	s.buttonDown = false
	return nil
}

// ButtonDown reports whether the left button is currently held.
func (s *State) ButtonDown() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.buttonDown
}
