//go:build linux

// Package inject synthesizes OS-level mouse input.
package inject

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/wayland-virtual-input-go/virtual_pointer"
	"go.uber.org/multierr"
)

// WaylandInjector drives a zwlr_virtual_pointer_v1 device on wlroots compositors.
type WaylandInjector struct {
	mu      sync.Mutex
	manager *virtual_pointer.VirtualPointerManager
	pointer *virtual_pointer.VirtualPointer
	screen  Screen
	closed  bool
}

// NewNative connects to the Wayland compositor and creates a virtual pointer.
func NewNative(screen Screen) (Injector, error) {
	if screen.Width <= 0 || screen.Height <= 0 {
		return nil, fmt.Errorf("wayland injector needs a screen extent, got %dx%d", screen.Width, screen.Height)
	}
	manager, err := virtual_pointer.NewVirtualPointerManager(context.Background())
	if err != nil {
		return nil, fmt.Errorf("create virtual pointer manager: %w", err)
	}
	pointer, err := manager.CreatePointer()
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("create virtual pointer: %w", err)
	}
	return &WaylandInjector{manager: manager, pointer: pointer, screen: screen}, nil
}

// MoveAbs moves the pointer to an absolute position within the screen extent.
func (w *WaylandInjector) MoveAbs(x, y int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errClosed
	}
	if err := w.pointer.MotionAbsolute(time.Now(), extentCoord(x), extentCoord(y), uint32(w.screen.Width), uint32(w.screen.Height)); err != nil {
		return fmt.Errorf("motion absolute: %w", err)
	}
	return w.pointer.Frame()
}

// LeftDown presses the left button.
func (w *WaylandInjector) LeftDown() error {
	return w.button(true)
}

// LeftUp releases the left button.
func (w *WaylandInjector) LeftUp() error {
	return w.button(false)
}

// button emits a left button state change followed by a frame.
func (w *WaylandInjector) button(pressed bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errClosed
	}
	if pressed {
		w.pointer.Button(time.Now(), virtual_pointer.BTN_LEFT, virtual_pointer.BUTTON_STATE_PRESSED)
	} else {
		w.pointer.Button(time.Now(), virtual_pointer.BTN_LEFT, virtual_pointer.BUTTON_STATE_RELEASED)
	}
	return w.pointer.Frame()
}

// Close destroys the virtual pointer and disconnects from the compositor.
func (w *WaylandInjector) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return multierr.Combine(w.pointer.Close(), w.manager.Close())
}

// extentCoord converts a signed coordinate into the protocol's unsigned range.
// The protocol cannot express positions left of or above the origin.
func extentCoord(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
