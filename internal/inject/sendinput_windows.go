//go:build windows

// Package inject synthesizes OS-level mouse input.
package inject

import "github.com/lxn/win"

// WinInjector injects mouse input using WinAPI SendInput.
type WinInjector struct{}

// NewNative returns a Windows input injector. The screen is ignored because
// SendInput maps against the virtual desktop metrics.
func NewNative(Screen) (Injector, error) {
	return &WinInjector{}, nil
}

// Close is a no-op; SendInput holds no handles.
func (w *WinInjector) Close() error {
	return nil
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, &input, int32(win.SizeofINPUT)) != 1 {
		return lastError("SendInput")
	}
	return nil
}
