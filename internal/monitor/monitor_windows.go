//go:build windows

// Package monitor describes display geometry and enumeration.
package monitor

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// ListMonitors enumerates attached displays in virtual-desktop coordinates.
// Indexes are 1-based in enumeration order. A session without any display
// (service or RDP-less host) reports ErrUnsupported so callers fall back to
// the configured extent.
func ListMonitors() ([]Monitor, error) {
	var found []Monitor
	callback := syscall.NewCallback(func(hMonitor win.HMONITOR, _ win.HDC, _ *win.RECT, _ uintptr) uintptr {
		var info win.MONITORINFO
		info.CbSize = uint32(unsafe.Sizeof(info))
		if !win.GetMonitorInfo(hMonitor, &info) {
			return 1
		}
		r := info.RcMonitor
		found = append(found, FromBounds(
			len(found)+1,
			int(r.Left), int(r.Top), int(r.Right), int(r.Bottom),
			info.DwFlags&win.MONITORINFOF_PRIMARY != 0,
		))
		return 1
	})

	if !win.EnumDisplayMonitors(0, nil, callback, 0) {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: code %d", win.GetLastError())
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: no displays attached", ErrUnsupported)
	}
	return found, nil
}
