// Package session holds runtime state for the active operator.
package session

import (
	"crypto/subtle"
	"sync"

	"github.com/frudas24/pinchpoint/internal/calib"
)

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated bool
	InputEnabled  bool
	MonitorIndex  int
	Calib         calib.Calib
}

// Session holds runtime state for the active operator.
type Session struct {
	mu            sync.RWMutex
	password      string
	open          bool
	authenticated bool
	inputEnabled  bool
	monitorIndex  int
	calib         calib.Calib
}

// New returns a password-protected session with input enabled.
func New(password string) *Session {
	return &Session{
		password:     password,
		inputEnabled: true,
		monitorIndex: 1,
	}
}

// NewOpen returns a session that treats every request as authenticated.
func NewOpen() *Session {
	s := New("")
	s.open = true
	return s
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return true
	}
	if pass != "" && subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) == 1 {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open || s.authenticated
}

// SetInputEnabled toggles whether pointer input is forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether pointer input is forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetMonitor sets the selected monitor index.
func (s *Session) SetMonitor(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorIndex = idx
}

// Monitor returns the selected monitor index.
func (s *Session) Monitor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monitorIndex
}

// SetCalib stores calibration data.
func (s *Session) SetCalib(c calib.Calib) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calib = c
}

// GetCalib returns the current calibration data.
func (s *Session) GetCalib() calib.Calib {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calib
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated: s.open || s.authenticated,
		InputEnabled:  s.inputEnabled,
		MonitorIndex:  s.monitorIndex,
		Calib:         s.calib,
	}
}
