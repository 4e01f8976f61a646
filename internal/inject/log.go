// Package inject synthesizes OS-level mouse input.
package inject

import (
	"sync"

	"github.com/rs/zerolog"
)

// LogInjector records mouse operations to a logger without touching the OS.
type LogInjector struct {
	mu     sync.Mutex
	logger zerolog.Logger
	x      int
	y      int
	down   bool
}

// NewLogInjector returns an injector that only logs.
func NewLogInjector(logger zerolog.Logger) *LogInjector {
	return &LogInjector{logger: logger.With().Str("injector", BackendLog).Logger()}
}

// MoveAbs logs an absolute move.
func (l *LogInjector) MoveAbs(x, y int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.x, l.y = x, y
	l.logger.Debug().Int("x", x).Int("y", y).Msg("move")
	return nil
}

// LeftDown logs a left button press.
func (l *LogInjector) LeftDown() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.down = true
	l.logger.Info().Int("x", l.x).Int("y", l.y).Msg("left down")
	return nil
}

// LeftUp logs a left button release.
func (l *LogInjector) LeftUp() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.down = false
	l.logger.Info().Int("x", l.x).Int("y", l.y).Msg("left up")
	return nil
}

// Close is a no-op.
func (l *LogInjector) Close() error {
	return nil
}

// Position returns the last position and button state seen.
func (l *LogInjector) Position() (x, y int, down bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.x, l.y, l.down
}
