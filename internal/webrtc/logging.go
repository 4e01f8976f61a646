// Package webrtc builds the peer connections that carry the control DataChannel.
package webrtc

import (
	"fmt"

	"github.com/pion/logging"
	"github.com/rs/zerolog"
)

// LoggerFactory adapts zerolog to pion's leveled logger interface.
type LoggerFactory struct {
	logger zerolog.Logger
}

// NewLoggerFactory returns a pion logger factory writing to logger.
func NewLoggerFactory(logger zerolog.Logger) *LoggerFactory {
	return &LoggerFactory{logger: logger}
}

// NewLogger returns a logger tagged with the pion scope.
func (f *LoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &scopedLogger{logger: f.logger.With().Str("pion", scope).Logger()}
}

// scopedLogger forwards pion log calls to zerolog at the matching level.
type scopedLogger struct {
	logger zerolog.Logger
}

// Trace logs msg at trace level.
func (l *scopedLogger) Trace(msg string) { l.logger.Trace().Msg(msg) }

// Tracef logs a formatted message at trace level.
func (l *scopedLogger) Tracef(format string, args ...interface{}) {
	l.logger.Trace().Msg(fmt.Sprintf(format, args...))
}

// Debug logs msg at debug level.
func (l *scopedLogger) Debug(msg string) { l.logger.Debug().Msg(msg) }

// Debugf logs a formatted message at debug level.
func (l *scopedLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

// Info logs msg at info level.
func (l *scopedLogger) Info(msg string) { l.logger.Info().Msg(msg) }

// Infof logs a formatted message at info level.
func (l *scopedLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn logs msg at warn level.
func (l *scopedLogger) Warn(msg string) { l.logger.Warn().Msg(msg) }

// Warnf logs a formatted message at warn level.
func (l *scopedLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs msg at error level.
func (l *scopedLogger) Error(msg string) { l.logger.Error().Msg(msg) }

// Errorf logs a formatted message at error level.
func (l *scopedLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}
