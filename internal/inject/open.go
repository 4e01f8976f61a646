// Package inject synthesizes OS-level mouse input.
package inject

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

// Options selects and configures an injector backend.
type Options struct {
	Backend  string
	Screen   Screen
	Attempts uint
	Delay    time.Duration
	Logger   zerolog.Logger
}

// nativeFactory builds the platform injector; tests replace it.
var nativeFactory = NewNative

// Open constructs the configured injector. Native backends are retried because
// the display server may still be starting when the host comes up.
// ErrUnsupported is never retried.
func Open(ctx context.Context, opts Options) (Injector, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendLog:
		return NewLogInjector(opts.Logger), nil
	case "", BackendAuto:
	default:
		return nil, fmt.Errorf("unknown injector backend %q", opts.Backend)
	}

	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 1
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var inj Injector
	err := retry.Do(
		func() error {
			var err error
			inj, err = nativeFactory(opts.Screen)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrUnsupported)
		}),
		retry.OnRetry(func(n uint, err error) {
			opts.Logger.Warn().Err(err).Uint("attempt", n+1).Msg("injector init failed, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("open injector after %d attempts: %w", attempts, err)
	}
	return inj, nil
}
