// Package main starts the PinchPoint server.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/frudas24/pinchpoint/internal/config"
	"github.com/frudas24/pinchpoint/internal/pointer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// replayEvent is one recorded mouse_action.
type replayEvent struct {
	X     int32 `json:"x"`
	Y     int32 `json:"y"`
	Pinch bool  `json:"pinch"`
}

// newReplayCmd returns the replay command.
func newReplayCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Feed recorded {x, y, pinch} JSON lines through the dispatcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0], interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 16*time.Millisecond, "Delay between events")
	return cmd
}

// runReplay opens the injector and replays path through a fresh dispatcher.
func runReplay(ctx context.Context, path string, interval time.Duration) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	injector, err := openInjector(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, injector.Close())
	}()

	logger := componentLogger("replay")
	n, err := replay(ctx, f, pointer.New(injector), interval, logger)
	logger.Info().Int("events", n).Str("file", path).Msg("replay finished")
	return err
}

// replay applies each line of r to ptr and releases the button at the end.
// Blank lines and lines starting with # are skipped. Injection failures are
// logged and replay continues; malformed lines stop it.
func replay(ctx context.Context, r io.Reader, ptr *pointer.State, interval time.Duration, logger zerolog.Logger) (n int, err error) {
	defer func() {
		err = multierr.Append(err, ptr.Release())
	}()

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var ev replayEvent
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if n > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-time.After(interval):
			}
		}
		if err := ptr.HandleMouseAction(ev.X, ev.Y, ev.Pinch); err != nil {
			logger.Warn().Err(err).Int("line", line).Msg("replay event failed")
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("read replay: %w", err)
	}
	return n, nil
}
