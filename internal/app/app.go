// Package app wires HTTP, signaling, and dispatcher state together.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/frudas24/pinchpoint/internal/calib"
	"github.com/frudas24/pinchpoint/internal/config"
	"github.com/frudas24/pinchpoint/internal/control"
	"github.com/frudas24/pinchpoint/internal/hand"
	"github.com/frudas24/pinchpoint/internal/inject"
	"github.com/frudas24/pinchpoint/internal/monitor"
	"github.com/frudas24/pinchpoint/internal/pointer"
	"github.com/frudas24/pinchpoint/internal/session"
	"github.com/frudas24/pinchpoint/internal/signaling"
	"github.com/frudas24/pinchpoint/internal/webrtc"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// App coordinates the HTTP API, websocket servers, and the dispatcher.
type App struct {
	mu        sync.Mutex
	cfg       config.Config
	session   *session.Session
	injector  inject.Injector
	pointer   *pointer.State
	tracker   *hand.Tracker
	peers     *webrtc.PeerFactory
	handler   *control.Handler
	signaling *signaling.Server
	control   *control.Server
	logger    zerolog.Logger
	monitors  []monitor.Monitor
}

// New creates a new application with its dependencies wired. The app owns
// injector from here on and closes it in Stop.
func New(cfg config.Config, sess *session.Session, injector inject.Injector, tracker *hand.Tracker, peers *webrtc.PeerFactory, logger zerolog.Logger) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if injector == nil {
		return nil, errors.New("injector is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}
	if peers == nil {
		return nil, errors.New("peer factory is required")
	}
	policy, err := signaling.ParseViewerPolicy(cfg.ViewerPolicy)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		session:  sess,
		injector: injector,
		pointer:  pointer.New(injector),
		tracker:  tracker,
		peers:    peers,
		logger:   logger,
	}
	app.handler = control.NewHandler(sess, app.pointer, tracker, app.ListMonitors, logger.With().Str("component", "control").Logger())
	app.control = control.NewServer(sess, app.handler, logger.With().Str("component", "ws_control").Logger())
	app.signaling = signaling.NewServer(peers, app.handler, sess, policy, logger.With().Str("component", "signaling").Logger())
	return app, nil
}

// Start discovers monitors and restores the saved calibration.
func (a *App) Start() error {
	monitors, err := monitor.Discover(a.cfg.ScreenWidth, a.cfg.ScreenHeight)
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	a.mu.Lock()
	a.monitors = monitors
	a.mu.Unlock()

	c, err := calib.Load(a.cfg.CalibPath)
	if err != nil {
		return err
	}
	a.applyCalib(c)
	if c.MonitorIndex <= 0 {
		a.session.SetMonitor(a.cfg.MonitorIndex)
	}

	a.logger.Info().
		Int("monitors", len(monitors)).
		Int("monitor", a.session.Monitor()).
		Str("mode", a.tracker.Mode()).
		Msg("app started")
	return nil
}

// Stop drops websocket clients first so their disconnect release reaches a
// live injector, then releases any button and closes the peer and injector.
func (a *App) Stop() error {
	return multierr.Combine(
		a.control.Close(),
		a.signaling.Close(),
		a.pointer.Release(),
		a.peers.ClosePeer(),
		a.injector.Close(),
	)
}

// applyCalib pushes a calibration into the session and tracker.
func (a *App) applyCalib(c calib.Calib) {
	a.session.SetCalib(c)
	if c.MonitorIndex > 0 {
		a.session.SetMonitor(c.MonitorIndex)
	}
	a.tracker.SetBox(c.Box)
}

// ListMonitors returns the cached monitor list.
func (a *App) ListMonitors() ([]monitor.Monitor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]monitor.Monitor, len(a.monitors))
	copy(out, a.monitors)
	return out, nil
}

// Pointer returns the shared dispatcher.
func (a *App) Pointer() *pointer.State {
	return a.pointer
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}
