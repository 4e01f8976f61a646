// Package main starts the PinchPoint server.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/frudas24/pinchpoint/internal/app"
	"github.com/frudas24/pinchpoint/internal/config"
	"github.com/frudas24/pinchpoint/internal/hand"
	"github.com/frudas24/pinchpoint/internal/inject"
	"github.com/frudas24/pinchpoint/internal/session"
	"github.com/frudas24/pinchpoint/internal/webrtc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
)

// runServe wires the application and blocks until shutdown.
func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logStartup(cfg)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	sess := session.New(cfg.UIPassword)
	if !cfg.PasswordMode {
		sess = session.NewOpen()
	}

	injector, err := openInjector(ctx, cfg)
	if err != nil {
		return err
	}

	tracker, err := hand.NewTracker(hand.Options{
		Mode:           cfg.TrackerMode,
		PinchThreshold: cfg.PinchThreshold,
		PinchBuffer:    cfg.PinchBuffer,
	})
	if err != nil {
		return multierr.Append(err, injector.Close())
	}

	peers, err := webrtc.NewPeerFactory(componentLogger("pion"))
	if err != nil {
		return multierr.Append(err, injector.Close())
	}

	appInstance, err := app.New(cfg, sess, injector, tracker, peers, log.Logger)
	if err != nil {
		return multierr.Append(err, injector.Close())
	}
	if err := appInstance.Start(); err != nil {
		return multierr.Append(err, appInstance.Stop())
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           appInstance.Handler(""),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return multierr.Combine(
		serveErr,
		server.Shutdown(shutdownCtx),
		appInstance.Stop(),
	)
}

// openInjector opens the configured injector backend with retries.
func openInjector(ctx context.Context, cfg config.Config) (inject.Injector, error) {
	return inject.Open(ctx, inject.Options{
		Backend:  cfg.Injector,
		Screen:   inject.Screen{Width: cfg.ScreenWidth, Height: cfg.ScreenHeight},
		Attempts: cfg.InjectorRetries,
		Logger:   componentLogger("inject"),
	})
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Info().Msg("PinchPoint starting")
	logEnvStatus(cfg)
	log.Info().
		Str("injector", cfg.Injector).
		Str("tracker", cfg.TrackerMode).
		Int("monitor", cfg.MonitorIndex).
		Msg("input check")
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found and required values are set.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	envLog := log.Info().Str("path", envPath)
	if fileExists(envPath) {
		envLog.Msg("env check: ok")
	} else {
		envLog.Msg("env check: missing")
	}
	if !cfg.PasswordMode {
		log.Warn().Msg("env PASSWORD_MODE: disabled (dev mode)")
		return
	}
	if strings.TrimSpace(cfg.UIPassword) == "" {
		log.Warn().Msg("env UI_PASSWORD: missing")
	} else {
		log.Info().Msg("env UI_PASSWORD: set")
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Info().Str("addr", addr).Msg("listen addr")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Info().Str("url", "http://"+net.JoinHostPort(host, port)).Msg("local url")
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// componentLogger returns the global logger tagged with a component name.
func componentLogger(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
