// Package app wires HTTP, signaling, and dispatcher state together.
package app

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/frudas24/pinchpoint/internal/calib"
	"github.com/frudas24/pinchpoint/internal/control"
	"github.com/frudas24/pinchpoint/internal/hand"
	"github.com/frudas24/pinchpoint/internal/web"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Handler returns the full HTTP surface wrapped in recovery and access logging.
func (a *App) Handler(staticDir string) http.Handler {
	router := mux.NewRouter()
	a.RegisterRoutes(router, staticDir)

	access := a.logger.With().Str("component", "http").Logger()
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{app: a}),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(handlers.CombinedLoggingHandler(access, router))
}

// RegisterRoutes wires API and static handlers onto the router.
func (a *App) RegisterRoutes(router *mux.Router, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	router.HandleFunc("/login", a.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/logout", a.handleLogout).Methods(http.MethodPost)
	router.HandleFunc("/api/monitors", a.handleMonitors).Methods(http.MethodGet)
	router.HandleFunc("/api/state", a.handleState).Methods(http.MethodGet)
	router.HandleFunc("/api/mouse_action", a.handleMouseAction).Methods(http.MethodPost)
	router.HandleFunc("/api/input", a.handleInput).Methods(http.MethodPost)
	router.HandleFunc("/api/calib", a.handleCalib).Methods(http.MethodPost)
	router.Handle("/ws/signal", a.Signaling())
	router.Handle("/ws/control", a.Control())
	router.HandleFunc("/favicon.ico", handleFavicon)

	router.PathPrefix("/").Handler(staticFileServer(staticDir, a))
}

type loginRequest struct {
	Password string `json:"password"`
}

type mouseActionRequest struct {
	X     int32 `json:"x"`
	Y     int32 `json:"y"`
	Pinch bool  `json:"pinch"`
}

type inputRequest struct {
	Enabled *bool `json:"enabled"`
}

type stateResponse struct {
	Authenticated bool        `json:"authenticated"`
	InputEnabled  bool        `json:"inputEnabled"`
	MonitorIndex  int         `json:"monitor"`
	ButtonDown    bool        `json:"buttonDown"`
	Mode          string      `json:"mode"`
	Calib         calib.Calib `json:"calib"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, _ *http.Request) {
	a.session.Logout()
	writeJSON(w, map[string]bool{"ok": true})
}

// handleMonitors returns the list of monitors.
func (a *App) handleMonitors(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	list, err := a.ListMonitors()
	if err != nil {
		http.Error(w, "failed to list monitors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// handleState returns current session and dispatcher state.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	writeJSON(w, a.state())
}

// handleMouseAction applies one absolute mouse_action. Coordinates are
// forwarded unclamped.
func (a *App) handleMouseAction(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	var req mouseActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.InputEnabled() {
		http.Error(w, "input disabled", http.StatusConflict)
		return
	}
	if err := a.pointer.HandleMouseAction(req.X, req.Y, req.Pinch); err != nil {
		a.logger.Warn().Err(err).Int32("x", req.X).Int32("y", req.Y).Bool("pinch", req.Pinch).Msg("mouse action failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInput toggles the input kill switch through the control handler so
// disabling releases a held button.
func (a *App) handleInput(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	reply, err := a.handler.Handle(control.Message{T: control.TypeInputEnabled, Enabled: req.Enabled})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if reply != nil && reply.T == control.ReplyError {
		http.Error(w, reply.Error, http.StatusInternalServerError)
		return
	}
	writeJSON(w, a.state())
}

// handleCalib stores the monitor and tracking box, then applies them.
func (a *App) handleCalib(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	var c calib.Calib
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	c.Box = calib.Normalize(c.Box)
	if !c.Box.Valid() {
		c.Box = hand.DefaultBox(a.tracker.Mode())
	}
	if err := calib.Save(a.cfg.CalibPath, c); err != nil {
		a.logger.Error().Err(err).Str("path", a.cfg.CalibPath).Msg("save calibration failed")
		http.Error(w, "failed to save calibration", http.StatusInternalServerError)
		return
	}
	a.applyCalib(c)
	writeJSON(w, c)
}

// state builds the state response.
func (a *App) state() stateResponse {
	snap := a.session.Snapshot()
	return stateResponse{
		Authenticated: snap.Authenticated,
		InputEnabled:  snap.InputEnabled,
		MonitorIndex:  snap.MonitorIndex,
		ButtonDown:    a.pointer.ButtonDown(),
		Mode:          a.tracker.Mode(),
		Calib:         snap.Calib,
	}
}

// requireAuth returns false and writes an error if the session is not authenticated.
func (a *App) requireAuth(w http.ResponseWriter) bool {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string, a *App) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		a.logger.Warn().Err(err).Msg("static assets unavailable")
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// recoveryLogger reports handler panics through the app logger.
type recoveryLogger struct {
	app *App
}

// Println implements handlers.RecoveryHandlerLogger.
func (l recoveryLogger) Println(v ...interface{}) {
	l.app.logger.Error().Interface("panic", v).Msg("http handler panic")
}
