// Package control decodes pointer commands and applies them to the dispatcher.
package control

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/frudas24/pinchpoint/internal/hand"
	"github.com/frudas24/pinchpoint/internal/monitor"
	"github.com/frudas24/pinchpoint/internal/pointer"
	"github.com/frudas24/pinchpoint/internal/session"
	"github.com/rs/zerolog"
)

// MonitorProvider returns the current list of monitors.
type MonitorProvider func() ([]monitor.Monitor, error)

// Handler applies control messages to the shared dispatcher. Every transport
// feeds the same Handler, so hand tracking state is continuous across them.
type Handler struct {
	mu           sync.Mutex
	session      *session.Session
	pointer      *pointer.State
	tracker      *hand.Tracker
	listMonitors MonitorProvider
	logger       zerolog.Logger
}

// NewHandler returns a handler wired to the dispatcher and session.
func NewHandler(sess *session.Session, ptr *pointer.State, tracker *hand.Tracker, listMonitors MonitorProvider, logger zerolog.Logger) *Handler {
	return &Handler{
		session:      sess,
		pointer:      ptr,
		tracker:      tracker,
		listMonitors: listMonitors,
		logger:       logger,
	}
}

// Handle applies one message and returns the reply to send, if any.
// Injection failures are reported in the reply; the returned error is only
// set for malformed messages.
func (h *Handler) Handle(msg Message) (*Reply, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch msg.T {
	case TypeMouseAction:
		return h.handleMouseAction(msg)
	case TypePointer:
		return h.handlePointer(msg)
	case TypeHand:
		return h.handleHand(msg)
	case TypeInputEnabled:
		return h.handleInputEnabled(msg)
	case TypeSetMonitor:
		if msg.Idx > 0 {
			h.session.SetMonitor(msg.Idx)
		}
		return nil, nil
	case TypeRelease:
		return h.stateReply(0, 0, h.pointer.Release()), nil
	default:
		return nil, nil
	}
}

// HandleRaw decodes a JSON message, applies it, and encodes the reply.
// A nil slice means there is nothing to send.
func (h *Handler) HandleRaw(data []byte) ([]byte, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode control message: %w", err)
	}
	reply, err := h.Handle(msg)
	if err != nil || reply == nil {
		return nil, err
	}
	return json.Marshal(reply)
}

// Disconnect resets tracking and lifts a held button when a client goes away.
func (h *Handler) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tracker.Reset()
	if err := h.pointer.Release(); err != nil {
		h.logger.Warn().Err(err).Msg("release on disconnect failed")
	}
}

// handleMouseAction forwards absolute coordinates to the dispatcher as-is.
func (h *Handler) handleMouseAction(msg Message) (*Reply, error) {
	if !h.session.InputEnabled() {
		return nil, nil
	}
	x, err := toInt32(msg.X)
	if err != nil {
		return nil, err
	}
	y, err := toInt32(msg.Y)
	if err != nil {
		return nil, err
	}
	return h.apply(x, y, msg.Pinch), nil
}

// handlePointer maps normalized coordinates onto the selected monitor.
func (h *Handler) handlePointer(msg Message) (*Reply, error) {
	if !h.session.InputEnabled() {
		return nil, nil
	}
	m, err := h.selectedMonitor()
	if err != nil {
		return errorReply(err), nil
	}
	x, y := NormToAbs(msg.X, msg.Y, m)
	return h.apply(x, y, msg.Pinch), nil
}

// handleHand runs a landmark frame through the tracker. An empty frame means
// the hand left the camera: tracking resets and a held button is released.
func (h *Handler) handleHand(msg Message) (*Reply, error) {
	if !h.session.InputEnabled() {
		return nil, nil
	}
	if len(msg.Landmarks) == 0 {
		h.tracker.Reset()
		return h.stateReply(0, 0, h.pointer.Release()), nil
	}
	res, err := h.tracker.Update(msg.Landmarks, msg.TS)
	if err != nil {
		return nil, err
	}
	m, err := h.selectedMonitor()
	if err != nil {
		return errorReply(err), nil
	}
	x, y := NormToAbs(res.X, res.Y, m)
	return h.apply(x, y, res.Pinch), nil
}

// handleInputEnabled toggles the kill switch. Disabling releases the button
// so a drag cannot stay stuck while input is ignored.
func (h *Handler) handleInputEnabled(msg Message) (*Reply, error) {
	if msg.Enabled == nil {
		return nil, nil
	}
	h.session.SetInputEnabled(*msg.Enabled)
	if *msg.Enabled {
		return nil, nil
	}
	h.tracker.Reset()
	return h.stateReply(0, 0, h.pointer.Release()), nil
}

// apply calls the dispatcher and builds the reply.
func (h *Handler) apply(x, y int32, pinch bool) *Reply {
	err := h.pointer.HandleMouseAction(x, y, pinch)
	if err != nil {
		h.logger.Warn().Err(err).Int32("x", x).Int32("y", y).Bool("pinch", pinch).Msg("mouse action failed")
	}
	return h.stateReply(x, y, err)
}

// stateReply reports the button state, or err if set.
func (h *Handler) stateReply(x, y int32, err error) *Reply {
	if err != nil {
		reply := errorReply(err)
		reply.Down = h.pointer.ButtonDown()
		return reply
	}
	return &Reply{T: ReplyState, X: x, Y: y, Down: h.pointer.ButtonDown()}
}

// selectedMonitor resolves the session's monitor index.
func (h *Handler) selectedMonitor() (monitor.Monitor, error) {
	monitors, err := h.listMonitors()
	if err != nil {
		return monitor.Monitor{}, err
	}
	idx := h.session.Monitor()
	m, ok := monitor.GetMonitorByIndex(monitors, idx)
	if !ok {
		return monitor.Monitor{}, fmt.Errorf("monitor %d not found", idx)
	}
	return m, nil
}

// errorReply wraps err for the client.
func errorReply(err error) *Reply {
	return &Reply{T: ReplyError, Error: err.Error()}
}
