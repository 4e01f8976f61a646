// Package control decodes pointer commands and applies them to the dispatcher.
package control

import "github.com/frudas24/pinchpoint/internal/hand"

// Message types accepted on the control channel.
const (
	TypeMouseAction  = "mouse_action"
	TypePointer      = "pointer"
	TypeHand         = "hand"
	TypeInputEnabled = "inputEnabled"
	TypeSetMonitor   = "setMonitor"
	TypeRelease      = "release"
)

// Reply types sent back to the client.
const (
	ReplyState = "state"
	ReplyError = "error"
)

// Message is a control channel payload. X and Y are absolute pixels for
// mouse_action and normalized [0..1] monitor coordinates for pointer.
type Message struct {
	T         string          `json:"t"`
	X         float64         `json:"x,omitempty"`
	Y         float64         `json:"y,omitempty"`
	Pinch     bool            `json:"pinch,omitempty"`
	Landmarks []hand.Landmark `json:"landmarks,omitempty"`
	TS        float64         `json:"ts,omitempty"`
	Idx       int             `json:"idx,omitempty"`
	Enabled   *bool           `json:"enabled,omitempty"`
}

// Reply reports the dispatcher state after a command, or an error.
type Reply struct {
	T     string `json:"t"`
	X     int32  `json:"x"`
	Y     int32  `json:"y"`
	Down  bool   `json:"down"`
	Error string `json:"error,omitempty"`
}
