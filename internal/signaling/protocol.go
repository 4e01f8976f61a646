// Package signaling negotiates the control DataChannel over a websocket.
package signaling

import (
	"fmt"
	"strings"

	"github.com/pion/webrtc/v3"
)

// Signaling message types.
const (
	TypeOffer   = "offer"
	TypeAnswer  = "answer"
	TypeICE     = "ice"
	TypeRestart = "restart"
)

// Message is a websocket signaling payload.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
}

// ViewerPolicy controls how additional clients are handled.
type ViewerPolicy int

const (
	// ViewerReject rejects new connections when one is active.
	ViewerReject ViewerPolicy = iota
	// ViewerReplace closes the active connection when a new one arrives.
	ViewerReplace
)

// ParseViewerPolicy maps a config value to a policy.
func ParseViewerPolicy(value string) (ViewerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "replace":
		return ViewerReplace, nil
	case "reject":
		return ViewerReject, nil
	default:
		return ViewerReject, fmt.Errorf("unknown viewer policy %q", value)
	}
}
