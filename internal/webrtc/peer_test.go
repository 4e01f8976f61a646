package webrtc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
)

// TestPeerFactory_ReplacesPeer verifies a new peer closes the previous one.
func TestPeerFactory_ReplacesPeer(t *testing.T) {
	f, err := NewPeerFactory(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPeerFactory failed: %v", err)
	}
	first, err := f.NewPeer()
	if err != nil {
		t.Fatalf("NewPeer failed: %v", err)
	}
	second, err := f.NewPeer()
	if err != nil {
		t.Fatalf("NewPeer failed: %v", err)
	}
	if first.SignalingState() != webrtc.SignalingStateClosed {
		t.Fatalf("expected first peer closed, got %s", first.SignalingState())
	}
	if err := f.ClosePeer(); err != nil {
		t.Fatalf("ClosePeer failed: %v", err)
	}
	if second.SignalingState() != webrtc.SignalingStateClosed {
		t.Fatalf("expected second peer closed, got %s", second.SignalingState())
	}
	if err := f.ClosePeer(); err != nil {
		t.Fatalf("expected idempotent ClosePeer, got %v", err)
	}
}

// TestLoggerFactory_Scope verifies pion logs carry their scope.
func TestLoggerFactory_Scope(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerFactory(zerolog.New(&buf)).NewLogger("ice")
	logger.Warnf("candidate %d failed", 3)
	out := buf.String()
	if !strings.Contains(out, `"pion":"ice"`) || !strings.Contains(out, "candidate 3 failed") {
		t.Fatalf("unexpected log output %q", out)
	}
}
