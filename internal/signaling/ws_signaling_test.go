package signaling

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/pinchpoint/internal/control"
	"github.com/frudas24/pinchpoint/internal/hand"
	"github.com/frudas24/pinchpoint/internal/monitor"
	"github.com/frudas24/pinchpoint/internal/pointer"
	"github.com/frudas24/pinchpoint/internal/session"
	"github.com/frudas24/pinchpoint/internal/testutil"
	rtc "github.com/frudas24/pinchpoint/internal/webrtc"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// newTestServer returns a signaling server over a fake injector.
func newTestServer(t *testing.T, sess *session.Session, policy ViewerPolicy) (*httptest.Server, *Server) {
	t.Helper()
	peers, err := rtc.NewPeerFactory(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPeerFactory failed: %v", err)
	}
	tracker, err := hand.NewTracker(hand.Options{})
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	ptr := pointer.New(&testutil.FakeInjector{})
	list := func() ([]monitor.Monitor, error) { return monitor.Fallback(800, 600), nil }
	h := control.NewHandler(sess, ptr, tracker, list, zerolog.Nop())
	ss := NewServer(peers, h, sess, policy, zerolog.Nop())
	srv := httptest.NewServer(ss)
	t.Cleanup(srv.Close)
	return srv, ss
}

// waitActive blocks until the server has registered a client.
func waitActive(t *testing.T, ss *Server, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ss.Active() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected Active() == %v", want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// dial opens a signaling websocket.
func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// TestServer_Unauthorized verifies the auth gate.
func TestServer_Unauthorized(t *testing.T) {
	srv, _ := newTestServer(t, session.New("pw"), ViewerReject)
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

// TestServer_RejectPolicy verifies a second client is refused under ViewerReject.
func TestServer_RejectPolicy(t *testing.T) {
	srv, _ := newTestServer(t, session.NewOpen(), ViewerReject)
	first := dial(t, srv)
	// An ice message without a candidate is a no-op round through the loop.
	if err := first.WriteJSON(Message{T: TypeICE}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	second := dial(t, srv)
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := second.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

// TestServer_ReplacePolicy verifies a new client displaces the old one.
func TestServer_ReplacePolicy(t *testing.T) {
	srv, _ := newTestServer(t, session.NewOpen(), ViewerReplace)
	first := dial(t, srv)
	time.Sleep(50 * time.Millisecond)
	_ = dial(t, srv)

	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatalf("expected first connection to be closed")
	}
}

// TestServer_EmptyOfferCloses verifies a malformed offer ends the session.
func TestServer_EmptyOfferCloses(t *testing.T) {
	srv, _ := newTestServer(t, session.NewOpen(), ViewerReject)
	conn := dial(t, srv)
	if err := conn.WriteJSON(Message{T: TypeOffer}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected connection to close after empty offer")
	}
}

// TestServer_RejectsCrossOrigin verifies browsers on another origin cannot upgrade.
func TestServer_RejectsCrossOrigin(t *testing.T) {
	srv, _ := newTestServer(t, session.NewOpen(), ViewerReject)
	header := http.Header{"Origin": {"http://elsewhere.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	if err == nil {
		_ = conn.Close()
		t.Fatalf("expected cross-origin upgrade to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}
}

// TestServer_NotifyRestart verifies the active client is told to renegotiate.
func TestServer_NotifyRestart(t *testing.T) {
	srv, ss := newTestServer(t, session.NewOpen(), ViewerReject)
	conn := dial(t, srv)
	waitActive(t, ss, true)

	ss.NotifyRestart()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.T != TypeRestart {
		t.Fatalf("expected restart message, got %+v", msg)
	}
}

// TestServer_Close verifies Close drops the client and refuses new ones.
func TestServer_Close(t *testing.T) {
	srv, ss := newTestServer(t, session.NewOpen(), ViewerReplace)
	first := dial(t, srv)
	waitActive(t, ss, true)

	if err := ss.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if ss.Active() {
		t.Fatalf("expected no active client after Close")
	}
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatalf("expected client connection to be closed")
	}

	late := dial(t, srv)
	_ = late.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := late.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close after Close, got %v", err)
	}
}
