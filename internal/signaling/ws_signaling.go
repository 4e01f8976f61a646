// Package signaling negotiates the control DataChannel over a websocket.
package signaling

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/pinchpoint/internal/control"
	"github.com/frudas24/pinchpoint/internal/session"
	rtc "github.com/frudas24/pinchpoint/internal/webrtc"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

var (
	// errClientActive is returned under ViewerReject when a client is connected.
	errClientActive = errors.New("client already connected")
	// errServerClosed is returned once Close has run.
	errServerClosed = errors.New("signaling server closed")
)

// Server handles WebRTC signaling over WebSocket and bridges the control
// DataChannel to the control handler.
type Server struct {
	mu       sync.Mutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	peers    *rtc.PeerFactory
	handler  *control.Handler
	session  *session.Session
	policy   ViewerPolicy
	logger   zerolog.Logger
	conn     *websocket.Conn
	peer     *webrtc.PeerConnection
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a signaling server with the chosen viewer policy.
func NewServer(peers *rtc.PeerFactory, handler *control.Handler, sess *session.Session, policy ViewerPolicy, logger zerolog.Logger) *Server {
	return &Server{
		peers:   peers,
		handler: handler,
		session: sess,
		policy:  policy,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the request and starts the signaling loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if err := s.acceptConn(conn); err != nil {
		s.rejectConn(conn, err.Error())
		return
	}
	defer s.cleanupConn(conn)

	peer, err := s.peers.NewPeer()
	if err != nil {
		s.logger.Error().Err(err).Msg("create peer failed")
		return
	}
	if err := s.attachPeer(conn, peer); err != nil {
		_ = peer.Close()
		return
	}

	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		candidate := c.ToJSON()
		_ = s.sendTo(conn, Message{T: TypeICE, Candidate: &candidate})
	})
	peer.OnDataChannel(s.bindDataChannel)
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		s.logger.Debug().Str("state", state.String()).Msg("peer state changed")
		if state == webrtc.PeerConnectionStateFailed {
			s.handler.Disconnect()
			s.NotifyRestart()
		}
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(conn, peer, msg); err != nil {
			s.logger.Warn().Err(err).Str("type", msg.T).Msg("signaling message failed")
			return
		}
	}
}

// NotifyRestart asks the active client to renegotiate. It runs when the
// peer connection fails.
func (s *Server) NotifyRestart() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	_ = s.sendTo(conn, Message{T: TypeRestart})
}

// bindDataChannel routes control channel messages to the handler and sends
// replies back on the same channel.
func (s *Server) bindDataChannel(dc *webrtc.DataChannel) {
	if dc.Label() != rtc.ControlLabel {
		s.logger.Debug().Str("label", dc.Label()).Msg("ignoring data channel")
		return
	}
	dc.OnOpen(func() {
		s.logger.Info().Msg("control data channel open")
	})
	dc.OnMessage(func(m webrtc.DataChannelMessage) {
		out, err := s.handler.HandleRaw(m.Data)
		if err != nil {
			out, _ = json.Marshal(control.Reply{T: control.ReplyError, Error: err.Error()})
		}
		if out == nil {
			return
		}
		if err := dc.SendText(string(out)); err != nil {
			s.logger.Debug().Err(err).Msg("data channel send failed")
		}
	})
	dc.OnClose(func() {
		s.handler.Disconnect()
		s.logger.Info().Msg("control data channel closed")
	})
}

// Active reports whether a signaling client is connected.
func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close drops the active client and its peer, then waits for the button
// release. Later upgrades are refused.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	conn, peer := s.conn, s.peer
	s.mu.Unlock()
	var err error
	if peer != nil {
		err = multierr.Append(err, peer.Close())
	}
	if conn != nil {
		if cerr := conn.Close(); !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	s.wg.Wait()
	return err
}

// acceptConn registers a new websocket connection or returns an error.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errServerClosed
	}
	if s.conn != nil {
		switch s.policy {
		case ViewerReplace:
			if s.peer != nil {
				_ = s.peer.Close()
			}
			_ = s.conn.Close()
			s.conn = nil
			s.peer = nil
		default:
			return errClientActive
		}
	}
	s.conn = conn
	s.wg.Add(1)
	return nil
}

// rejectConn sends a policy violation close and closes the socket.
func (s *Server) rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(1*time.Second))
	_ = conn.Close()
}

// attachPeer stores the peer connection when the websocket is still active.
func (s *Server) attachPeer(conn *websocket.Conn, peer *webrtc.PeerConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn {
		return fmt.Errorf("connection no longer active")
	}
	s.peer = peer
	return nil
}

// cleanupConn clears state if the connection is still the active one.
// A held button is released either way.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		if s.peer != nil {
			_ = s.peer.Close()
			s.peer = nil
		}
	}
	s.mu.Unlock()
	_ = conn.Close()
	s.handler.Disconnect()
	s.wg.Done()
}

// handleMessage dispatches signaling messages.
func (s *Server) handleMessage(conn *websocket.Conn, peer *webrtc.PeerConnection, msg Message) error {
	switch msg.T {
	case TypeOffer:
		return s.handleOffer(conn, peer, msg.SDP)
	case TypeICE:
		return s.handleICE(peer, msg.Candidate)
	default:
		return nil
	}
}

// handleOffer processes an SDP offer and replies with an answer.
func (s *Server) handleOffer(conn *websocket.Conn, peer *webrtc.PeerConnection, sdp string) error {
	if sdp == "" {
		return fmt.Errorf("empty offer")
	}
	if err := peer.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  sdp,
	}); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	answer, err := peer.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	gatherComplete := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	<-gatherComplete
	local := peer.LocalDescription()
	if local == nil {
		return fmt.Errorf("missing local description")
	}
	return s.sendTo(conn, Message{T: TypeAnswer, SDP: local.SDP})
}

// handleICE adds a remote ICE candidate.
func (s *Server) handleICE(peer *webrtc.PeerConnection, candidate *webrtc.ICECandidateInit) error {
	if candidate == nil {
		return nil
	}
	return peer.AddICECandidate(*candidate)
}

// sendTo writes a message to the active connection.
func (s *Server) sendTo(conn *websocket.Conn, msg Message) error {
	s.mu.Lock()
	active := s.conn
	s.mu.Unlock()
	if active != conn {
		return fmt.Errorf("connection not active")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
