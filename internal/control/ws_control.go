// Package control decodes pointer commands and applies them to the dispatcher.
package control

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/pinchpoint/internal/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var (
	// errConnActive is returned when a second control client connects.
	errConnActive = errors.New("control connection already active")
	// errServerClosed is returned once Close has run.
	errServerClosed = errors.New("control server closed")
)

// Server handles websocket control input.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	session  *session.Session
	handler  *Handler
	logger   zerolog.Logger
	conn     *websocket.Conn
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a control websocket server.
func NewServer(sess *session.Session, handler *Handler, logger zerolog.Logger) *Server {
	return &Server{
		session: sess,
		handler: handler,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
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
	s.logger.Info().Str("remote", r.RemoteAddr).Msg("control connected")

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		reply, err := s.handler.Handle(msg)
		if err != nil {
			reply = errorReply(err)
		}
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

// Active reports whether a control client is connected.
func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close drops the active client and waits for its button release.
// Later upgrades are refused.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.mu.Unlock()
	var err error
	if conn != nil {
		err = conn.Close()
	}
	s.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errServerClosed
	}
	if s.conn != nil {
		return errConnActive
	}
	s.conn = conn
	s.wg.Add(1)
	return nil
}

// rejectConn sends a policy violation close and closes the socket.
func (s *Server) rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	_ = conn.Close()
}

// cleanupConn clears the active connection and releases the button.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
	s.handler.Disconnect()
	s.logger.Info().Msg("control disconnected")
	s.wg.Done()
}
