// Package webrtc builds the peer connections that carry the control DataChannel.
package webrtc

import (
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
)

// ControlLabel is the DataChannel label that carries control messages.
const ControlLabel = "control"

// PeerFactory owns the pion API and the single active peer connection.
type PeerFactory struct {
	mu   sync.Mutex
	api  *webrtc.API
	peer *webrtc.PeerConnection
}

// NewPeerFactory initializes a pion API with default codecs and interceptors.
// Pion's internal logs are routed to logger.
func NewPeerFactory(logger zerolog.Logger) (*PeerFactory, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	settings := webrtc.SettingEngine{LoggerFactory: NewLoggerFactory(logger)}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
		webrtc.WithSettingEngine(settings),
	)
	return &PeerFactory{api: api}, nil
}

// NewPeer creates a peer connection, closing any previous one.
func (f *PeerFactory) NewPeer() (*webrtc.PeerConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.peer != nil {
		_ = f.peer.Close()
		f.peer = nil
	}

	peer, err := f.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	f.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (f *PeerFactory) ClosePeer() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.peer == nil {
		return nil
	}
	err := f.peer.Close()
	f.peer = nil
	return err
}
