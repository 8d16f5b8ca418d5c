// Package wirefx owns the WebSocket transport: the host-side listener with its
// admission handshake, and the client-side dialer with heartbeats and
// reconnection.
package wirefx

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
	tally "github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configurationKey = "wire"
	_wsPath           = "/ws"
	_handshakeTimeout = 10 * time.Second
)

//go:generate mockgen -source=supervisor.go -destination=wiremock/supervisor_mock.go -package=wiremock

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Config holds the transport settings.
type Config struct {
	// Address the host listener binds to. Port 0 picks a free port.
	Address string `yaml:"address"`
	// AdvertiseHost overrides the hostname placed in join links. Defaults to
	// the bound listener host.
	AdvertiseHost string `yaml:"advertiseHost"`
	// HeartbeatInterval is how often a client pings the host.
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
	// ReconnectBaseDelay scales the linear backoff: attempt n waits n times
	// this long.
	ReconnectBaseDelay time.Duration `yaml:"reconnectBaseDelay"`
	// ReconnectMaxAttempts bounds the reconnect loop before the session is
	// declared lost.
	ReconnectMaxAttempts int `yaml:"reconnectMaxAttempts"`
}

// SessionHandler receives transport events. The supervisor does not interpret
// protocol messages beyond the admission handshake; everything else is handed
// over as raw frames.
type SessionHandler interface {
	// Admit decides whether a handshaking connection may enter the session.
	Admit(ctx context.Context, join entity.JoinMessage) error
	// OnConnect reports a connection ready for protocol traffic.
	OnConnect(ctx context.Context, userID uuid.UUID, userName string, conn Conn)
	// OnMessage delivers one inbound frame. On a host, from identifies the
	// sending user; on a client frames always come from the host and from is
	// uuid.Nil.
	OnMessage(ctx context.Context, from uuid.UUID, data []byte) error
	// OnDisconnect reports a closed connection after OnConnect.
	OnDisconnect(ctx context.Context, userID uuid.UUID)
	// OnSessionLost reports that reconnection was exhausted.
	OnSessionLost(ctx context.Context, err error)
}

// Supervisor runs the transport for one session in either role.
type Supervisor interface {
	// Host starts the listener and returns the join link for the session.
	Host(ctx context.Context, sessionID uuid.UUID) (entity.JoinLink, error)
	// Join connects to a hosting peer, performs the handshake and starts the
	// heartbeat and reconnection machinery. It fails synchronously if the host
	// rejects the handshake.
	Join(ctx context.Context, link entity.JoinLink, join entity.JoinMessage) error
	// RegisterSessionHandler installs the protocol layer. Must be called
	// before Host or Join.
	RegisterSessionHandler(h SessionHandler)
	// Shutdown stops the listener, the client connection and all background
	// loops.
	Shutdown(ctx context.Context) error
}

type dialFunc func(ctx context.Context, url string) (Conn, error)

type supervisor struct {
	cfg     Config
	handler SessionHandler
	dial    dialFunc
	clock   clock.Clock
	logger  *zap.SugaredLogger
	stats   tally.Scope

	mu         sync.Mutex
	server     *http.Server
	listener   net.Listener
	clientConn Conn
	joinURL    string
	joinMsg    entity.JoinMessage
	closed     bool
	stopCh     chan struct{}
}

// Params are inbound parameters to construct the supervisor.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Clock     clock.Clock
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

// New creates a new connection supervisor.
func New(p Params) (Supervisor, error) {
	cfg := Config{
		Address:              "127.0.0.1:0",
		HeartbeatInterval:    30 * time.Second,
		ReconnectBaseDelay:   2 * time.Second,
		ReconnectMaxAttempts: 5,
	}
	if err := p.Config.Get(_configurationKey).Populate(&cfg); err != nil {
		return nil, err
	}

	s := &supervisor{
		cfg:    cfg,
		dial:   dialWebSocket,
		clock:  p.Clock,
		logger: p.Logger.With("component", "wire"),
		stats:  p.Stats.SubScope("wire"),
		stopCh: make(chan struct{}),
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: s.Shutdown,
	})
	return s, nil
}

func dialWebSocket(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

func (s *supervisor) RegisterSessionHandler(h SessionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *supervisor) Host(ctx context.Context, sessionID uuid.UUID) (entity.JoinLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handler == nil {
		return entity.JoinLink{}, fmt.Errorf("no session handler registered")
	}
	if s.listener != nil {
		return entity.JoinLink{}, &errors.SessionAlreadyActiveError{}
	}

	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return entity.JoinLink{}, fmt.Errorf("binding listener: %w", err)
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	mux := http.NewServeMux()
	mux.HandleFunc(_wsPath, func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, zap.Error(err))
			return
		}
		s.ServePeer(context.Background(), NewConn(raw))
	})

	s.listener = listener
	s.server = &http.Server{Handler: mux}
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Errorw("listener terminated", zap.Error(err))
		}
	}()

	addr := listener.Addr().(*net.TCPAddr)
	host := s.cfg.AdvertiseHost
	if host == "" {
		host = addr.IP.String()
	}
	link := entity.JoinLink{Host: host, Port: addr.Port, SessionID: sessionID}
	s.logger.Infow("hosting session", "address", addr.String(), zap.Stringer("session", sessionID))
	return link, nil
}

// ServePeer runs the admission handshake and then the read pump for one
// inbound connection. It returns when the connection closes.
func (s *supervisor) ServePeer(ctx context.Context, conn Conn) {
	handler := s.currentHandler()
	if handler == nil {
		conn.Close()
		return
	}

	// A connection that never completes the handshake is dropped.
	timer := s.clock.AfterFunc(_handshakeTimeout, func() { conn.Close() })
	data, err := conn.ReadMessage()
	timer.Stop()
	if err != nil {
		conn.Close()
		return
	}

	var join entity.JoinMessage
	if err := json.Unmarshal(data, &join); err != nil || join.Type != entity.MessageTypeJoin {
		s.reject(conn, "first frame must be a join request")
		return
	}
	if err := handler.Admit(ctx, join); err != nil {
		s.logger.Infow("admission denied", "remote", conn.RemoteAddr(), zap.Error(err))
		s.reject(conn, err.Error())
		return
	}

	s.stats.Counter("admitted").Inc(1)
	handler.OnConnect(ctx, join.UserID, join.UserName, conn)
	s.readPump(ctx, handler, conn, join.UserID)
	conn.Close()
	handler.OnDisconnect(ctx, join.UserID)
}

func (s *supervisor) readPump(ctx context.Context, handler SessionHandler, conn Conn, from uuid.UUID) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err := handler.OnMessage(ctx, from, data); err != nil {
			s.logger.Warnw("inbound frame rejected", zap.Stringer("user", from), zap.Error(err))
		}
	}
}

func (s *supervisor) reject(conn Conn, reason string) {
	s.stats.Counter("rejected").Inc(1)
	if err := conn.WriteJSON(entity.JoinRejectedMessage{
		Type:   entity.MessageTypeJoinRejected,
		Reason: reason,
	}); err != nil {
		s.logger.Debugw("rejection notice not delivered", zap.Error(err))
	}
	conn.Close()
}

func (s *supervisor) Join(ctx context.Context, link entity.JoinLink, join entity.JoinMessage) error {
	handler := s.currentHandler()
	if handler == nil {
		return fmt.Errorf("no session handler registered")
	}

	url := fmt.Sprintf("ws://%s:%d%s", link.Host, link.Port, _wsPath)
	join.Type = entity.MessageTypeJoin
	join.SessionID = link.SessionID

	conn, first, err := s.connect(ctx, url, join)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.clientConn = conn
	s.joinURL = url
	s.joinMsg = join
	s.mu.Unlock()

	handler.OnConnect(ctx, join.UserID, join.UserName, conn)
	if err := handler.OnMessage(ctx, uuid.Nil, first); err != nil {
		s.logger.Warnw("initial sync frame rejected", zap.Error(err))
	}

	go s.heartbeatLoop()
	go s.clientPump(handler, conn)
	return nil
}

// connect dials, sends the handshake and reads the host's first frame, which
// is either the initial state sync or a rejection.
func (s *supervisor) connect(ctx context.Context, url string, join entity.JoinMessage) (Conn, []byte, error) {
	conn, err := s.dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, nil, err
	}
	first, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	var env entity.Envelope
	if err := json.Unmarshal(first, &env); err == nil && env.Type == entity.MessageTypeJoinRejected {
		var rejected entity.JoinRejectedMessage
		if err := json.Unmarshal(first, &rejected); err != nil {
			rejected.Reason = "join rejected"
		}
		conn.Close()
		return nil, nil, &errors.AdmissionDeniedError{Reason: rejected.Reason}
	}
	return conn, first, nil
}

func (s *supervisor) clientPump(handler SessionHandler, conn Conn) {
	ctx := context.Background()
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if s.isClosed() {
				return
			}
			s.logger.Warnw("connection to host lost", zap.Error(err))
			s.stats.Counter("disconnects").Inc(1)
			handler.OnDisconnect(ctx, s.joinUser())
			s.reconnect(ctx, handler)
			return
		}
		if err := handler.OnMessage(ctx, uuid.Nil, data); err != nil {
			s.logger.Warnw("inbound frame rejected", zap.Error(err))
		}
	}
}

// reconnect retries the handshake with linearly increasing delays: attempt n
// waits n times the base delay. Exhausting the budget is terminal.
func (s *supervisor) reconnect(ctx context.Context, handler SessionHandler) {
	s.mu.Lock()
	url, join := s.joinURL, s.joinMsg
	s.mu.Unlock()

	for attempt := 1; attempt <= s.cfg.ReconnectMaxAttempts; attempt++ {
		s.clock.Sleep(time.Duration(attempt) * s.cfg.ReconnectBaseDelay)
		if s.isClosed() {
			return
		}

		conn, first, err := s.connect(ctx, url, join)
		if err != nil {
			s.logger.Infow("reconnect attempt failed", "attempt", attempt, zap.Error(err))
			s.stats.Counter("reconnect_failures").Inc(1)
			continue
		}

		s.mu.Lock()
		s.clientConn = conn
		s.mu.Unlock()

		s.stats.Counter("reconnects").Inc(1)
		s.logger.Infow("reconnected to host", "attempt", attempt)
		handler.OnConnect(ctx, join.UserID, join.UserName, conn)
		if err := handler.OnMessage(ctx, uuid.Nil, first); err != nil {
			s.logger.Warnw("initial sync frame rejected", zap.Error(err))
		}
		go s.clientPump(handler, conn)
		return
	}

	s.stats.Counter("sessions_lost").Inc(1)
	handler.OnSessionLost(ctx, &errors.SessionDisconnectedError{Attempts: s.cfg.ReconnectMaxAttempts})
}

func (s *supervisor) heartbeatLoop() {
	ticker := s.clock.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case ts := <-ticker.C():
			s.mu.Lock()
			conn := s.clientConn
			userID := s.joinMsg.UserID
			s.mu.Unlock()
			if conn == nil {
				continue
			}
			err := conn.WriteJSON(entity.HeartbeatMessage{
				Type:      entity.MessageTypeHeartbeat,
				UserID:    userID,
				Timestamp: ts,
			})
			if err != nil {
				s.logger.Debugw("heartbeat not delivered", zap.Error(err))
			}
		}
	}
}

func (s *supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopCh)
	server := s.server
	conn := s.clientConn
	s.server = nil
	s.listener = nil
	s.clientConn = nil
	s.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if server != nil {
		if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
		}
	}
	return err
}

func (s *supervisor) currentHandler() SessionHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

func (s *supervisor) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *supervisor) joinUser() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinMsg.UserID
}
