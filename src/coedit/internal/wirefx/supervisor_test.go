package wirefx

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/zap"
)

type stubConn struct {
	frames    chan []byte
	writes    chan any
	closeOnce sync.Once
	closed    chan struct{}
}

func newStubConn() *stubConn {
	return &stubConn{
		frames: make(chan []byte, 8),
		writes: make(chan any, 8),
		closed: make(chan struct{}),
	}
}

func (c *stubConn) WriteJSON(v any) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	case c.writes <- v:
		return nil
	}
}

func (c *stubConn) ReadMessage() ([]byte, error) {
	select {
	case f := <-c.frames:
		return f, nil
	case <-c.closed:
		return nil, net.ErrClosed
	}
}

func (c *stubConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *stubConn) RemoteAddr() string { return "stub:0" }

type inboundFrame struct {
	from uuid.UUID
	data []byte
}

type fakeHandler struct {
	admitErr    error
	admits      chan entity.JoinMessage
	connects    chan uuid.UUID
	messages    chan inboundFrame
	disconnects chan uuid.UUID
	lost        chan error
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{
		admits:      make(chan entity.JoinMessage, 8),
		connects:    make(chan uuid.UUID, 8),
		messages:    make(chan inboundFrame, 8),
		disconnects: make(chan uuid.UUID, 8),
		lost:        make(chan error, 8),
	}
}

func (h *fakeHandler) Admit(ctx context.Context, join entity.JoinMessage) error {
	h.admits <- join
	return h.admitErr
}

func (h *fakeHandler) OnConnect(ctx context.Context, userID uuid.UUID, userName string, conn Conn) {
	h.connects <- userID
}

func (h *fakeHandler) OnMessage(ctx context.Context, from uuid.UUID, data []byte) error {
	h.messages <- inboundFrame{from: from, data: data}
	return nil
}

func (h *fakeHandler) OnDisconnect(ctx context.Context, userID uuid.UUID) {
	h.disconnects <- userID
}

func (h *fakeHandler) OnSessionLost(ctx context.Context, err error) {
	h.lost <- err
}

type recordingClock struct {
	*clock.Fake
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *recordingClock) Sleep(d time.Duration) {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	r.Fake.Sleep(d)
}

func newSupervisor(cfg Config, c clock.Clock, h SessionHandler) *supervisor {
	s := &supervisor{
		cfg:    cfg,
		clock:  c,
		logger: zap.NewNop().Sugar(),
		stats:  tally.NewTestScope("testing", make(map[string]string, 0)),
		stopCh: make(chan struct{}),
	}
	s.RegisterSessionHandler(h)
	return s
}

func joinFrame(t *testing.T, userID, sessionID uuid.UUID) []byte {
	t.Helper()
	data, err := json.Marshal(entity.JoinMessage{
		Type:      entity.MessageTypeJoin,
		UserID:    userID,
		UserName:  "tester",
		SessionID: sessionID,
	})
	require.NoError(t, err)
	return data
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		panic("unreachable")
	}
}

func TestServePeerRoutesFramesAfterHandshake(t *testing.T) {
	handler := newFakeHandler()
	s := newSupervisor(Config{}, clock.NewFake(), handler)

	userID := factory.UUID()
	sessionID := factory.UUID()
	conn := newStubConn()
	conn.frames <- joinFrame(t, userID, sessionID)
	chat, err := json.Marshal(entity.ChatMessage{Type: entity.MessageTypeChat, UserID: userID, Text: "hi"})
	require.NoError(t, err)
	conn.frames <- chat

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.ServePeer(context.Background(), conn)
	}()

	admitted := recv(t, handler.admits)
	assert.Equal(t, userID, admitted.UserID)
	assert.Equal(t, sessionID, admitted.SessionID)

	assert.Equal(t, userID, recv(t, handler.connects))

	frame := recv(t, handler.messages)
	assert.Equal(t, userID, frame.from)
	assert.JSONEq(t, string(chat), string(frame.data))

	conn.Close()
	assert.Equal(t, userID, recv(t, handler.disconnects))
	recv(t, done)
}

func TestServePeerRejectsDeniedHandshake(t *testing.T) {
	handler := newFakeHandler()
	handler.admitErr = &errors.AdmissionDeniedError{Reason: "session is full"}
	s := newSupervisor(Config{}, clock.NewFake(), handler)

	conn := newStubConn()
	conn.frames <- joinFrame(t, factory.UUID(), factory.UUID())

	s.ServePeer(context.Background(), conn)

	rejected, ok := recv(t, conn.writes).(entity.JoinRejectedMessage)
	require.True(t, ok)
	assert.Equal(t, "session is full", rejected.Reason)
	assert.Empty(t, handler.connects)
}

func TestServePeerRejectsNonJoinFirstFrame(t *testing.T) {
	handler := newFakeHandler()
	s := newSupervisor(Config{}, clock.NewFake(), handler)

	conn := newStubConn()
	conn.frames <- []byte(`{"type":"chat-message","text":"hi"}`)

	s.ServePeer(context.Background(), conn)

	rejected, ok := recv(t, conn.writes).(entity.JoinRejectedMessage)
	require.True(t, ok)
	assert.NotEmpty(t, rejected.Reason)
	assert.Empty(t, handler.admits)
}

func TestJoinHandshakeDeliversInitialState(t *testing.T) {
	handler := newFakeHandler()
	conn := newStubConn()
	state, err := json.Marshal(entity.SessionStateMessage{Type: entity.MessageTypeSessionState})
	require.NoError(t, err)
	conn.frames <- state

	s := newSupervisor(Config{
		HeartbeatInterval:    time.Minute,
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxAttempts: 5,
	}, clock.NewFake(), handler)
	s.dial = func(ctx context.Context, url string) (Conn, error) { return conn, nil }

	userID := factory.UUID()
	sessionID := factory.UUID()
	err = s.Join(context.Background(), entity.JoinLink{Host: "127.0.0.1", Port: 9000, SessionID: sessionID}, entity.JoinMessage{
		UserID:   userID,
		UserName: "tester",
	})
	require.NoError(t, err)

	sent, ok := recv(t, conn.writes).(entity.JoinMessage)
	require.True(t, ok)
	assert.Equal(t, entity.MessageTypeJoin, sent.Type)
	assert.Equal(t, sessionID, sent.SessionID)

	assert.Equal(t, userID, recv(t, handler.connects))

	frame := recv(t, handler.messages)
	assert.Equal(t, uuid.Nil, frame.from)
	assert.JSONEq(t, string(state), string(frame.data))

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestJoinSurfacesRejection(t *testing.T) {
	handler := newFakeHandler()
	conn := newStubConn()
	rejection, err := json.Marshal(entity.JoinRejectedMessage{
		Type:   entity.MessageTypeJoinRejected,
		Reason: "invalid password",
	})
	require.NoError(t, err)
	conn.frames <- rejection

	s := newSupervisor(Config{}, clock.NewFake(), handler)
	s.dial = func(ctx context.Context, url string) (Conn, error) { return conn, nil }

	err = s.Join(context.Background(), entity.JoinLink{Host: "127.0.0.1", Port: 9000}, entity.JoinMessage{UserID: factory.UUID()})
	var denied *errors.AdmissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "invalid password", denied.Reason)
	assert.Empty(t, handler.connects)
}

func TestReconnectBacksOffLinearlyThenGivesUp(t *testing.T) {
	handler := newFakeHandler()
	rc := &recordingClock{Fake: clock.NewFake()}
	s := newSupervisor(Config{
		ReconnectBaseDelay:   2 * time.Second,
		ReconnectMaxAttempts: 5,
	}, rc, handler)

	dials := 0
	s.dial = func(ctx context.Context, url string) (Conn, error) {
		dials++
		return nil, net.ErrClosed
	}

	s.reconnect(context.Background(), handler)

	assert.Equal(t, 5, dials)
	assert.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		6 * time.Second,
		8 * time.Second,
		10 * time.Second,
	}, rc.sleeps)

	var lost *errors.SessionDisconnectedError
	require.ErrorAs(t, recv(t, handler.lost), &lost)
	assert.Equal(t, 5, lost.Attempts)
}

func TestReconnectResumesOnSuccess(t *testing.T) {
	handler := newFakeHandler()
	rc := &recordingClock{Fake: clock.NewFake()}
	s := newSupervisor(Config{
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxAttempts: 5,
	}, rc, handler)
	s.joinMsg = entity.JoinMessage{Type: entity.MessageTypeJoin, UserID: factory.UUID()}

	conn := newStubConn()
	state, err := json.Marshal(entity.SessionStateMessage{Type: entity.MessageTypeSessionState})
	require.NoError(t, err)
	conn.frames <- state

	dials := 0
	s.dial = func(ctx context.Context, url string) (Conn, error) {
		dials++
		if dials == 1 {
			return nil, net.ErrClosed
		}
		return conn, nil
	}

	s.reconnect(context.Background(), handler)

	assert.Equal(t, 2, dials)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rc.sleeps)
	assert.Equal(t, s.joinMsg.UserID, recv(t, handler.connects))
	assert.Empty(t, handler.lost)

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestHeartbeatWritesOnTicks(t *testing.T) {
	handler := newFakeHandler()
	fake := clock.NewFake()
	s := newSupervisor(Config{HeartbeatInterval: 30 * time.Second}, fake, handler)

	conn := newStubConn()
	userID := factory.UUID()
	s.mu.Lock()
	s.clientConn = conn
	s.joinMsg = entity.JoinMessage{UserID: userID}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.heartbeatLoop()
	}()

	fake.Advance(30 * time.Second)

	beat, ok := recv(t, conn.writes).(entity.HeartbeatMessage)
	require.True(t, ok)
	assert.Equal(t, entity.MessageTypeHeartbeat, beat.Type)
	assert.Equal(t, userID, beat.UserID)

	require.NoError(t, s.Shutdown(context.Background()))
	recv(t, done)
}
