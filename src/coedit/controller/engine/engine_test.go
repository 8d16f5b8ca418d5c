package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/collabforge/coedit/src/coedit/controller/docstore/docstoremock"
	"github.com/collabforge/coedit/src/coedit/controller/lock/lockmock"
	"github.com/collabforge/coedit/src/coedit/controller/presence/presencemock"
	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/collabforge/coedit/src/coedit/gateway/peer"
	"github.com/collabforge/coedit/src/coedit/gateway/peer/peermock"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/collabforge/coedit/src/coedit/internal/wirefx/wiremock"
	"github.com/collabforge/coedit/src/coedit/repository/session/registrymock"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeInfoFile struct {
	fields map[string]string
}

func (f *fakeInfoFile) UpdateField(key, value string) error {
	f.fields[key] = value
	return nil
}

type env struct {
	engine     *controller
	registry   *registrymock.MockRegistry
	docs       *docstoremock.MockStore
	locks      *lockmock.MockController
	presence   *presencemock.MockController
	supervisor *wiremock.MockSupervisor
	gateway    *peermock.MockGateway
	infoFile   *fakeInfoFile
	clock      *clock.Fake
}

func newEnv(t *testing.T) *env {
	ctrl := gomock.NewController(t)
	provider, err := config.NewYAML(config.Source(strings.NewReader("session:\n  lockDuration: 5m\n")))
	require.NoError(t, err)

	e := &env{
		registry:   registrymock.NewMockRegistry(ctrl),
		docs:       docstoremock.NewMockStore(ctrl),
		locks:      lockmock.NewMockController(ctrl),
		presence:   presencemock.NewMockController(ctrl),
		supervisor: wiremock.NewMockSupervisor(ctrl),
		gateway:    peermock.NewMockGateway(ctrl),
		infoFile:   &fakeInfoFile{fields: make(map[string]string)},
		clock:      clock.NewFake(),
	}

	c, err := New(Params{
		Registry:   e.registry,
		Documents:  e.docs,
		Locks:      e.locks,
		Presence:   e.presence,
		Supervisor: e.supervisor,
		InfoFile:   e.infoFile,
		Config:     provider,
		Clock:      e.clock,
		Logger:     zap.NewNop().Sugar(),
		Stats:      tally.NewTestScope("testing", make(map[string]string, 0)),
	})
	require.NoError(t, err)

	e.engine = c.(*controller)
	e.engine.newHostGateway = func() peer.Gateway { return e.gateway }
	e.engine.newClientGateway = func() peer.Gateway { return e.gateway }
	return e
}

func (e *env) asHost() entity.User {
	user := entity.User{UUID: factory.UUID(), Name: "host"}
	e.engine.role = entity.RoleHost
	e.engine.localUser = user
	e.engine.gateway = e.gateway
	return user
}

func (e *env) asClient() entity.User {
	user := entity.User{UUID: factory.UUID(), Name: "client"}
	e.engine.role = entity.RoleClient
	e.engine.localUser = user
	e.engine.gateway = e.gateway
	return user
}

func TestHostSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sessionID := factory.UUID()
	sess := &entity.Session{UUID: sessionID, DisplayName: "review"}
	link := entity.JoinLink{Host: "127.0.0.1", Port: 9000, SessionID: sessionID}

	e.registry.EXPECT().StartSession(ctx, gomock.Any(), entity.SessionConfig{DisplayName: "review", MaxUsers: 8}).Return(sess, nil)
	e.supervisor.EXPECT().Host(ctx, sessionID).Return(link, nil)
	e.registry.EXPECT().RecordJoin(ctx, gomock.Any()).Return(nil)

	got, err := e.engine.HostSession(ctx, "alice", entity.SessionConfig{DisplayName: "review", MaxUsers: 8})
	require.NoError(t, err)
	assert.Equal(t, link, got)
	assert.Equal(t, entity.RoleHost, e.engine.Role())
	assert.Equal(t, "alice", e.engine.LocalUser().Name)

	assert.Equal(t, "collab://127.0.0.1:9000/"+sessionID.String(), e.infoFile.fields["joinLink"])
	assert.Equal(t, "127.0.0.1:9000", e.infoFile.fields["address"])
}

func TestHostSessionStartFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.registry.EXPECT().StartSession(ctx, gomock.Any(), gomock.Any()).Return(nil, &errors.SessionAlreadyActiveError{})

	_, err := e.engine.HostSession(ctx, "alice", entity.SessionConfig{})
	var active *errors.SessionAlreadyActiveError
	assert.ErrorAs(t, err, &active)
	assert.Empty(t, e.engine.Role())
}

func TestJoinSessionInvalidLink(t *testing.T) {
	e := newEnv(t)

	err := e.engine.JoinSession(context.Background(), "http://not-a-link", "bob", "")
	var invalid *errors.InvalidJoinLinkError
	assert.ErrorAs(t, err, &invalid)
}

func TestJoinSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sessionID := factory.UUID()
	rawLink := "collab://10.0.0.5:9100/" + sessionID.String()

	e.supervisor.EXPECT().Join(ctx, entity.JoinLink{Host: "10.0.0.5", Port: 9100, SessionID: sessionID}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ entity.JoinLink, join entity.JoinMessage) error {
			assert.Equal(t, "bob", join.UserName)
			assert.Equal(t, "s3cret", join.Password)
			return nil
		})

	require.NoError(t, e.engine.JoinSession(ctx, rawLink, "bob", "s3cret"))
	assert.Equal(t, entity.RoleClient, e.engine.Role())
}

func TestJoinSessionRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sessionID := factory.UUID()
	rawLink := "collab://10.0.0.5:9100/" + sessionID.String()

	e.supervisor.EXPECT().Join(ctx, gomock.Any(), gomock.Any()).Return(&errors.AdmissionDeniedError{Reason: "invalid password"})

	err := e.engine.JoinSession(ctx, rawLink, "bob", "wrong")
	var denied *errors.AdmissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Empty(t, e.engine.Role())
}

func TestConnectUserSyncsThenAnnounces(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asHost()

	userID := factory.UUID()
	conn := wiremock.NewMockConn(gomock.NewController(t))
	sess := &entity.Session{UUID: factory.UUID()}
	joined := &entity.User{UUID: userID, Name: "bob"}
	doc := &entity.Document{UUID: factory.UUID(), Content: "hello", Version: 3}

	e.gateway.EXPECT().Register(ctx, userID, conn).Return(nil)
	e.registry.EXPECT().RecordJoin(ctx, gomock.Any()).Return(nil)
	e.registry.EXPECT().ActiveSession(ctx).Return(sess, nil)
	e.registry.EXPECT().Users(ctx).Return([]*entity.User{joined}, nil)
	e.docs.EXPECT().Snapshots(ctx).Return([]*entity.Document{doc})
	e.gateway.EXPECT().Send(ctx, gomock.Any(), userID).DoAndReturn(func(_ context.Context, msg any, _ uuid.UUID) error {
		state, ok := msg.(entity.SessionStateMessage)
		require.True(t, ok)
		assert.Equal(t, *sess, state.Session)
		require.Len(t, state.Documents, 1)
		assert.Equal(t, "hello", state.Documents[0].Content)
		return nil
	})
	e.gateway.EXPECT().Broadcast(ctx, gomock.Any(), userID).DoAndReturn(func(_ context.Context, msg any, _ uuid.UUID) error {
		event, ok := msg.(entity.UserEventMessage)
		require.True(t, ok)
		assert.Equal(t, entity.MessageTypeUserJoined, event.Type)
		assert.Equal(t, userID, event.User.UUID)
		return nil
	})

	require.NoError(t, e.engine.ConnectUser(ctx, userID, "bob", conn))
}

func TestDisconnectUserReleasesEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asHost()

	userID := factory.UUID()
	lockedDoc := factory.UUID()
	left := &entity.User{UUID: userID, Name: "bob"}

	e.gateway.EXPECT().Deregister(ctx, userID).Return(nil)
	e.locks.EXPECT().ReleaseAllHeldBy(ctx, userID).Return([]uuid.UUID{lockedDoc})
	e.gateway.EXPECT().Broadcast(ctx, entity.DocumentUnlockedMessage{
		Type:       entity.MessageTypeDocumentUnlocked,
		DocumentID: lockedDoc,
		UserID:     userID,
	}, userID).Return(nil)
	e.presence.EXPECT().RemoveUser(ctx, userID)
	e.registry.EXPECT().RecordLeave(ctx, userID).Return(left, nil)
	e.gateway.EXPECT().Broadcast(ctx, entity.UserEventMessage{
		Type: entity.MessageTypeUserLeft,
		User: *left,
	}, userID).Return(nil)

	require.NoError(t, e.engine.DisconnectUser(ctx, userID))
}

func TestDisconnectUnknownUserIsQuiet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asHost()

	userID := factory.UUID()
	e.gateway.EXPECT().Deregister(ctx, userID).Return(nil)
	e.locks.EXPECT().ReleaseAllHeldBy(ctx, userID).Return(nil)
	e.presence.EXPECT().RemoveUser(ctx, userID)
	e.registry.EXPECT().RecordLeave(ctx, userID).Return(nil, &errors.UserNotFoundError{UserID: userID})

	assert.NoError(t, e.engine.DisconnectUser(ctx, userID))
}

func TestLeaveSessionSavesAndShutsDown(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asHost()

	e.docs.EXPECT().SaveAll(ctx).Return(nil)
	e.gateway.EXPECT().Close(ctx).Return(nil)
	e.supervisor.EXPECT().Shutdown(ctx).Return(nil)
	e.registry.EXPECT().EndSession(ctx).Return(nil)

	require.NoError(t, e.engine.LeaveSession(ctx))
	assert.Empty(t, e.engine.Role())
}

func TestSessionLostSavesDocuments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asClient()

	e.docs.EXPECT().SaveAll(ctx).Return(nil)
	e.registry.EXPECT().EndSession(ctx).Return(nil)

	e.engine.SessionLost(ctx, &errors.SessionDisconnectedError{Attempts: 5})
}

func TestAdmitConnectionDelegatesToRegistry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	join := entity.JoinMessage{
		UserID:    factory.UUID(),
		SessionID: factory.UUID(),
		Password:  "pw",
	}
	e.registry.EXPECT().AdmitConnection(ctx, entity.AdmissionRequest{
		SessionID: join.SessionID,
		UserID:    join.UserID,
		Password:  "pw",
	}).Return(&errors.AdmissionDeniedError{Reason: "session is full"})

	err := e.engine.AdmitConnection(ctx, join)
	var denied *errors.AdmissionDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestHandleSessionStateAdoptsEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asClient()

	sess := entity.Session{UUID: factory.UUID()}
	users := []entity.User{{UUID: factory.UUID()}, {UUID: factory.UUID()}}
	docs := []entity.Document{{UUID: factory.UUID(), Content: "shared"}}

	e.registry.EXPECT().AdoptSession(ctx, gomock.Any()).Return(nil)
	e.registry.EXPECT().RecordJoin(ctx, gomock.Any()).Return(nil).Times(2)
	e.docs.EXPECT().Adopt(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, doc *entity.Document) error {
		assert.Equal(t, "shared", doc.Content)
		return nil
	})

	require.NoError(t, e.engine.HandleSessionState(ctx, entity.SessionStateMessage{
		Type:      entity.MessageTypeSessionState,
		Session:   sess,
		Users:     users,
		Documents: docs,
	}))
}

func TestHandleHeartbeatTouchesUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.asHost()

	userID := factory.UUID()
	e.registry.EXPECT().TouchUser(ctx, userID).Return(nil)

	require.NoError(t, e.engine.HandleHeartbeat(ctx, userID, entity.HeartbeatMessage{
		Type:      entity.MessageTypeHeartbeat,
		UserID:    userID,
		Timestamp: time.Now(),
	}))
}
