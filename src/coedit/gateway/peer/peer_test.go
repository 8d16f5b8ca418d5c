package peer

import (
	"context"
	"errors"
	"testing"

	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/collabforge/coedit/src/coedit/internal/wirefx/wiremock"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestScope() tally.Scope {
	return tally.NewTestScope("testing", make(map[string]string, 0))
}

func TestHostBroadcastExcludesSender(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	g := NewHost(zap.NewNop().Sugar(), newTestScope())

	author := factory.UUID()
	other := factory.UUID()

	authorConn := wiremock.NewMockConn(ctrl)
	otherConn := wiremock.NewMockConn(ctrl)
	require.NoError(t, g.Register(ctx, author, authorConn))
	require.NoError(t, g.Register(ctx, other, otherConn))

	msg := map[string]string{"type": "chat-message"}
	otherConn.EXPECT().WriteJSON(msg).Return(nil)

	assert.NoError(t, g.Broadcast(ctx, msg, author))
}

func TestHostBroadcastContinuesPastFailedPeer(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	g := NewHost(zap.NewNop().Sugar(), newTestScope())

	bad := factory.UUID()
	good := factory.UUID()

	badConn := wiremock.NewMockConn(ctrl)
	goodConn := wiremock.NewMockConn(ctrl)
	require.NoError(t, g.Register(ctx, bad, badConn))
	require.NoError(t, g.Register(ctx, good, goodConn))

	msg := map[string]string{"type": "document-changed"}
	badConn.EXPECT().WriteJSON(msg).Return(errors.New("broken pipe"))
	goodConn.EXPECT().WriteJSON(msg).Return(nil)

	// Delivery failure to one peer is reported but does not stop the fan-out.
	assert.Error(t, g.Broadcast(ctx, msg, uuid.Nil))
}

func TestHostSendToUnknownUserIsNoop(t *testing.T) {
	g := NewHost(zap.NewNop().Sugar(), newTestScope())

	assert.NoError(t, g.Send(context.Background(), map[string]string{}, factory.UUID()))
}

func TestHostDeregister(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	g := NewHost(zap.NewNop().Sugar(), newTestScope())

	userID := factory.UUID()
	conn := wiremock.NewMockConn(ctrl)
	require.NoError(t, g.Register(ctx, userID, conn))
	require.NoError(t, g.Deregister(ctx, userID))

	// No writes expected after deregistration.
	assert.NoError(t, g.Broadcast(ctx, map[string]string{}, uuid.Nil))
}

func TestClientBroadcastIgnoresExclude(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	g := NewClient(zap.NewNop().Sugar(), newTestScope())

	self := factory.UUID()
	hostConn := wiremock.NewMockConn(ctrl)
	require.NoError(t, g.Register(ctx, uuid.Nil, hostConn))

	msg := map[string]string{"type": "cursor-update"}
	hostConn.EXPECT().WriteJSON(msg).Return(nil)

	// A client has exactly one peer; excluding the local user must not
	// suppress delivery to the host.
	assert.NoError(t, g.Broadcast(ctx, msg, self))
}

func TestClientSendWithoutConnIsNoop(t *testing.T) {
	g := NewClient(zap.NewNop().Sugar(), newTestScope())

	assert.NoError(t, g.Send(context.Background(), map[string]string{}, factory.UUID()))
}

func TestCloseClosesAllConnections(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	g := NewHost(zap.NewNop().Sugar(), newTestScope())

	for i := 0; i < 3; i++ {
		conn := wiremock.NewMockConn(ctrl)
		conn.EXPECT().Close().Return(nil)
		require.NoError(t, g.Register(ctx, factory.UUID(), conn))
	}

	assert.NoError(t, g.Close(ctx))
}
