package engine

import (
	"context"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/wirefx"
	"github.com/collabforge/coedit/src/coedit/mapper"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// AdmitConnection gates a handshaking connection. The registry reserves a
// member slot atomically with the decision, so concurrent candidates cannot
// both pass a full-session check.
func (c *controller) AdmitConnection(ctx context.Context, join entity.JoinMessage) error {
	return c.registry.AdmitConnection(ctx, entity.AdmissionRequest{
		SessionID: join.SessionID,
		UserID:    join.UserID,
		Password:  join.Password,
	})
}

func (c *controller) ConnectUser(ctx context.Context, userID uuid.UUID, userName string, conn wirefx.Conn) error {
	gateway := c.currentGateway()
	if gateway == nil {
		return nil
	}
	if err := gateway.Register(ctx, userID, conn); err != nil {
		return err
	}
	if !c.isHost() {
		return nil
	}

	now := c.clock.Now()
	user := entity.User{
		UUID:         userID,
		Name:         userName,
		ConnectedAt:  now,
		LastActivity: now,
	}
	if err := c.registry.RecordJoin(ctx, &user); err != nil {
		return err
	}

	// The newcomer gets the full session state before anyone is told about it,
	// so its first observed world is consistent.
	if err := c.sendSessionState(ctx, userID); err != nil {
		c.logger.Warnw("initial state sync failed", zap.Stringer("user", userID), zap.Error(err))
	}

	c.broadcast(ctx, entity.UserEventMessage{
		Type: entity.MessageTypeUserJoined,
		User: user,
	}, userID)

	c.stats.Counter("users_joined").Inc(1)
	c.logger.Infow("user joined", zap.Stringer("user", userID), "name", userName)
	return nil
}

func (c *controller) sendSessionState(ctx context.Context, target uuid.UUID) error {
	sess, err := c.registry.ActiveSession(ctx)
	if err != nil {
		return err
	}
	users, err := c.registry.Users(ctx)
	if err != nil {
		return err
	}

	state := entity.SessionStateMessage{
		Type:    entity.MessageTypeSessionState,
		Session: *sess,
	}
	for _, u := range users {
		state.Users = append(state.Users, *u)
	}
	for _, doc := range c.docs.Snapshots(ctx) {
		state.Documents = append(state.Documents, mapper.DocumentToSnapshot(doc))
	}

	c.send(ctx, state, target)
	return nil
}

func (c *controller) DisconnectUser(ctx context.Context, userID uuid.UUID) error {
	gateway := c.currentGateway()
	if gateway != nil {
		if err := gateway.Deregister(ctx, userID); err != nil {
			c.logger.Debugw("deregister failed", zap.Stringer("user", userID), zap.Error(err))
		}
	}
	if !c.isHost() {
		// The supervisor owns the reconnect loop; nothing else to unwind.
		return nil
	}

	for _, documentID := range c.locks.ReleaseAllHeldBy(ctx, userID) {
		c.broadcast(ctx, entity.DocumentUnlockedMessage{
			Type:       entity.MessageTypeDocumentUnlocked,
			DocumentID: documentID,
			UserID:     userID,
		}, userID)
	}
	c.presence.RemoveUser(ctx, userID)

	user, err := c.registry.RecordLeave(ctx, userID)
	if err != nil {
		// Admission reserved a slot but the handshake never completed.
		c.logger.Debugw("leave for unknown user", zap.Stringer("user", userID), zap.Error(err))
		return nil
	}

	c.broadcast(ctx, entity.UserEventMessage{
		Type: entity.MessageTypeUserLeft,
		User: *user,
	}, userID)

	c.stats.Counter("users_left").Inc(1)
	c.logger.Infow("user left", zap.Stringer("user", userID))
	return nil
}

// HandleUserJoined mirrors a membership change on a client.
func (c *controller) HandleUserJoined(ctx context.Context, msg entity.UserEventMessage) error {
	if c.isHost() {
		return nil
	}
	user := msg.User
	return c.registry.RecordJoin(ctx, &user)
}

func (c *controller) HandleUserLeft(ctx context.Context, msg entity.UserEventMessage) error {
	if c.isHost() {
		return nil
	}
	c.locks.ReleaseAllHeldBy(ctx, msg.User.UUID)
	c.presence.RemoveUser(ctx, msg.User.UUID)
	if _, err := c.registry.RecordLeave(ctx, msg.User.UUID); err != nil {
		c.logger.Debugw("leave for unknown user", zap.Stringer("user", msg.User.UUID), zap.Error(err))
	}
	return nil
}

// HandleSessionState installs the initial sync received after admission.
func (c *controller) HandleSessionState(ctx context.Context, msg entity.SessionStateMessage) error {
	if c.isHost() {
		return nil
	}

	sess := msg.Session
	if err := c.registry.AdoptSession(ctx, &sess); err != nil {
		return err
	}
	for _, u := range msg.Users {
		user := u
		if err := c.registry.RecordJoin(ctx, &user); err != nil {
			return err
		}
	}
	for _, d := range msg.Documents {
		doc := d
		if err := c.docs.Adopt(ctx, &doc); err != nil {
			return err
		}
	}

	c.logger.Infow("session state adopted",
		zap.Stringer("session", sess.UUID),
		"users", len(msg.Users),
		"documents", len(msg.Documents))
	return nil
}
