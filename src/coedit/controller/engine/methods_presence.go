package engine

import (
	"context"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

func (c *controller) MoveCursor(ctx context.Context, documentID uuid.UUID, position int) error {
	user := c.LocalUser()

	if !c.isHost() {
		if _, err := c.presence.UpdateCursor(ctx, documentID, user.UUID, position); err != nil {
			return err
		}
		c.broadcast(ctx, entity.CursorUpdateMessage{
			Type:       entity.MessageTypeCursorUpdate,
			DocumentID: documentID,
			Position:   position,
		}, uuid.Nil)
		return nil
	}

	return c.updateCursorAndAnnounce(ctx, documentID, user.UUID, position)
}

func (c *controller) SelectRange(ctx context.Context, documentID uuid.UUID, r entity.SelectionRange) error {
	user := c.LocalUser()

	if !c.isHost() {
		if _, err := c.presence.UpdateSelection(ctx, documentID, user.UUID, r); err != nil {
			return err
		}
		c.broadcast(ctx, entity.SelectionUpdateMessage{
			Type:       entity.MessageTypeSelectionUpdate,
			DocumentID: documentID,
			Selection:  r,
		}, uuid.Nil)
		return nil
	}

	return c.updateSelectionAndAnnounce(ctx, documentID, user.UUID, r)
}

func (c *controller) HandleCursorUpdate(ctx context.Context, from uuid.UUID, msg entity.CursorUpdateMessage) error {
	if !c.isHost() {
		return nil
	}
	return c.updateCursorAndAnnounce(ctx, msg.DocumentID, from, msg.Position)
}

func (c *controller) HandleSelectionUpdate(ctx context.Context, from uuid.UUID, msg entity.SelectionUpdateMessage) error {
	if !c.isHost() {
		return nil
	}
	return c.updateSelectionAndAnnounce(ctx, msg.DocumentID, from, msg.Selection)
}

func (c *controller) updateCursorAndAnnounce(ctx context.Context, documentID, userID uuid.UUID, position int) error {
	state, err := c.presence.UpdateCursor(ctx, documentID, userID, position)
	if err != nil {
		return err
	}
	c.broadcast(ctx, entity.CursorUpdatedMessage{
		Type:       entity.MessageTypeCursorUpdated,
		DocumentID: documentID,
		Cursor:     state,
	}, userID)
	return nil
}

func (c *controller) updateSelectionAndAnnounce(ctx context.Context, documentID, userID uuid.UUID, r entity.SelectionRange) error {
	state, err := c.presence.UpdateSelection(ctx, documentID, userID, r)
	if err != nil {
		return err
	}
	c.broadcast(ctx, entity.SelectionUpdatedMessage{
		Type:       entity.MessageTypeSelectionUpdated,
		DocumentID: documentID,
		Selection:  state,
	}, userID)
	return nil
}

// HandleCursorUpdated mirrors a broadcast cursor move on a client.
func (c *controller) HandleCursorUpdated(ctx context.Context, msg entity.CursorUpdatedMessage) error {
	if c.isHost() {
		return nil
	}
	_, err := c.presence.UpdateCursor(ctx, msg.DocumentID, msg.Cursor.UserID, msg.Cursor.Position)
	return err
}

func (c *controller) HandleSelectionUpdated(ctx context.Context, msg entity.SelectionUpdatedMessage) error {
	if c.isHost() {
		return nil
	}
	_, err := c.presence.UpdateSelection(ctx, msg.DocumentID, msg.Selection.UserID, msg.Selection.Range)
	return err
}

func (c *controller) SendChat(ctx context.Context, text string) error {
	user := c.LocalUser()
	c.broadcast(ctx, entity.ChatMessage{
		Type:   entity.MessageTypeChat,
		UserID: user.UUID,
		Text:   text,
	}, user.UUID)
	return nil
}

// HandleChat relays a chat line. The host forwards it to everyone but the
// sender; clients have nothing to do beyond surfacing it.
func (c *controller) HandleChat(ctx context.Context, from uuid.UUID, msg entity.ChatMessage) error {
	if !c.isHost() {
		return nil
	}
	msg.UserID = from
	c.broadcast(ctx, msg, from)
	return nil
}

func (c *controller) HandleHeartbeat(ctx context.Context, from uuid.UUID, msg entity.HeartbeatMessage) error {
	if !c.isHost() {
		return nil
	}
	if err := c.registry.TouchUser(ctx, from); err != nil {
		c.logger.Debugw("heartbeat for unknown user", zap.Stringer("user", from), zap.Error(err))
	}
	return nil
}
