package engine

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

func (c *controller) LockDocument(ctx context.Context, documentID uuid.UUID, duration time.Duration) error {
	if duration <= 0 {
		duration = c.cfg.LockDuration
	}
	user := c.LocalUser()

	if !c.isHost() {
		c.broadcast(ctx, entity.DocumentLockMessage{
			Type:       entity.MessageTypeDocumentLock,
			DocumentID: documentID,
			DurationMS: duration.Milliseconds(),
		}, uuid.Nil)
		return nil
	}

	return c.acquireAndAnnounce(ctx, documentID, user.UUID, duration)
}

func (c *controller) UnlockDocument(ctx context.Context, documentID uuid.UUID) error {
	user := c.LocalUser()

	if !c.isHost() {
		c.broadcast(ctx, entity.DocumentUnlockMessage{
			Type:       entity.MessageTypeDocumentUnlock,
			DocumentID: documentID,
		}, uuid.Nil)
		return nil
	}

	return c.releaseAndAnnounce(ctx, documentID, user.UUID)
}

// HandleLockRequest is the host-side entry point for a lock requested by a
// remote user. A denial is reported to the requester only.
func (c *controller) HandleLockRequest(ctx context.Context, from uuid.UUID, msg entity.DocumentLockMessage) error {
	if !c.isHost() {
		return nil
	}
	duration := time.Duration(msg.DurationMS) * time.Millisecond
	if duration <= 0 {
		duration = c.cfg.LockDuration
	}
	return c.acquireAndAnnounce(ctx, msg.DocumentID, from, duration)
}

func (c *controller) HandleUnlockRequest(ctx context.Context, from uuid.UUID, msg entity.DocumentUnlockMessage) error {
	if !c.isHost() {
		return nil
	}
	return c.releaseAndAnnounce(ctx, msg.DocumentID, from)
}

func (c *controller) acquireAndAnnounce(ctx context.Context, documentID, userID uuid.UUID, duration time.Duration) error {
	granted, err := c.locks.Acquire(ctx, documentID, userID, duration)
	if err != nil {
		var locked *errors.DocumentLockedError
		if stderrors.As(err, &locked) {
			c.send(ctx, entity.DocumentLockedMessage{
				Type: entity.MessageTypeDocumentLocked,
				Lock: entity.Lock{
					DocumentID: locked.DocumentID,
					HolderID:   locked.HolderID,
					ExpiresAt:  locked.ExpiresAt,
				},
			}, userID)
			c.stats.Counter("locks_denied").Inc(1)
			return nil
		}
		return err
	}

	c.broadcast(ctx, entity.DocumentLockedMessage{
		Type: entity.MessageTypeDocumentLocked,
		Lock: granted,
	}, uuid.Nil)
	return nil
}

func (c *controller) releaseAndAnnounce(ctx context.Context, documentID, userID uuid.UUID) error {
	if err := c.locks.Release(ctx, documentID, userID); err != nil {
		c.logger.Debugw("unlock refused", zap.Stringer("document", documentID), zap.Error(err))
		return nil
	}
	c.broadcast(ctx, entity.DocumentUnlockedMessage{
		Type:       entity.MessageTypeDocumentUnlocked,
		DocumentID: documentID,
		UserID:     userID,
	}, uuid.Nil)
	return nil
}

// HandleDocumentLocked mirrors a host-granted lock on a client so local edit
// checks agree with the host.
func (c *controller) HandleDocumentLocked(ctx context.Context, msg entity.DocumentLockedMessage) error {
	if c.isHost() {
		return nil
	}
	remaining := msg.Lock.ExpiresAt.Sub(c.clock.Now())
	if remaining <= 0 {
		return nil
	}
	if _, err := c.locks.Acquire(ctx, msg.Lock.DocumentID, msg.Lock.HolderID, remaining); err != nil {
		c.logger.Debugw("lock mirror refused", zap.Stringer("document", msg.Lock.DocumentID), zap.Error(err))
	}
	return nil
}

func (c *controller) HandleDocumentUnlocked(ctx context.Context, msg entity.DocumentUnlockedMessage) error {
	if c.isHost() {
		return nil
	}
	if err := c.locks.Release(ctx, msg.DocumentID, msg.UserID); err != nil {
		c.logger.Debugw("unlock mirror refused", zap.Stringer("document", msg.DocumentID), zap.Error(err))
	}
	return nil
}
