package engine

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/collabforge/coedit/src/coedit/mapper"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

func (c *controller) ShareDocument(ctx context.Context, path string, opts entity.ShareOptions) (*entity.Document, error) {
	if !c.isHost() {
		// Clients receive shared documents from the host; sharing originates
		// on the hosting side only.
		return nil, fmt.Errorf("only the session host can share documents")
	}

	doc, err := c.docs.Share(ctx, path, c.LocalUser().UUID, opts)
	if err != nil {
		return nil, err
	}
	if err := c.registry.AttachDocument(ctx, doc.UUID); err != nil {
		return nil, err
	}

	c.broadcast(ctx, entity.DocumentSharedMessage{
		Type:     entity.MessageTypeDocumentShared,
		Document: mapper.DocumentToSnapshot(doc),
	}, uuid.Nil)
	return doc, nil
}

func (c *controller) SubmitChange(ctx context.Context, documentID uuid.UUID, input entity.ChangeInput) error {
	user := c.LocalUser()

	if !c.isHost() {
		c.broadcast(ctx, entity.DocumentChangeMessage{
			Type:       entity.MessageTypeDocumentChange,
			DocumentID: documentID,
			Change:     input,
		}, uuid.Nil)
		return nil
	}

	return c.applyAndBroadcast(ctx, user.UUID, documentID, input)
}

// HandleDocumentChange is the host-side entry point for an edit proposed by a
// remote user.
func (c *controller) HandleDocumentChange(ctx context.Context, from uuid.UUID, msg entity.DocumentChangeMessage) error {
	if !c.isHost() {
		c.logger.Debugw("ignoring change proposal on client", zap.Stringer("document", msg.DocumentID))
		return nil
	}
	if err := c.registry.TouchUser(ctx, from); err != nil {
		c.logger.Debugw("activity not recorded", zap.Stringer("user", from), zap.Error(err))
	}
	return c.applyAndBroadcast(ctx, from, msg.DocumentID, msg.Change)
}

func (c *controller) applyAndBroadcast(ctx context.Context, author, documentID uuid.UUID, input entity.ChangeInput) error {
	applied, err := c.docs.Apply(ctx, documentID, entity.Change{
		AuthorID:    author,
		Kind:        input.Kind,
		Position:    input.Position,
		Length:      input.Length,
		Text:        input.Text,
		BaseVersion: input.BaseVersion,
	})
	if err != nil {
		var locked *errors.DocumentLockedError
		if stderrors.As(err, &locked) {
			// Tell the author who holds the lock; nobody else needs to know.
			c.send(ctx, entity.DocumentLockedMessage{
				Type: entity.MessageTypeDocumentLocked,
				Lock: entity.Lock{
					DocumentID: locked.DocumentID,
					HolderID:   locked.HolderID,
					ExpiresAt:  locked.ExpiresAt,
				},
			}, author)
			return nil
		}
		return err
	}

	// Everyone applies the transformed record, the author included: the
	// version the author drafted may differ from what was applied.
	c.broadcast(ctx, entity.DocumentChangedMessage{
		Type:       entity.MessageTypeDocumentChanged,
		DocumentID: documentID,
		Change:     applied,
		Version:    applied.ResultVersion,
	}, uuid.Nil)
	return nil
}

// HandleDocumentChanged replays a host-ordered change on a client.
func (c *controller) HandleDocumentChanged(ctx context.Context, msg entity.DocumentChangedMessage) error {
	if c.isHost() {
		return nil
	}
	if err := c.docs.ApplyOrdered(ctx, msg.DocumentID, msg.Change); err != nil {
		var conflict *errors.DocumentConflictError
		if stderrors.As(err, &conflict) {
			// The store already flagged the document; the next resync
			// broadcast restores convergence.
			c.logger.Warnw("document diverged from host",
				zap.Stringer("document", msg.DocumentID),
				"localVersion", conflict.LocalVersion,
				"receivedVersion", conflict.ReceivedVersion)
			c.stats.Counter("conflicts").Inc(1)
			return nil
		}
		return err
	}
	return nil
}

func (c *controller) HandleDocumentShared(ctx context.Context, msg entity.DocumentSharedMessage) error {
	if c.isHost() {
		return nil
	}
	if err := c.docs.Adopt(ctx, &msg.Document); err != nil {
		return err
	}
	return c.registry.AttachDocument(ctx, msg.Document.UUID)
}

func (c *controller) HandleDocumentResync(ctx context.Context, msg entity.DocumentResyncMessage) error {
	if c.isHost() {
		return nil
	}
	err := c.docs.Resync(ctx, msg.Document.UUID, msg.Document.Content, msg.Document.Version)
	if err != nil {
		if _, ok := err.(*errors.DocumentNotFoundError); ok {
			return c.docs.Adopt(ctx, &msg.Document)
		}
		return err
	}
	return nil
}

// HandleExternalEdit folds an out-of-band rewrite of a shared file into the
// session. The resulting changes flow through the normal broadcast path, and
// clients additionally receive a full snapshot to guard against divergence.
func (c *controller) HandleExternalEdit(ctx context.Context, path string) error {
	if !c.isHost() {
		return nil
	}

	var doc *entity.Document
	for _, snapshot := range c.docs.Snapshots(ctx) {
		if snapshot.Path == path {
			doc = snapshot
			break
		}
	}
	if doc == nil {
		return nil
	}

	changes, err := c.docs.SyncFromDisk(ctx, doc.UUID)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	for _, change := range changes {
		c.broadcast(ctx, entity.DocumentChangedMessage{
			Type:       entity.MessageTypeDocumentChanged,
			DocumentID: doc.UUID,
			Change:     change,
			Version:    change.ResultVersion,
		}, uuid.Nil)
	}

	snapshot, err := c.docs.Snapshot(ctx, doc.UUID)
	if err != nil {
		return err
	}
	c.broadcast(ctx, entity.DocumentResyncMessage{
		Type:     entity.MessageTypeDocumentResync,
		Document: mapper.DocumentToSnapshot(snapshot),
	}, uuid.Nil)

	c.stats.Counter("external_edits").Inc(1)
	c.logger.Infow("external edit folded in", "path", path, "changes", len(changes))
	return nil
}
