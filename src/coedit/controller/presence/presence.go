// Package presence tracks ephemeral per-user cursor and selection state.
package presence

import (
	"context"
	"sync"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/repository/session"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=presence.go -destination=presencemock/presence_mock.go -package=presencemock -mock_names=Controller=MockController

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// _palette is the fixed set of cursor colors, assigned by join order. Users
// past the palette length wrap around.
var _palette = []string{
	"#e6194b",
	"#3cb44b",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
	"#f032e6",
	"#bcf60c",
	"#008080",
	"#9a6324",
}

// Controller holds the latest cursor and selection per user per document.
// Presence is ephemeral: it is never persisted and is dropped when the user
// leaves the session.
type Controller interface {
	// UpdateCursor records the user's cursor position in a document.
	UpdateCursor(ctx context.Context, documentID, userID uuid.UUID, position int) (entity.CursorState, error)
	// UpdateSelection records the user's selection range in a document.
	UpdateSelection(ctx context.Context, documentID, userID uuid.UUID, r entity.SelectionRange) (entity.SelectionState, error)
	// RemoveUser drops all presence state for a user across all documents.
	RemoveUser(ctx context.Context, userID uuid.UUID)
	// DocumentPresence returns the current cursors and selections in a document.
	DocumentPresence(ctx context.Context, documentID uuid.UUID) ([]entity.CursorState, []entity.SelectionState)
	// ColorFor returns the display color assigned to a user. The assignment is
	// stable for the lifetime of the session.
	ColorFor(ctx context.Context, userID uuid.UUID) string
}

type documentPresence struct {
	cursors    map[uuid.UUID]entity.CursorState
	selections map[uuid.UUID]entity.SelectionState
}

type controller struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*documentPresence
	registry  session.Registry
	clock     clock.Clock
	logger    *zap.SugaredLogger
	stats     tally.Scope
}

// Params are inbound parameters to construct the presence controller.
type Params struct {
	fx.In

	Registry session.Registry
	Clock    clock.Clock
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

// New creates a new presence controller.
func New(p Params) Controller {
	return &controller{
		documents: make(map[uuid.UUID]*documentPresence),
		registry:  p.Registry,
		clock:     p.Clock,
		logger:    p.Logger.With("component", "presence"),
		stats:     p.Stats.SubScope("presence"),
	}
}

func (c *controller) UpdateCursor(ctx context.Context, documentID, userID uuid.UUID, position int) (entity.CursorState, error) {
	color := c.ColorFor(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	state := entity.CursorState{
		UserID:    userID,
		Position:  position,
		Color:     color,
		UpdatedAt: c.clock.Now(),
	}
	c.docLocked(documentID).cursors[userID] = state
	c.stats.Counter("cursor_updates").Inc(1)
	return state, nil
}

func (c *controller) UpdateSelection(ctx context.Context, documentID, userID uuid.UUID, r entity.SelectionRange) (entity.SelectionState, error) {
	color := c.ColorFor(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	state := entity.SelectionState{
		UserID:    userID,
		Range:     r,
		Color:     color,
		UpdatedAt: c.clock.Now(),
	}
	c.docLocked(documentID).selections[userID] = state
	c.stats.Counter("selection_updates").Inc(1)
	return state, nil
}

func (c *controller) RemoveUser(ctx context.Context, userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range c.documents {
		delete(doc.cursors, userID)
		delete(doc.selections, userID)
	}
}

func (c *controller) DocumentPresence(ctx context.Context, documentID uuid.UUID) ([]entity.CursorState, []entity.SelectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.documents[documentID]
	if !ok {
		return nil, nil
	}
	cursors := make([]entity.CursorState, 0, len(doc.cursors))
	for _, cur := range doc.cursors {
		cursors = append(cursors, cur)
	}
	selections := make([]entity.SelectionState, 0, len(doc.selections))
	for _, sel := range doc.selections {
		selections = append(selections, sel)
	}
	return cursors, selections
}

func (c *controller) ColorFor(ctx context.Context, userID uuid.UUID) string {
	order, err := c.registry.JoinOrder(ctx, userID)
	if err != nil {
		// Presence for a user the registry no longer knows still renders,
		// just without a stable color.
		return _palette[0]
	}
	return _palette[order%len(_palette)]
}

// docLocked returns the presence bucket for a document, creating it on first
// use. Callers must hold c.mu.
func (c *controller) docLocked(documentID uuid.UUID) *documentPresence {
	doc, ok := c.documents[documentID]
	if !ok {
		doc = &documentPresence{
			cursors:    make(map[uuid.UUID]entity.CursorState),
			selections: make(map[uuid.UUID]entity.SelectionState),
		}
		c.documents[documentID] = doc
	}
	return doc
}
