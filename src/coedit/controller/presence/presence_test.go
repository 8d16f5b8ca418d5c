package presence

import (
	"context"
	"testing"
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/collabforge/coedit/src/coedit/repository/session/registrymock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newController(t *testing.T) (Controller, *registrymock.MockRegistry, *clock.Fake) {
	ctrl := gomock.NewController(t)
	registry := registrymock.NewMockRegistry(ctrl)
	fake := clock.NewFake()
	c := New(Params{
		Registry: registry,
		Clock:    fake,
		Logger:   zap.NewNop().Sugar(),
		Stats:    tally.NewTestScope("testing", make(map[string]string, 0)),
	})
	return c, registry, fake
}

func TestUpdateCursor(t *testing.T) {
	c, registry, fake := newController(t)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(1, nil)

	state, err := c.UpdateCursor(ctx, docID, userID, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, state.Position)
	assert.Equal(t, "#3cb44b", state.Color)
	assert.Equal(t, fake.Now(), state.UpdatedAt)

	cursors, _ := c.DocumentPresence(ctx, docID)
	require.Len(t, cursors, 1)
	assert.Equal(t, state, cursors[0])
}

func TestUpdateCursorReplacesPrevious(t *testing.T) {
	c, registry, _ := newController(t)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(0, nil).Times(2)

	_, err := c.UpdateCursor(ctx, docID, userID, 3)
	require.NoError(t, err)
	_, err = c.UpdateCursor(ctx, docID, userID, 9)
	require.NoError(t, err)

	cursors, _ := c.DocumentPresence(ctx, docID)
	require.Len(t, cursors, 1)
	assert.Equal(t, 9, cursors[0].Position)
}

func TestUpdateSelection(t *testing.T) {
	c, registry, _ := newController(t)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(0, nil)

	state, err := c.UpdateSelection(ctx, docID, userID, entity.SelectionRange{Start: 2, End: 8})
	require.NoError(t, err)
	assert.Equal(t, entity.SelectionRange{Start: 2, End: 8}, state.Range)
	assert.Equal(t, "#e6194b", state.Color)

	_, selections := c.DocumentPresence(ctx, docID)
	require.Len(t, selections, 1)
	assert.Equal(t, state, selections[0])
}

func TestRemoveUserDropsAllState(t *testing.T) {
	c, registry, _ := newController(t)
	ctx := context.Background()

	docA := factory.UUID()
	docB := factory.UUID()
	leaving := factory.UUID()
	staying := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, leaving).Return(0, nil).Times(2)
	registry.EXPECT().JoinOrder(ctx, staying).Return(1, nil)

	_, err := c.UpdateCursor(ctx, docA, leaving, 1)
	require.NoError(t, err)
	_, err = c.UpdateSelection(ctx, docB, leaving, entity.SelectionRange{Start: 0, End: 4})
	require.NoError(t, err)
	_, err = c.UpdateCursor(ctx, docA, staying, 7)
	require.NoError(t, err)

	c.RemoveUser(ctx, leaving)

	cursors, _ := c.DocumentPresence(ctx, docA)
	require.Len(t, cursors, 1)
	assert.Equal(t, staying, cursors[0].UserID)

	_, selections := c.DocumentPresence(ctx, docB)
	assert.Empty(t, selections)
}

func TestDocumentPresenceUnknownDocument(t *testing.T) {
	c, _, _ := newController(t)

	cursors, selections := c.DocumentPresence(context.Background(), factory.UUID())
	assert.Nil(t, cursors)
	assert.Nil(t, selections)
}

func TestColorAssignmentIsStable(t *testing.T) {
	c, registry, _ := newController(t)
	ctx := context.Background()

	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(3, nil).Times(2)

	first := c.ColorFor(ctx, userID)
	second := c.ColorFor(ctx, userID)
	assert.Equal(t, first, second)
	assert.Equal(t, "#f58231", first)
}

func TestColorWrapsPastPalette(t *testing.T) {
	c, registry, _ := newController(t)
	ctx := context.Background()

	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(10, nil)

	assert.Equal(t, "#e6194b", c.ColorFor(ctx, userID))
}

func TestColorForUnknownUserFallsBack(t *testing.T) {
	c, registry, _ := newController(t)
	ctx := context.Background()

	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(0, &errors.UserNotFoundError{UserID: userID})

	assert.Equal(t, "#e6194b", c.ColorFor(ctx, userID))
}

func TestCursorTimestampAdvances(t *testing.T) {
	c, registry, fake := newController(t)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()
	registry.EXPECT().JoinOrder(ctx, userID).Return(0, nil).Times(2)

	first, err := c.UpdateCursor(ctx, docID, userID, 0)
	require.NoError(t, err)

	fake.Advance(5 * time.Second)
	second, err := c.UpdateCursor(ctx, docID, userID, 1)
	require.NoError(t, err)

	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}
