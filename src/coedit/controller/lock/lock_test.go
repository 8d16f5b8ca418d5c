package lock

import (
	"context"
	"testing"
	"time"

	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/zap"
)

func newController(fake *clock.Fake) Controller {
	return New(Params{
		Clock:  fake,
		Logger: zap.NewNop().Sugar(),
		Stats:  tally.NewTestScope("testing", make(map[string]string, 0)),
	})
}

func TestAcquireGrantsLock(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()

	l, err := c.Acquire(ctx, docID, userID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, userID, l.HolderID)
	assert.Equal(t, fake.Now().Add(time.Second), l.ExpiresAt)

	held, ok := c.Holder(ctx, docID)
	require.True(t, ok)
	assert.Equal(t, userID, held.HolderID)
}

func TestAcquireRejectsWhileHeld(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()
	userA := factory.UUID()
	userB := factory.UUID()

	granted, err := c.Acquire(ctx, docID, userA, time.Second)
	require.NoError(t, err)

	_, err = c.Acquire(ctx, docID, userB, time.Second)
	var locked *errors.DocumentLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, userA, locked.HolderID)
	assert.Equal(t, granted.ExpiresAt, locked.ExpiresAt)
}

func TestAcquireSucceedsAfterExpiry(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()
	userA := factory.UUID()
	userB := factory.UUID()

	_, err := c.Acquire(ctx, docID, userA, time.Second)
	require.NoError(t, err)

	fake.Advance(1100 * time.Millisecond)

	l, err := c.Acquire(ctx, docID, userB, time.Second)
	require.NoError(t, err)
	assert.Equal(t, userB, l.HolderID)
}

func TestAcquireRefreshesOwnLock(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()

	_, err := c.Acquire(ctx, docID, userID, time.Second)
	require.NoError(t, err)

	fake.Advance(500 * time.Millisecond)
	refreshed, err := c.Acquire(ctx, docID, userID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, fake.Now().Add(time.Second), refreshed.ExpiresAt)

	// Past the original deadline but within the refreshed one.
	fake.Advance(700 * time.Millisecond)
	held, ok := c.Holder(ctx, docID)
	require.True(t, ok)
	assert.Equal(t, userID, held.HolderID)
}

func TestExpiredLockIsAbsent(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()

	_, err := c.Acquire(ctx, docID, factory.UUID(), time.Second)
	require.NoError(t, err)

	fake.Advance(2 * time.Second)

	_, ok := c.Holder(ctx, docID)
	assert.False(t, ok)
}

func TestReleaseByHolder(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()
	userID := factory.UUID()

	_, err := c.Acquire(ctx, docID, userID, time.Second)
	require.NoError(t, err)
	require.NoError(t, c.Release(ctx, docID, userID))

	_, ok := c.Holder(ctx, docID)
	assert.False(t, ok)
}

func TestReleaseByNonHolderRejected(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	docID := factory.UUID()
	userA := factory.UUID()

	_, err := c.Acquire(ctx, docID, userA, time.Second)
	require.NoError(t, err)

	err = c.Release(ctx, docID, factory.UUID())
	var locked *errors.DocumentLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, userA, locked.HolderID)
}

func TestReleaseUnlockedDocument(t *testing.T) {
	c := newController(clock.NewFake())

	err := c.Release(context.Background(), factory.UUID(), factory.UUID())
	var notFound *errors.DocumentNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestReleaseAllHeldBy(t *testing.T) {
	fake := clock.NewFake()
	c := newController(fake)
	ctx := context.Background()

	userID := factory.UUID()
	otherUser := factory.UUID()
	docA := factory.UUID()
	docB := factory.UUID()
	docC := factory.UUID()

	_, err := c.Acquire(ctx, docA, userID, time.Minute)
	require.NoError(t, err)
	_, err = c.Acquire(ctx, docB, userID, time.Minute)
	require.NoError(t, err)
	_, err = c.Acquire(ctx, docC, otherUser, time.Minute)
	require.NoError(t, err)

	released := c.ReleaseAllHeldBy(ctx, userID)
	assert.ElementsMatch(t, []uuid.UUID{docA, docB}, released)

	_, ok := c.Holder(ctx, docC)
	assert.True(t, ok)
}
