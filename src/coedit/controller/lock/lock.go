// Package lock grants time-bounded exclusive edit locks on shared documents.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=lock.go -destination=lockmock/lock_mock.go -package=lockmock -mock_names=Controller=MockController

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Controller manages advisory, per-document edit locks. At most one
// non-expired lock exists per document: expiry is checked lazily on every
// access, with a scheduled release as a backstop.
type Controller interface {
	// Acquire grants or refreshes a lock. A lock held by another user that has
	// not expired fails with DocumentLockedError carrying holder and expiry.
	Acquire(ctx context.Context, documentID, userID uuid.UUID, duration time.Duration) (entity.Lock, error)
	// Release removes the lock if the caller holds it.
	Release(ctx context.Context, documentID, userID uuid.UUID) error
	// ReleaseAllHeldBy removes every lock held by the user, returning the
	// affected document ids.
	ReleaseAllHeldBy(ctx context.Context, userID uuid.UUID) []uuid.UUID
	// Holder returns the current non-expired lock for the document, if any.
	Holder(ctx context.Context, documentID uuid.UUID) (entity.Lock, bool)
}

type lockEntry struct {
	lock  entity.Lock
	timer clock.Timer
}

type controller struct {
	mu     sync.Mutex
	locks  map[uuid.UUID]*lockEntry
	clock  clock.Clock
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// Params are inbound parameters to construct the lock controller.
type Params struct {
	fx.In

	Clock  clock.Clock
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

// New creates a new lock controller.
func New(p Params) Controller {
	return &controller{
		locks:  make(map[uuid.UUID]*lockEntry),
		clock:  p.Clock,
		logger: p.Logger.With("component", "lock"),
		stats:  p.Stats.SubScope("locks"),
	}
}

func (c *controller) Acquire(ctx context.Context, documentID, userID uuid.UUID, duration time.Duration) (entity.Lock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if entry, ok := c.locks[documentID]; ok && !entry.lock.Expired(now) && entry.lock.HolderID != userID {
		return entity.Lock{}, &errors.DocumentLockedError{
			DocumentID: documentID,
			HolderID:   entry.lock.HolderID,
			ExpiresAt:  entry.lock.ExpiresAt,
		}
	}

	// Granting or refreshing replaces any previous schedule.
	if entry, ok := c.locks[documentID]; ok && entry.timer != nil {
		entry.timer.Stop()
	}

	l := entity.Lock{
		DocumentID: documentID,
		HolderID:   userID,
		AcquiredAt: now,
		ExpiresAt:  now.Add(duration),
	}
	c.locks[documentID] = &lockEntry{
		lock:  l,
		timer: c.clock.AfterFunc(duration, func() { c.expire(documentID, l.ExpiresAt) }),
	}
	c.stats.Counter("acquired").Inc(1)
	c.stats.Gauge("held").Update(float64(len(c.locks)))
	return l, nil
}

func (c *controller) Release(ctx context.Context, documentID, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.locks[documentID]
	if !ok {
		return &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	if entry.lock.HolderID != userID {
		return &errors.DocumentLockedError{
			DocumentID: documentID,
			HolderID:   entry.lock.HolderID,
			ExpiresAt:  entry.lock.ExpiresAt,
		}
	}

	c.removeLocked(documentID)
	c.stats.Counter("released").Inc(1)
	return nil
}

func (c *controller) ReleaseAllHeldBy(ctx context.Context, userID uuid.UUID) []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	var released []uuid.UUID
	for documentID, entry := range c.locks {
		if entry.lock.HolderID == userID {
			released = append(released, documentID)
		}
	}
	for _, documentID := range released {
		c.removeLocked(documentID)
	}
	if len(released) > 0 {
		c.stats.Counter("released").Inc(int64(len(released)))
	}
	return released
}

func (c *controller) Holder(ctx context.Context, documentID uuid.UUID) (entity.Lock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.locks[documentID]
	if !ok {
		return entity.Lock{}, false
	}
	// A lock whose expiry has passed is treated as absent even before the
	// scheduled release fires.
	if entry.lock.Expired(c.clock.Now()) {
		c.removeLocked(documentID)
		return entity.Lock{}, false
	}
	return entry.lock, true
}

// expire is the scheduled backstop release. The expiry argument guards against
// releasing a lock that was refreshed after this timer was scheduled.
func (c *controller) expire(documentID uuid.UUID, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.locks[documentID]
	if !ok || !entry.lock.ExpiresAt.Equal(expiresAt) {
		return
	}
	c.logger.Debugw("lock expired", zap.Stringer("document", documentID), zap.Stringer("holder", entry.lock.HolderID))
	c.removeLocked(documentID)
	c.stats.Counter("expired").Inc(1)
}

func (c *controller) removeLocked(documentID uuid.UUID) {
	if entry, ok := c.locks[documentID]; ok && entry.timer != nil {
		entry.timer.Stop()
	}
	delete(c.locks, documentID)
	c.stats.Gauge("held").Update(float64(len(c.locks)))
}
