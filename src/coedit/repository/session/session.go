// Package session tracks the hosted session, its membership and connected users.
package session

import (
	"context"
	"slices"
	"sync"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/collabforge/coedit/src/coedit/mapper"
	"github.com/collabforge/coedit/src/coedit/model"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

//go:generate mockgen -source=session.go -destination=registrymock/session_mock.go -package=registrymock -mock_names=Registry=MockRegistry

// Registry is the authority for session lifecycle and membership. At most one
// session is active per process. The admission check and the membership
// mutation that follows it are guarded by one mutex, so no two candidate
// connections can both pass the capacity check.
type Registry interface {
	// StartSession creates a session hosted by hostID. Fails with
	// SessionAlreadyActiveError if one is already active.
	StartSession(ctx context.Context, hostID uuid.UUID, cfg entity.SessionConfig) (*entity.Session, error)
	// AdoptSession installs a remote session received in a session-state sync.
	AdoptSession(ctx context.Context, s *entity.Session) error
	// ActiveSession returns the current session.
	ActiveSession(ctx context.Context) (*entity.Session, error)
	// EndSession tears the session down, dropping all users.
	EndSession(ctx context.Context) error

	// AdmitConnection gates a candidate connection before its handshake
	// completes, then reserves a membership slot atomically.
	AdmitConnection(ctx context.Context, req entity.AdmissionRequest) error
	// RecordJoin registers an admitted user and appends it to the member list.
	RecordJoin(ctx context.Context, user *entity.User) error
	// RecordLeave removes the user and its membership entry.
	RecordLeave(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// User returns a connected user by id.
	User(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	// Users returns connected users in join order.
	Users(ctx context.Context) ([]*entity.User, error)
	// TouchUser refreshes a user's last-activity timestamp.
	TouchUser(ctx context.Context, userID uuid.UUID) error
	// JoinOrder reports the position at which the user joined, for stable
	// presence color assignment.
	JoinOrder(ctx context.Context, userID uuid.UUID) (int, error)
	// AttachDocument records a shared document on the session.
	AttachDocument(ctx context.Context, documentID uuid.UUID) error
}

type registry struct {
	mu      sync.Mutex
	session *model.Session
	users   map[uuid.UUID]*model.User
	// joinSeq remembers every user's join position for the session lifetime,
	// so colors stay stable across reconnects.
	joinSeq map[uuid.UUID]int
	clock   clock.Clock
	stats   tally.Scope
}

// Params are the inbound dependencies for the registry.
type Params struct {
	fx.In

	Clock clock.Clock
	Stats tally.Scope
}

// New returns a Registry backed by an in-memory store.
func New(p Params) Registry {
	return &registry{
		users:   make(map[uuid.UUID]*model.User),
		joinSeq: make(map[uuid.UUID]int),
		clock:   p.Clock,
		stats:   p.Stats.SubScope("session"),
	}
}

func (r *registry) StartSession(ctx context.Context, hostID uuid.UUID, cfg entity.SessionConfig) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return nil, &errors.SessionAlreadyActiveError{SessionID: r.session.UUID}
	}

	s := &entity.Session{
		UUID:        uuid.Must(uuid.NewV4()),
		HostID:      hostID,
		DisplayName: cfg.DisplayName,
		CreatedAt:   r.clock.Now(),
		Password:    cfg.Password,
		MaxUsers:    cfg.MaxUsers,
		Metadata:    cfg.Metadata,
		Members:     []uuid.UUID{hostID},
	}
	r.session = mapper.SessionToModel(s)
	r.joinSeq[hostID] = 0
	r.stats.Counter("sessions_started").Inc(1)
	return s, nil
}

func (r *registry) AdoptSession(ctx context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil {
		return errors.New("can't adopt nil session")
	}
	r.session = mapper.SessionToModel(s)
	for i, id := range s.Members {
		r.joinSeq[id] = i
	}
	return nil
}

func (r *registry) ActiveSession(ctx context.Context) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeSessionLocked()
}

func (r *registry) activeSessionLocked() (*entity.Session, error) {
	if r.session == nil {
		return nil, &errors.NoActiveSessionError{}
	}
	return mapper.ModelToSession(r.session)
}

func (r *registry) EndSession(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = nil
	r.users = make(map[uuid.UUID]*model.User)
	r.joinSeq = make(map[uuid.UUID]int)
	r.stats.Gauge("active_users").Update(0)
	return nil
}

func (r *registry) AdmitConnection(ctx context.Context, req entity.AdmissionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return &errors.AdmissionDeniedError{Reason: "no active session"}
	}
	if req.SessionID != r.session.UUID {
		return &errors.AdmissionDeniedError{Reason: "unknown session"}
	}
	if r.session.Password != "" && req.Password != r.session.Password {
		return &errors.AdmissionDeniedError{Reason: "invalid password"}
	}
	// MaxUsers bounds connected users; the host does not occupy a slot.
	if r.session.MaxUsers > 0 && len(r.users) >= r.session.MaxUsers {
		return &errors.AdmissionDeniedError{Reason: "session is full"}
	}

	// Reserve the slot under the same lock acquisition, so a concurrent
	// candidate cannot also pass the capacity check. The reservation is
	// released by RecordLeave if the handshake fails afterwards.
	now := r.clock.Now()
	r.users[req.UserID] = &model.User{
		UUID:         req.UserID,
		ConnectedAt:  now,
		LastActivity: now,
	}
	r.stats.Gauge("active_users").Update(float64(len(r.users)))
	return nil
}

func (r *registry) RecordJoin(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return &errors.NoActiveSessionError{}
	}
	if user == nil {
		return errors.New("can't record nil user")
	}

	m := mapper.UserToModel(user)
	if reserved, ok := r.users[user.UUID]; ok {
		// Keep the reservation's connect timestamp.
		m.ConnectedAt = reserved.ConnectedAt
	}
	r.users[user.UUID] = m
	if !slices.Contains(r.session.Members, user.UUID) {
		r.session.Members = append(r.session.Members, user.UUID)
	}
	if _, ok := r.joinSeq[user.UUID]; !ok {
		r.joinSeq[user.UUID] = len(r.joinSeq)
	}
	r.stats.Gauge("active_users").Update(float64(len(r.users)))
	return nil
}

func (r *registry) RecordLeave(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, &errors.UserNotFoundError{UserID: userID}
	}
	delete(r.users, userID)
	if r.session != nil {
		r.session.Members = slices.DeleteFunc(r.session.Members, func(id uuid.UUID) bool {
			return id == userID
		})
	}
	r.stats.Gauge("active_users").Update(float64(len(r.users)))
	return mapper.ModelToUser(u)
}

func (r *registry) User(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, &errors.UserNotFoundError{UserID: userID}
	}
	return mapper.ModelToUser(u)
}

func (r *registry) Users(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		user, err := mapper.ModelToUser(u)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	slices.SortFunc(result, func(a, b *entity.User) int {
		return r.joinSeq[a.UUID] - r.joinSeq[b.UUID]
	})
	return result, nil
}

func (r *registry) TouchUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return &errors.UserNotFoundError{UserID: userID}
	}
	u.LastActivity = r.clock.Now()
	return nil
}

func (r *registry) JoinOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq, ok := r.joinSeq[userID]
	if !ok {
		return 0, &errors.UserNotFoundError{UserID: userID}
	}
	return seq, nil
}

func (r *registry) AttachDocument(ctx context.Context, documentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return &errors.NoActiveSessionError{}
	}
	if !slices.Contains(r.session.Documents, documentID) {
		r.session.Documents = append(r.session.Documents, documentID)
	}
	return nil
}
