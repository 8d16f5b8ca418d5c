// Package engine coordinates a collaboration session: lifecycle, document
// sharing, edit ordering, locks and presence. On a host it is the ordering
// authority; on a client it mirrors the host's decisions.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/collabforge/coedit/src/coedit/controller/docstore"
	"github.com/collabforge/coedit/src/coedit/controller/lock"
	"github.com/collabforge/coedit/src/coedit/controller/presence"
	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/gateway/peer"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/collabforge/coedit/src/coedit/internal/sessioninfofile"
	"github.com/collabforge/coedit/src/coedit/internal/wirefx"
	"github.com/collabforge/coedit/src/coedit/mapper"
	"github.com/collabforge/coedit/src/coedit/repository/session"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _configurationKey = "session"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Config holds session-level settings.
type Config struct {
	// Defaults applied when hosting without explicit options.
	Defaults entity.SessionConfig `yaml:"defaults"`
	// LockDuration is used when a lock request does not carry its own.
	LockDuration time.Duration `yaml:"lockDuration"`
}

// Controller is the collaboration engine.
type Controller interface {
	// HostSession starts hosting a new session and returns its join link.
	HostSession(ctx context.Context, userName string, cfg entity.SessionConfig) (entity.JoinLink, error)
	// JoinSession connects to a session identified by a collab:// link.
	JoinSession(ctx context.Context, rawLink, userName, password string) error
	// LeaveSession saves all documents and tears the session down.
	LeaveSession(ctx context.Context) error
	// LocalUser returns the identity this process participates as.
	LocalUser() entity.User
	// Role returns the current session role.
	Role() entity.Role

	// ShareDocument registers a local file for collaboration and announces it.
	ShareDocument(ctx context.Context, path string, opts entity.ShareOptions) (*entity.Document, error)
	// SubmitChange proposes a local edit.
	SubmitChange(ctx context.Context, documentID uuid.UUID, input entity.ChangeInput) error
	// LockDocument requests an exclusive edit lock for the local user.
	LockDocument(ctx context.Context, documentID uuid.UUID, duration time.Duration) error
	// UnlockDocument releases a lock held by the local user.
	UnlockDocument(ctx context.Context, documentID uuid.UUID) error
	// MoveCursor reports a local cursor move.
	MoveCursor(ctx context.Context, documentID uuid.UUID, position int) error
	// SelectRange reports a local selection change.
	SelectRange(ctx context.Context, documentID uuid.UUID, r entity.SelectionRange) error
	// SendChat relays a chat line to all other participants.
	SendChat(ctx context.Context, text string) error
	// HandleExternalEdit folds an on-disk rewrite of a shared file into the
	// change stream.
	HandleExternalEdit(ctx context.Context, path string) error

	// Transport-facing operations, invoked by the protocol handler.
	AdmitConnection(ctx context.Context, join entity.JoinMessage) error
	ConnectUser(ctx context.Context, userID uuid.UUID, userName string, conn wirefx.Conn) error
	DisconnectUser(ctx context.Context, userID uuid.UUID) error
	SessionLost(ctx context.Context, err error)

	// Inbound protocol operations, one per message type.
	HandleDocumentChange(ctx context.Context, from uuid.UUID, msg entity.DocumentChangeMessage) error
	HandleDocumentChanged(ctx context.Context, msg entity.DocumentChangedMessage) error
	HandleDocumentShared(ctx context.Context, msg entity.DocumentSharedMessage) error
	HandleDocumentResync(ctx context.Context, msg entity.DocumentResyncMessage) error
	HandleLockRequest(ctx context.Context, from uuid.UUID, msg entity.DocumentLockMessage) error
	HandleUnlockRequest(ctx context.Context, from uuid.UUID, msg entity.DocumentUnlockMessage) error
	HandleDocumentLocked(ctx context.Context, msg entity.DocumentLockedMessage) error
	HandleDocumentUnlocked(ctx context.Context, msg entity.DocumentUnlockedMessage) error
	HandleCursorUpdate(ctx context.Context, from uuid.UUID, msg entity.CursorUpdateMessage) error
	HandleCursorUpdated(ctx context.Context, msg entity.CursorUpdatedMessage) error
	HandleSelectionUpdate(ctx context.Context, from uuid.UUID, msg entity.SelectionUpdateMessage) error
	HandleSelectionUpdated(ctx context.Context, msg entity.SelectionUpdatedMessage) error
	HandleChat(ctx context.Context, from uuid.UUID, msg entity.ChatMessage) error
	HandleHeartbeat(ctx context.Context, from uuid.UUID, msg entity.HeartbeatMessage) error
	HandleUserJoined(ctx context.Context, msg entity.UserEventMessage) error
	HandleUserLeft(ctx context.Context, msg entity.UserEventMessage) error
	HandleSessionState(ctx context.Context, msg entity.SessionStateMessage) error
}

type controller struct {
	registry   session.Registry
	docs       docstore.Store
	locks      lock.Controller
	presence   presence.Controller
	supervisor wirefx.Supervisor
	infoFile   sessioninfofile.SessionInfoFile
	clock      clock.Clock
	logger     *zap.SugaredLogger
	stats      tally.Scope
	cfg        Config

	newHostGateway   func() peer.Gateway
	newClientGateway func() peer.Gateway

	mu        sync.Mutex
	role      entity.Role
	localUser entity.User
	gateway   peer.Gateway
}

// Params are inbound parameters to construct the engine.
type Params struct {
	fx.In

	Registry   session.Registry
	Documents  docstore.Store
	Locks      lock.Controller
	Presence   presence.Controller
	Supervisor wirefx.Supervisor
	InfoFile   sessioninfofile.SessionInfoFile
	Config     config.Provider
	Clock      clock.Clock
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

// New creates a new collaboration engine.
func New(p Params) (Controller, error) {
	cfg := Config{
		LockDuration: 5 * time.Minute,
	}
	if err := p.Config.Get(_configurationKey).Populate(&cfg); err != nil {
		return nil, err
	}

	logger := p.Logger.With("component", "engine")
	stats := p.Stats.SubScope("engine")
	c := &controller{
		registry:   p.Registry,
		docs:       p.Documents,
		locks:      p.Locks,
		presence:   p.Presence,
		supervisor: p.Supervisor,
		infoFile:   p.InfoFile,
		clock:      p.Clock,
		logger:     logger,
		stats:      stats,
		cfg:        cfg,
		newHostGateway: func() peer.Gateway {
			return peer.NewHost(logger, stats)
		},
		newClientGateway: func() peer.Gateway {
			return peer.NewClient(logger, stats)
		},
	}
	return c, nil
}

func (c *controller) HostSession(ctx context.Context, userName string, cfg entity.SessionConfig) (entity.JoinLink, error) {
	user, err := c.newLocalUser(userName)
	if err != nil {
		return entity.JoinLink{}, err
	}

	if cfg.MaxUsers == 0 {
		cfg.MaxUsers = c.cfg.Defaults.MaxUsers
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = c.cfg.Defaults.DisplayName
	}

	sess, err := c.registry.StartSession(ctx, user.UUID, cfg)
	if err != nil {
		return entity.JoinLink{}, err
	}

	link, err := c.supervisor.Host(ctx, sess.UUID)
	if err != nil {
		c.registry.EndSession(ctx)
		return entity.JoinLink{}, err
	}

	if err := c.registry.RecordJoin(ctx, &user); err != nil {
		return entity.JoinLink{}, err
	}

	c.mu.Lock()
	c.role = entity.RoleHost
	c.localUser = user
	c.gateway = c.newHostGateway()
	c.mu.Unlock()

	rawLink := mapper.FormatJoinLink(link.Host, link.Port, link.SessionID)
	if err := c.infoFile.UpdateField("joinLink", rawLink); err != nil {
		c.logger.Warnw("join link not written to info file", zap.Error(err))
	}
	if err := c.infoFile.UpdateField("address", fmt.Sprintf("%s:%d", link.Host, link.Port)); err != nil {
		c.logger.Warnw("address not written to info file", zap.Error(err))
	}

	c.stats.Counter("sessions_hosted").Inc(1)
	c.logger.Infow("session hosted", zap.Stringer("session", sess.UUID), "link", rawLink)
	return link, nil
}

func (c *controller) JoinSession(ctx context.Context, rawLink, userName, password string) error {
	link, err := mapper.ParseJoinLink(rawLink)
	if err != nil {
		return err
	}

	user, err := c.newLocalUser(userName)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.role = entity.RoleClient
	c.localUser = user
	c.gateway = c.newClientGateway()
	c.mu.Unlock()

	err = c.supervisor.Join(ctx, link, entity.JoinMessage{
		UserID:   user.UUID,
		UserName: user.Name,
		Password: password,
	})
	if err != nil {
		c.mu.Lock()
		c.role = ""
		c.gateway = nil
		c.mu.Unlock()
		return err
	}

	c.stats.Counter("sessions_joined").Inc(1)
	c.logger.Infow("session joined", zap.Stringer("session", link.SessionID), "user", user.Name)
	return nil
}

func (c *controller) LeaveSession(ctx context.Context) error {
	var errs error
	if err := c.docs.SaveAll(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	c.mu.Lock()
	gateway := c.gateway
	c.gateway = nil
	c.role = ""
	c.mu.Unlock()

	if gateway != nil {
		errs = multierr.Append(errs, gateway.Close(ctx))
	}
	errs = multierr.Append(errs, c.supervisor.Shutdown(ctx))

	if err := c.registry.EndSession(ctx); err != nil {
		if _, ok := err.(*errors.NoActiveSessionError); !ok {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (c *controller) LocalUser() entity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localUser
}

func (c *controller) Role() entity.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

func (c *controller) SessionLost(ctx context.Context, err error) {
	c.logger.Errorw("session lost", zap.Error(err))
	c.stats.Counter("sessions_lost").Inc(1)
	if saveErr := c.docs.SaveAll(ctx); saveErr != nil {
		c.logger.Warnw("final save incomplete", zap.Error(saveErr))
	}
	if endErr := c.registry.EndSession(ctx); endErr != nil {
		c.logger.Debugw("session already ended", zap.Error(endErr))
	}
}

func (c *controller) newLocalUser(name string) (entity.User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return entity.User{}, err
	}
	now := c.clock.Now()
	return entity.User{
		UUID:         id,
		Name:         name,
		ConnectedAt:  now,
		LastActivity: now,
	}, nil
}

func (c *controller) isHost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role == entity.RoleHost
}

func (c *controller) currentGateway() peer.Gateway {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gateway
}

// broadcast fans a message out, tolerating partial delivery failures.
func (c *controller) broadcast(ctx context.Context, msg any, exclude uuid.UUID) {
	gateway := c.currentGateway()
	if gateway == nil {
		return
	}
	if err := gateway.Broadcast(ctx, msg, exclude); err != nil {
		c.logger.Warnw("broadcast incomplete", zap.Error(err))
	}
}

func (c *controller) send(ctx context.Context, msg any, target uuid.UUID) {
	gateway := c.currentGateway()
	if gateway == nil {
		return
	}
	if err := gateway.Send(ctx, msg, target); err != nil {
		c.logger.Warnw("unicast failed", zap.Stringer("user", target), zap.Error(err))
	}
}
