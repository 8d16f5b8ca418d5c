// Package handler decodes inbound wire frames and routes them to the engine.
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/collabforge/coedit/src/coedit/controller/engine"
	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/wirefx"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the router and registers it with the connection supervisor.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(Register),
)

// Router is the protocol layer between the transport and the engine. It
// implements wirefx.SessionHandler.
type Router struct {
	engine engine.Controller
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// Params are inbound parameters to construct the router.
type Params struct {
	fx.In

	Engine engine.Controller
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

// New creates a new protocol router.
func New(p Params) *Router {
	return &Router{
		engine: p.Engine,
		logger: p.Logger.With("component", "router"),
		stats:  p.Stats.SubScope("router"),
	}
}

// Register installs the router as the supervisor's session handler.
func Register(router *Router, supervisor wirefx.Supervisor) {
	supervisor.RegisterSessionHandler(router)
}

// Admit delegates the admission decision to the engine.
func (r *Router) Admit(ctx context.Context, join entity.JoinMessage) error {
	return r.engine.AdmitConnection(ctx, join)
}

// OnConnect reports a connection ready for protocol traffic.
func (r *Router) OnConnect(ctx context.Context, userID uuid.UUID, userName string, conn wirefx.Conn) {
	if err := r.engine.ConnectUser(ctx, userID, userName, conn); err != nil {
		r.logger.Warnw("connect handling failed", zap.Stringer("user", userID), zap.Error(err))
	}
}

// OnDisconnect unwinds a departed connection.
func (r *Router) OnDisconnect(ctx context.Context, userID uuid.UUID) {
	if err := r.engine.DisconnectUser(ctx, userID); err != nil {
		r.logger.Warnw("disconnect handling failed", zap.Stringer("user", userID), zap.Error(err))
	}
}

// OnSessionLost reports that reconnection was exhausted.
func (r *Router) OnSessionLost(ctx context.Context, err error) {
	r.engine.SessionLost(ctx, err)
}

// OnMessage probes the envelope type and dispatches to the matching engine
// operation. Unknown message types are logged and ignored, never fatal.
func (r *Router) OnMessage(ctx context.Context, from uuid.UUID, data []byte) error {
	var env entity.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}
	r.stats.Tagged(map[string]string{"type": string(env.Type)}).Counter("messages").Inc(1)

	switch env.Type {
	case entity.MessageTypeDocumentChange:
		return route(ctx, from, data, r.engine.HandleDocumentChange)
	case entity.MessageTypeDocumentChanged:
		return routeBroadcast(ctx, data, r.engine.HandleDocumentChanged)
	case entity.MessageTypeDocumentShared:
		return routeBroadcast(ctx, data, r.engine.HandleDocumentShared)
	case entity.MessageTypeDocumentResync:
		return routeBroadcast(ctx, data, r.engine.HandleDocumentResync)
	case entity.MessageTypeDocumentLock:
		return route(ctx, from, data, r.engine.HandleLockRequest)
	case entity.MessageTypeDocumentUnlock:
		return route(ctx, from, data, r.engine.HandleUnlockRequest)
	case entity.MessageTypeDocumentLocked:
		return routeBroadcast(ctx, data, r.engine.HandleDocumentLocked)
	case entity.MessageTypeDocumentUnlocked:
		return routeBroadcast(ctx, data, r.engine.HandleDocumentUnlocked)
	case entity.MessageTypeCursorUpdate:
		return route(ctx, from, data, r.engine.HandleCursorUpdate)
	case entity.MessageTypeCursorUpdated:
		return routeBroadcast(ctx, data, r.engine.HandleCursorUpdated)
	case entity.MessageTypeSelectionUpdate:
		return route(ctx, from, data, r.engine.HandleSelectionUpdate)
	case entity.MessageTypeSelectionUpdated:
		return routeBroadcast(ctx, data, r.engine.HandleSelectionUpdated)
	case entity.MessageTypeChat:
		return route(ctx, from, data, r.engine.HandleChat)
	case entity.MessageTypeHeartbeat:
		return route(ctx, from, data, r.engine.HandleHeartbeat)
	case entity.MessageTypeUserJoined:
		return routeBroadcast(ctx, data, r.engine.HandleUserJoined)
	case entity.MessageTypeUserLeft:
		return routeBroadcast(ctx, data, r.engine.HandleUserLeft)
	case entity.MessageTypeSessionState:
		return routeBroadcast(ctx, data, r.engine.HandleSessionState)
	default:
		r.logger.Debugw("ignoring unknown message type", "type", string(env.Type))
		return nil
	}
}

// route decodes a sender-attributed message and invokes its handler.
func route[T any](ctx context.Context, from uuid.UUID, data []byte, handle func(context.Context, uuid.UUID, T) error) error {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return handle(ctx, from, msg)
}

// routeBroadcast decodes a host-originated message and invokes its handler.
func routeBroadcast[T any](ctx context.Context, data []byte, handle func(context.Context, T) error) error {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return handle(ctx, msg)
}
