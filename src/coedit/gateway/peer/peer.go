// Package peer fans outbound protocol messages out to connected participants.
package peer

import (
	"context"
	"fmt"
	"sync"

	"github.com/collabforge/coedit/src/coedit/internal/wirefx"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

//go:generate mockgen -source=peer.go -destination=peermock/peer_mock.go -package=peermock

// Gateway delivers outbound messages to connected peers. The host role sends
// to every registered user; the client role has exactly one peer (the host)
// and sends everything to it regardless of any exclusion.
type Gateway interface {
	// Register associates a user with an open connection.
	Register(ctx context.Context, userID uuid.UUID, conn wirefx.Conn) error
	// Deregister drops a user's connection from the gateway.
	Deregister(ctx context.Context, userID uuid.UUID) error
	// Broadcast fans a message out to every connected peer except exclude.
	// Pass uuid.Nil to exclude nobody.
	Broadcast(ctx context.Context, msg any, exclude uuid.UUID) error
	// Send delivers a message to one connected user. It is a no-op if that
	// user's connection is not currently open.
	Send(ctx context.Context, msg any, target uuid.UUID) error
	// Close closes every registered connection.
	Close(ctx context.Context) error
}

type hostGateway struct {
	conns  map[uuid.UUID]wirefx.Conn
	connMu sync.Mutex
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// NewHost returns the Gateway for the hosting role.
func NewHost(logger *zap.SugaredLogger, stats tally.Scope) Gateway {
	return &hostGateway{
		conns:  make(map[uuid.UUID]wirefx.Conn),
		logger: logger.With("role", "host"),
		stats:  stats.SubScope("peer"),
	}
}

func (g *hostGateway) Register(ctx context.Context, userID uuid.UUID, conn wirefx.Conn) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()

	g.conns[userID] = conn
	g.stats.Gauge("connections").Update(float64(len(g.conns)))
	return nil
}

func (g *hostGateway) Deregister(ctx context.Context, userID uuid.UUID) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()

	delete(g.conns, userID)
	g.stats.Gauge("connections").Update(float64(len(g.conns)))
	return nil
}

func (g *hostGateway) Broadcast(ctx context.Context, msg any, exclude uuid.UUID) error {
	g.connMu.Lock()
	targets := make(map[uuid.UUID]wirefx.Conn, len(g.conns))
	for id, conn := range g.conns {
		if id == exclude {
			continue
		}
		targets[id] = conn
	}
	g.connMu.Unlock()

	var errs error
	for id, conn := range targets {
		if err := conn.WriteJSON(msg); err != nil {
			// A slow or dead peer must not abort delivery to the rest; the
			// read pump notices the broken connection and triggers cleanup.
			g.logger.Warnw("broadcast delivery failed", zap.Stringer("user", id), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("sending to %s: %w", id, err))
		}
	}
	g.stats.Counter("broadcasts").Inc(1)
	return errs
}

func (g *hostGateway) Send(ctx context.Context, msg any, target uuid.UUID) error {
	g.connMu.Lock()
	conn, ok := g.conns[target]
	g.connMu.Unlock()

	if !ok {
		return nil
	}
	return conn.WriteJSON(msg)
}

func (g *hostGateway) Close(ctx context.Context) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()

	var errs error
	for _, conn := range g.conns {
		errs = multierr.Append(errs, conn.Close())
	}
	g.conns = make(map[uuid.UUID]wirefx.Conn)
	g.stats.Gauge("connections").Update(0)
	return errs
}

type clientGateway struct {
	conn   wirefx.Conn
	connMu sync.Mutex
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// NewClient returns the Gateway for the client role. Its single peer is the
// session host.
func NewClient(logger *zap.SugaredLogger, stats tally.Scope) Gateway {
	return &clientGateway{
		logger: logger.With("role", "client"),
		stats:  stats.SubScope("peer"),
	}
}

func (g *clientGateway) Register(ctx context.Context, userID uuid.UUID, conn wirefx.Conn) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()

	g.conn = conn
	g.stats.Gauge("connections").Update(1)
	return nil
}

func (g *clientGateway) Deregister(ctx context.Context, userID uuid.UUID) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()

	g.conn = nil
	g.stats.Gauge("connections").Update(0)
	return nil
}

// Broadcast on a client always goes to the host; the exclude parameter only
// has meaning for the hosting role.
func (g *clientGateway) Broadcast(ctx context.Context, msg any, exclude uuid.UUID) error {
	g.connMu.Lock()
	conn := g.conn
	g.connMu.Unlock()

	if conn == nil {
		return nil
	}
	g.stats.Counter("broadcasts").Inc(1)
	return conn.WriteJSON(msg)
}

func (g *clientGateway) Send(ctx context.Context, msg any, target uuid.UUID) error {
	return g.Broadcast(ctx, msg, uuid.Nil)
}

func (g *clientGateway) Close(ctx context.Context) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()

	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	g.stats.Gauge("connections").Update(0)
	return err
}
