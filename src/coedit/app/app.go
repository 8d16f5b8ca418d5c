// Package app assembles the coedit daemon from its Fx modules.
package app

import (
	"context"
	"time"

	"github.com/collabforge/coedit/src/coedit/controller/autosave"
	"github.com/collabforge/coedit/src/coedit/controller/docstore"
	"github.com/collabforge/coedit/src/coedit/controller/engine"
	"github.com/collabforge/coedit/src/coedit/controller/lock"
	"github.com/collabforge/coedit/src/coedit/controller/presence"
	"github.com/collabforge/coedit/src/coedit/handler"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/core"
	"github.com/collabforge/coedit/src/coedit/internal/fs"
	"github.com/collabforge/coedit/src/coedit/internal/sessioninfofile"
	"github.com/collabforge/coedit/src/coedit/internal/wirefx"
	"github.com/collabforge/coedit/src/coedit/repository/session"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the coedit daemon application module.
var Module = fx.Options(
	handler.Module, // inbounds
	wirefx.Module,
	session.Module,
	docstore.Module,
	lock.Module,
	presence.Module,
	engine.Module,
	autosave.Module,
	clock.Module,
	fs.Module,
	sessioninfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(l lock.Controller) docstore.LockChecker { return l }),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "coedit",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
)
