// Package autosave periodically persists shared documents and watches their
// backing files so out-of-band edits flow back into the session.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/collabforge/coedit/src/coedit/controller/docstore"
	"github.com/collabforge/coedit/src/coedit/controller/engine"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKey = "autosave"

const (
	_defaultInterval = 30 * time.Second
	_defaultDebounce = 500 * time.Millisecond
)

// Module is the Fx module for this package.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(func(Controller) {}),
)

// Config tunes the save cadence and the file watcher debounce window.
type Config struct {
	Interval time.Duration `yaml:"interval"`
	Debounce time.Duration `yaml:"debounce"`
}

// Controller drives periodic persistence of shared documents.
type Controller interface {
	// Flush writes every dirty locally shared document to disk.
	Flush(ctx context.Context) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Clock     clock.Clock
	Docs      docstore.Store
	Engine    engine.Controller
	Lifecycle fx.Lifecycle
}

// watcher is the subset of fsnotify.Watcher the controller schedules against.
type watcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsWatcher struct {
	w *fsnotify.Watcher
}

func (f fsWatcher) Add(name string) error { return f.w.Add(name) }

func (f fsWatcher) Close() error { return f.w.Close() }

func (f fsWatcher) Events() <-chan fsnotify.Event { return f.w.Events }

func (f fsWatcher) Errors() <-chan error { return f.w.Errors }

type controller struct {
	cfg     Config
	logger  *zap.SugaredLogger
	stats   tally.Scope
	clock   clock.Clock
	docs    docstore.Store
	engine  engine.Controller
	watcher watcher

	mu       sync.Mutex
	watched  map[string]bool
	debounce map[string]clock.Timer
	stopCh   chan struct{}
	stopped  bool
}

// New creates a new autosave controller and registers its lifecycle hooks.
func New(p Params) (Controller, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = _defaultInterval
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = _defaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating document watcher: %w", err)
	}

	c := &controller{
		cfg:      cfg,
		logger:   p.Logger.With("component", "autosave"),
		stats:    p.Stats.SubScope("autosave"),
		clock:    p.Clock,
		docs:     p.Docs,
		engine:   p.Engine,
		watcher:  fsWatcher{w: w},
		watched:  make(map[string]bool),
		debounce: make(map[string]clock.Timer),
		stopCh:   make(chan struct{}),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.start()
			return nil
		},
		OnStop: c.stop,
	})
	return c, nil
}

func (c *controller) start() {
	ticker := c.clock.NewTicker(c.cfg.Interval)
	go c.saveLoop(ticker)
	go c.watchLoop()
}

// stop flushes once more so an orderly shutdown never loses edits.
func (c *controller) stop(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	close(c.stopCh)
	for _, timer := range c.debounce {
		timer.Stop()
	}
	c.debounce = make(map[string]clock.Timer)
	c.mu.Unlock()

	if err := c.Flush(ctx); err != nil {
		c.logger.Warnw("final flush failed", zap.Error(err))
	}
	return c.watcher.Close()
}

// Flush writes every dirty locally shared document to disk.
func (c *controller) Flush(ctx context.Context) error {
	if err := c.docs.SaveAll(ctx); err != nil {
		c.stats.Counter("flush_errors").Inc(1)
		return err
	}
	c.stats.Counter("flushes").Inc(1)
	return nil
}

func (c *controller) saveLoop(ticker clock.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C():
			ctx := context.Background()
			c.reconcileWatches(ctx)
			if err := c.Flush(ctx); err != nil {
				c.logger.Warnw("autosave failed", zap.Error(err))
			}
		}
	}
}

// reconcileWatches subscribes to the backing file of every shared document
// that is not watched yet. Watches are never removed while the session runs;
// the watcher is torn down wholesale on stop.
func (c *controller) reconcileWatches(ctx context.Context) {
	for _, doc := range c.docs.Snapshots(ctx) {
		if doc.Path == "" {
			continue
		}
		c.mu.Lock()
		known := c.watched[doc.Path]
		if !known {
			c.watched[doc.Path] = true
		}
		c.mu.Unlock()
		if known {
			continue
		}
		if err := c.watcher.Add(doc.Path); err != nil {
			c.logger.Warnw("watching document failed", "path", doc.Path, zap.Error(err))
			c.mu.Lock()
			delete(c.watched, doc.Path)
			c.mu.Unlock()
		}
	}
}

func (c *controller) watchLoop() {
	for {
		select {
		case <-c.stopCh:
			return
		case event, ok := <-c.watcher.Events():
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			c.handleDebounce(event)
		case err, ok := <-c.watcher.Errors():
			if !ok {
				return
			}
			c.logger.Warnw("document watcher failure", zap.Error(err))
		}
	}
}

// handleDebounce coalesces the burst of events an editor emits for one save
// into a single resync per file.
func (c *controller) handleDebounce(event fsnotify.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if timer, exists := c.debounce[event.Name]; exists {
		timer.Stop()
	}
	path := event.Name
	c.debounce[path] = c.clock.AfterFunc(c.cfg.Debounce, func() {
		c.resync(path)
	})
}

// resync folds an on-disk rewrite back into the change stream. Writes made by
// Flush itself land here too; they diff to nothing and are dropped by the
// document store.
func (c *controller) resync(path string) {
	c.mu.Lock()
	delete(c.debounce, path)
	c.mu.Unlock()

	c.stats.Counter("external_edits").Inc(1)
	if err := c.engine.HandleExternalEdit(context.Background(), path); err != nil {
		c.logger.Warnw("external edit resync failed", "path", path, zap.Error(err))
	}
}
