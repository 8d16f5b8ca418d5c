// Package docstore holds the shared documents and is the single writer of
// their content. On the hosting side it runs the transformation pipeline that
// orders concurrent edits; on the client side it replays the host's ordered
// changes.
package docstore

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/clock"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/collabforge/coedit/src/coedit/internal/fs"
	"github.com/collabforge/coedit/src/coedit/internal/ot"
	"github.com/collabforge/coedit/src/coedit/internal/textdiff"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

//go:generate mockgen -source=docstore.go -destination=docstoremock/docstore_mock.go -package=docstoremock -mock_names=Store=MockStore

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// LockChecker is the subset of the lock controller the store consults before
// accepting an edit.
type LockChecker interface {
	Holder(ctx context.Context, documentID uuid.UUID) (entity.Lock, bool)
}

// Store manages shared document content, version counters and change history.
type Store interface {
	// Share reads a file from disk and registers it as a shared document at
	// version 1 with an empty history. Sharing an already shared path returns
	// the existing document.
	Share(ctx context.Context, path string, ownerID uuid.UUID, opts entity.ShareOptions) (*entity.Document, error)
	// Adopt installs a document snapshot received from the session host.
	Adopt(ctx context.Context, doc *entity.Document) error
	// Apply validates a change against the current state, transforms it past
	// concurrent history, splices it into the content and appends it to the
	// history. The returned change carries the assigned result version.
	Apply(ctx context.Context, documentID uuid.UUID, c entity.Change) (entity.Change, error)
	// ApplyOrdered replays a change already ordered by the host. The change
	// must carry the next result version; a gap fails with a conflict so the
	// caller can request a resync.
	ApplyOrdered(ctx context.Context, documentID uuid.UUID, c entity.Change) error
	// Get returns the live document.
	Get(ctx context.Context, documentID uuid.UUID) (*entity.Document, error)
	// Snapshot returns a copy of the document safe to hand to other goroutines.
	Snapshot(ctx context.Context, documentID uuid.UUID) (*entity.Document, error)
	// Snapshots returns copies of every shared document.
	Snapshots(ctx context.Context) []*entity.Document
	// History returns the ordered change history of a document.
	History(ctx context.Context, documentID uuid.UUID) ([]entity.Change, error)
	// Resync overwrites content and version with an authoritative snapshot,
	// clearing the history and any conflict flag.
	Resync(ctx context.Context, documentID uuid.UUID, content string, version int) error
	// SyncFromDisk diffs the on-disk file against the in-memory content and
	// applies the difference as changes authored by the document owner. It
	// returns the applied changes for broadcast.
	SyncFromDisk(ctx context.Context, documentID uuid.UUID) ([]entity.Change, error)
	// MarkConflicted flags a document as diverged from the host.
	MarkConflicted(ctx context.Context, documentID uuid.UUID) error
	// Save writes a document back to its file if it has unsaved changes.
	Save(ctx context.Context, documentID uuid.UUID) error
	// SaveAll saves every locally shared document, reporting failures without
	// stopping at the first one.
	SaveAll(ctx context.Context) error
}

type docState struct {
	doc     entity.Document
	history []entity.Change
	// persist is set for documents shared from a local file; adopted remote
	// documents are never written to disk.
	persist      bool
	savedVersion int
}

type store struct {
	mu     sync.Mutex
	docs   map[uuid.UUID]*docState
	byPath map[string]uuid.UUID
	fs     fs.CoeditFS
	locks  LockChecker
	clock  clock.Clock
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// Params are inbound parameters to construct the document store.
type Params struct {
	fx.In

	FS     fs.CoeditFS
	Locks  LockChecker
	Clock  clock.Clock
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

// New creates a new document store.
func New(p Params) Store {
	return &store{
		docs:   make(map[uuid.UUID]*docState),
		byPath: make(map[string]uuid.UUID),
		fs:     p.FS,
		locks:  p.Locks,
		clock:  p.Clock,
		logger: p.Logger.With("component", "docstore"),
		stats:  p.Stats.SubScope("documents"),
	}
}

func (s *store) Share(ctx context.Context, path string, ownerID uuid.UUID, opts entity.ShareOptions) (*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byPath[path]; ok {
		return snapshotLocked(s.docs[id]), nil
	}

	content, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = filepath.Base(path)
	}
	state := &docState{
		doc: entity.Document{
			UUID:     id,
			Path:     path,
			Name:     name,
			Content:  string(content),
			Version:  1,
			OwnerID:  ownerID,
			SharedAt: s.clock.Now(),
			ReadOnly: opts.ReadOnly,
		},
		persist:      true,
		savedVersion: 1,
	}
	s.docs[id] = state
	s.byPath[path] = id
	s.stats.Gauge("shared").Update(float64(len(s.docs)))
	s.logger.Infow("document shared", zap.Stringer("document", id), "path", path)
	return snapshotLocked(state), nil
}

func (s *store) Adopt(ctx context.Context, doc *entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *doc
	s.docs[doc.UUID] = &docState{doc: cp, savedVersion: cp.Version}
	s.stats.Gauge("shared").Update(float64(len(s.docs)))
	return nil
}

func (s *store) Apply(ctx context.Context, documentID uuid.UUID, c entity.Change) (entity.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.docs[documentID]
	if !ok {
		return entity.Change{}, &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	if state.doc.ReadOnly && c.AuthorID != state.doc.OwnerID {
		return entity.Change{}, &errors.DocumentReadOnlyError{DocumentID: documentID}
	}
	if held, locked := s.locks.Holder(ctx, documentID); locked && held.HolderID != c.AuthorID {
		return entity.Change{}, &errors.DocumentLockedError{
			DocumentID: documentID,
			HolderID:   held.HolderID,
			ExpiresAt:  held.ExpiresAt,
		}
	}

	if c.UUID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return entity.Change{}, err
		}
		c.UUID = id
	}

	transformed := ot.TransformAgainstHistory(c, state.history)
	state.doc.Content = ot.Apply(state.doc.Content, transformed)
	state.doc.Version++
	transformed.ResultVersion = state.doc.Version
	transformed.Timestamp = s.clock.Now()
	state.history = append(state.history, transformed)

	s.stats.Counter("changes_applied").Inc(1)
	return transformed, nil
}

func (s *store) ApplyOrdered(ctx context.Context, documentID uuid.UUID, c entity.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.docs[documentID]
	if !ok {
		return &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	if c.ResultVersion != state.doc.Version+1 {
		state.doc.Conflicted = true
		s.stats.Counter("version_gaps").Inc(1)
		return &errors.DocumentConflictError{
			DocumentID:      documentID,
			LocalVersion:    state.doc.Version,
			ReceivedVersion: c.ResultVersion,
		}
	}

	state.doc.Content = ot.Apply(state.doc.Content, c)
	state.doc.Version = c.ResultVersion
	state.history = append(state.history, c)
	s.stats.Counter("changes_replayed").Inc(1)
	return nil
}

func (s *store) Get(ctx context.Context, documentID uuid.UUID) (*entity.Document, error) {
	return s.Snapshot(ctx, documentID)
}

func (s *store) Snapshot(ctx context.Context, documentID uuid.UUID) (*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.docs[documentID]
	if !ok {
		return nil, &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	return snapshotLocked(state), nil
}

func (s *store) Snapshots(ctx context.Context) []*entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.Document, 0, len(s.docs))
	for _, state := range s.docs {
		out = append(out, snapshotLocked(state))
	}
	return out
}

func (s *store) History(ctx context.Context, documentID uuid.UUID) ([]entity.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.docs[documentID]
	if !ok {
		return nil, &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	out := make([]entity.Change, len(state.history))
	copy(out, state.history)
	return out, nil
}

func (s *store) Resync(ctx context.Context, documentID uuid.UUID, content string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.docs[documentID]
	if !ok {
		return &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	state.doc.Content = content
	state.doc.Version = version
	state.doc.Conflicted = false
	state.history = nil
	s.stats.Counter("resyncs").Inc(1)
	return nil
}

func (s *store) SyncFromDisk(ctx context.Context, documentID uuid.UUID) ([]entity.Change, error) {
	s.mu.Lock()
	state, ok := s.docs[documentID]
	if !ok || !state.persist {
		s.mu.Unlock()
		if !ok {
			return nil, &errors.DocumentNotFoundError{DocumentID: documentID}
		}
		return nil, nil
	}
	path := state.doc.Path
	s.mu.Unlock()

	raw, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	after := string(raw)
	if after == state.doc.Content {
		return nil, nil
	}

	var applied []entity.Change
	for _, c := range textdiff.Changes(state.doc.Content, after) {
		id, err := uuid.NewV4()
		if err != nil {
			return applied, err
		}
		c.UUID = id
		c.AuthorID = state.doc.OwnerID
		c.BaseVersion = state.doc.Version
		state.doc.Content = ot.Apply(state.doc.Content, c)
		state.doc.Version++
		c.ResultVersion = state.doc.Version
		c.Timestamp = s.clock.Now()
		state.history = append(state.history, c)
		applied = append(applied, c)
	}

	// The disk content is already current, so the new versions need no save.
	state.savedVersion = state.doc.Version
	s.stats.Counter("changes_applied").Inc(int64(len(applied)))
	return applied, nil
}

func (s *store) MarkConflicted(ctx context.Context, documentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.docs[documentID]
	if !ok {
		return &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	state.doc.Conflicted = true
	return nil
}

func (s *store) Save(ctx context.Context, documentID uuid.UUID) error {
	s.mu.Lock()
	state, ok := s.docs[documentID]
	if !ok {
		s.mu.Unlock()
		return &errors.DocumentNotFoundError{DocumentID: documentID}
	}
	if !state.persist || state.savedVersion == state.doc.Version {
		s.mu.Unlock()
		return nil
	}
	path, content, version := state.doc.Path, state.doc.Content, state.doc.Version
	s.mu.Unlock()

	if err := s.fs.WriteFile(path, content); err != nil {
		s.stats.Counter("save_failures").Inc(1)
		return err
	}

	s.mu.Lock()
	// Another change may have landed while the write was in flight; only
	// advance the watermark to what was actually written.
	if version > state.savedVersion {
		state.savedVersion = version
	}
	s.mu.Unlock()
	s.stats.Counter("saves").Inc(1)
	return nil
}

func (s *store) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs error
	for _, id := range ids {
		if err := s.Save(ctx, id); err != nil {
			s.logger.Warnw("autosave failed", zap.Stringer("document", id), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func snapshotLocked(state *docState) *entity.Document {
	cp := state.doc
	return &cp
}
