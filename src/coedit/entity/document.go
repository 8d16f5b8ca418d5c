package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// ChangeKind discriminates the payload of a Change.
type ChangeKind string

const (
	// ChangeInsert splices text at a position.
	ChangeInsert ChangeKind = "insert"
	// ChangeDelete removes a run of characters from a position.
	ChangeDelete ChangeKind = "delete"
	// ChangeReplace removes a run of characters and splices text at the same position.
	ChangeReplace ChangeKind = "replace"
)

// Change is a single validated edit in a document's history.
//
// BaseVersion is the document version the author drafted the change against,
// ResultVersion the version assigned by the host after the transformed change
// was applied. Replaying the full ordered history from version 1 reproduces
// the current content on every peer.
type Change struct {
	UUID          uuid.UUID  `json:"uuid"`
	AuthorID      uuid.UUID  `json:"authorId"`
	Kind          ChangeKind `json:"type"`
	Position      int        `json:"position"`
	Length        int        `json:"length,omitempty"`
	Text          string     `json:"text,omitempty"`
	BaseVersion   int        `json:"baseVersion"`
	ResultVersion int        `json:"resultVersion,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}

// Document is a shared text document. Content is mutated only through
// validated Change application; the version counter starts at 1 and increases
// by one per applied change.
type Document struct {
	UUID       uuid.UUID `json:"uuid"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Version    int       `json:"version"`
	OwnerID    uuid.UUID `json:"ownerId"`
	SharedAt   time.Time `json:"sharedAt"`
	ReadOnly   bool      `json:"readOnly"`
	Conflicted bool      `json:"conflicted"`
}

// ShareOptions are the options supplied when sharing a document.
type ShareOptions struct {
	Name     string
	ReadOnly bool
}

// Lock is an advisory, time-bounded exclusive edit permission on one document.
// At most one non-expired lock exists per document.
type Lock struct {
	DocumentID uuid.UUID `json:"documentId"`
	HolderID   uuid.UUID `json:"holderId"`
	AcquiredAt time.Time `json:"acquiredAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired reports whether the lock's expiry has passed at the given instant.
func (l Lock) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// CursorState is the ephemeral cursor location of one user in one document.
type CursorState struct {
	UserID    uuid.UUID `json:"userId"`
	Position  int       `json:"position"`
	Color     string    `json:"color"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SelectionRange is a half-open [Start, End) character range.
type SelectionRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SelectionState is the ephemeral selection of one user in one document.
type SelectionState struct {
	UserID    uuid.UUID      `json:"userId"`
	Range     SelectionRange `json:"range"`
	Color     string         `json:"color"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
