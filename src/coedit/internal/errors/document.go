package errors

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// DocumentNotFoundError indicates that a document is not found.
type DocumentNotFoundError struct {
	DocumentID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document %q not found", n.DocumentID)
}

// DocumentLockedError indicates that another user holds a non-expired lock on
// the document.
type DocumentLockedError struct {
	DocumentID uuid.UUID
	HolderID   uuid.UUID
	ExpiresAt  time.Time
}

// Error is an implementation of the error interface.
func (n *DocumentLockedError) Error() string {
	return fmt.Sprintf("document %q is locked by %q until %s", n.DocumentID, n.HolderID, n.ExpiresAt.Format(time.RFC3339))
}

// DocumentReadOnlyError indicates an attempted edit of a read-only document.
type DocumentReadOnlyError struct {
	DocumentID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *DocumentReadOnlyError) Error() string {
	return fmt.Sprintf("document %q is read-only", n.DocumentID)
}

// DocumentConflictError indicates that a replayed change does not follow the
// local version, so the local copy has diverged from the host.
type DocumentConflictError struct {
	DocumentID      uuid.UUID
	LocalVersion    int
	ReceivedVersion int
}

// Error is an implementation of the error interface.
func (n *DocumentConflictError) Error() string {
	return fmt.Sprintf("document %q at version %d received change for version %d", n.DocumentID, n.LocalVersion, n.ReceivedVersion)
}
