package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// SessionAlreadyActiveError indicates that a session is already hosted on this
// process.
type SessionAlreadyActiveError struct {
	SessionID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *SessionAlreadyActiveError) Error() string {
	return fmt.Sprintf("session %q is already active on this process", n.SessionID)
}

// NoActiveSessionError indicates that no session is hosted or joined.
type NoActiveSessionError struct{}

// Error is an implementation of the error interface.
func (n *NoActiveSessionError) Error() string {
	return "no active session"
}

// InvalidJoinLinkError indicates that a join link did not match the
// collab://<host>:<port>/<sessionId> pattern.
type InvalidJoinLinkError struct {
	Link string
}

// Error is an implementation of the error interface.
func (n *InvalidJoinLinkError) Error() string {
	return fmt.Sprintf("invalid join link %q", n.Link)
}

// UserNotFoundError is a service domain error for a missing user.
type UserNotFoundError struct {
	UserID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", n.UserID)
}

// NotFoundUser returns a user UUID and true if UserNotFoundError is part of
// the error chain.
func NotFoundUser(e error) (_ uuid.UUID, ok bool) {
	var nf *UserNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UserID, true
}

// AdmissionDeniedError indicates that a candidate connection failed the
// admission gate.
type AdmissionDeniedError struct {
	Reason string
}

// Error is an implementation of the error interface.
func (n *AdmissionDeniedError) Error() string {
	return fmt.Sprintf("admission denied: %s", n.Reason)
}

// SessionDisconnectedError is the terminal condition after the reconnection
// budget is exhausted.
type SessionDisconnectedError struct {
	Attempts int
}

// Error is an implementation of the error interface.
func (n *SessionDisconnectedError) Error() string {
	return fmt.Sprintf("session disconnected after %d reconnection attempts", n.Attempts)
}
