package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// MessageType selects the variant of a wire envelope.
type MessageType string

// Inbound message types.
const (
	MessageTypeJoin            MessageType = "join"
	MessageTypeDocumentChange  MessageType = "document-change"
	MessageTypeCursorUpdate    MessageType = "cursor-update"
	MessageTypeSelectionUpdate MessageType = "selection-update"
	MessageTypeDocumentLock    MessageType = "document-lock"
	MessageTypeDocumentUnlock  MessageType = "document-unlock"
	MessageTypeChat            MessageType = "chat-message"
	MessageTypeHeartbeat       MessageType = "heartbeat"
)

// Outbound message types.
const (
	MessageTypeUserJoined       MessageType = "user-joined"
	MessageTypeUserLeft         MessageType = "user-left"
	MessageTypeDocumentChanged  MessageType = "document-changed"
	MessageTypeCursorUpdated    MessageType = "cursor-updated"
	MessageTypeSelectionUpdated MessageType = "selection-updated"
	MessageTypeDocumentLocked   MessageType = "document-locked"
	MessageTypeDocumentUnlocked MessageType = "document-unlocked"
	MessageTypeDocumentShared   MessageType = "document-shared"
	MessageTypeDocumentResync   MessageType = "document-resync"
	MessageTypeSessionState     MessageType = "session-state"
	MessageTypeJoinRejected     MessageType = "join-rejected"
)

// Envelope is the minimal probe used to select a variant before decoding the
// full message. Unrecognized types are logged and ignored, never fatal.
type Envelope struct {
	Type MessageType `json:"type"`
}

// JoinMessage is the client handshake. It must be the first frame on a new
// connection; the host's admission decision happens before any other message
// is processed.
type JoinMessage struct {
	Type      MessageType `json:"type"`
	UserID    uuid.UUID   `json:"userId"`
	UserName  string      `json:"userName,omitempty"`
	SessionID uuid.UUID   `json:"sessionId"`
	Password  string      `json:"password,omitempty"`
}

// ChangeInput is the raw, untransformed edit drafted by a peer.
type ChangeInput struct {
	Kind        ChangeKind `json:"type"`
	Position    int        `json:"position"`
	Length      int        `json:"length,omitempty"`
	Text        string     `json:"text,omitempty"`
	BaseVersion int        `json:"baseVersion"`
}

// DocumentChangeMessage proposes an edit against a document version.
type DocumentChangeMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
	Change     ChangeInput `json:"change"`
}

// DocumentChangedMessage carries the authoritative, transformed change record
// so all peers apply identical bytes.
type DocumentChangedMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
	Change     Change      `json:"change"`
	Version    int         `json:"version"`
}

// CursorUpdateMessage reports a cursor move.
type CursorUpdateMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
	Position   int         `json:"position"`
}

// CursorUpdatedMessage is the broadcast form of a cursor move.
type CursorUpdatedMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
	Cursor     CursorState `json:"cursor"`
}

// SelectionUpdateMessage reports a selection change.
type SelectionUpdateMessage struct {
	Type       MessageType    `json:"type"`
	DocumentID uuid.UUID      `json:"documentId"`
	Selection  SelectionRange `json:"selection"`
}

// SelectionUpdatedMessage is the broadcast form of a selection change.
type SelectionUpdatedMessage struct {
	Type       MessageType    `json:"type"`
	DocumentID uuid.UUID      `json:"documentId"`
	Selection  SelectionState `json:"selection"`
}

// DocumentLockMessage requests an exclusive edit lock.
type DocumentLockMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
	DurationMS int64       `json:"duration"`
}

// DocumentLockedMessage announces a granted lock.
type DocumentLockedMessage struct {
	Type MessageType `json:"type"`
	Lock Lock        `json:"lock"`
}

// DocumentUnlockMessage releases a held lock.
type DocumentUnlockMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
}

// DocumentUnlockedMessage announces a released lock.
type DocumentUnlockedMessage struct {
	Type       MessageType `json:"type"`
	DocumentID uuid.UUID   `json:"documentId"`
	UserID     uuid.UUID   `json:"userId"`
}

// ChatMessage relays a line of chat to all other users.
type ChatMessage struct {
	Type   MessageType `json:"type"`
	UserID uuid.UUID   `json:"userId"`
	Text   string      `json:"text"`
}

// HeartbeatMessage refreshes the sender's last-activity timestamp.
type HeartbeatMessage struct {
	Type      MessageType `json:"type"`
	UserID    uuid.UUID   `json:"userId"`
	Timestamp time.Time   `json:"timestamp"`
}

// UserEventMessage announces a join or leave.
type UserEventMessage struct {
	Type MessageType `json:"type"`
	User User        `json:"user"`
}

// DocumentSharedMessage carries a full snapshot of a newly shared document.
type DocumentSharedMessage struct {
	Type     MessageType `json:"type"`
	Document Document    `json:"document"`
}

// DocumentResyncMessage carries a full snapshot after the host rewrote content
// outside the incremental change path (external on-disk edit).
type DocumentResyncMessage struct {
	Type     MessageType `json:"type"`
	Document Document    `json:"document"`
}

// SessionStateMessage is unicast to a newly admitted user for initial sync.
type SessionStateMessage struct {
	Type      MessageType `json:"type"`
	Session   Session     `json:"session"`
	Users     []User      `json:"users"`
	Documents []Document  `json:"documents"`
}

// JoinRejectedMessage tells a candidate why admission failed before the
// connection is closed.
type JoinRejectedMessage struct {
	Type   MessageType `json:"type"`
	Reason string      `json:"reason"`
}
