// Package entity contains the domain logic for the coedit collaboration engine.
package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// Role identifies whether this process is the ordering authority for a session
// or a client of a remote host.
type Role string

const (
	// RoleHost is the session participant that assigns versions and relays messages.
	RoleHost Role = "host"
	// RoleClient is a participant connected to a remote host.
	RoleClient Role = "client"
)

// SessionConfig holds the options supplied when hosting a session.
type SessionConfig struct {
	DisplayName string            `yaml:"displayName"`
	Password    string            `yaml:"password"`
	MaxUsers    int               `yaml:"maxUsers"`
	Metadata    map[string]string `yaml:"metadata"`
}

// Session is a hosted collaboration session.
type Session struct {
	UUID        uuid.UUID         `json:"uuid"`
	HostID      uuid.UUID         `json:"hostId"`
	DisplayName string            `json:"displayName"`
	CreatedAt   time.Time         `json:"createdAt"`
	Password    string            `json:"-"`
	MaxUsers    int               `json:"maxUsers"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	// Members are user UUIDs in join order. Join order is also used to derive
	// stable presence colors.
	Members   []uuid.UUID `json:"members"`
	Documents []uuid.UUID `json:"documents"`
}

// User is a connected participant.
type User struct {
	UUID         uuid.UUID `json:"uuid"`
	Name         string    `json:"name"`
	ConnectedAt  time.Time `json:"connectedAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// JoinLink is the parsed form of an opaque collab:// join reference.
type JoinLink struct {
	Host      string
	Port      int
	SessionID uuid.UUID
}

// AdmissionRequest carries the fields checked before a connection is admitted
// to a session. The check and the membership mutation that follows must be
// treated as one atomic decision per connection.
type AdmissionRequest struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Password  string
}
