// Package model holds the repository layer models for the coedit engine.
package model

import (
	"time"

	"github.com/gofrs/uuid"
)

// Session is the repository layer model for a hosted collaboration session.
type Session struct {
	UUID        uuid.UUID
	HostID      uuid.UUID
	DisplayName string
	CreatedAt   time.Time
	Password    string
	MaxUsers    int
	Metadata    map[string]string
	Members     []uuid.UUID
	Documents   []uuid.UUID
}

// User is the repository layer model for a connected participant.
type User struct {
	UUID         uuid.UUID
	Name         string
	ConnectedAt  time.Time
	LastActivity time.Time
}
