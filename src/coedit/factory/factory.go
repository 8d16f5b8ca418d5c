// Package factory contains user-defined factories for test fixtures.
package factory

import (
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/gofrs/uuid"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// InsertChange is a factory for an insert Change with the given base version.
func InsertChange(author uuid.UUID, pos int, text string, baseVersion int) entity.Change {
	return entity.Change{
		UUID:        UUID(),
		AuthorID:    author,
		Kind:        entity.ChangeInsert,
		Position:    pos,
		Text:        text,
		BaseVersion: baseVersion,
		Timestamp:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// DeleteChange is a factory for a delete Change with the given base version.
func DeleteChange(author uuid.UUID, pos, length, baseVersion int) entity.Change {
	return entity.Change{
		UUID:        UUID(),
		AuthorID:    author,
		Kind:        entity.ChangeDelete,
		Position:    pos,
		Length:      length,
		BaseVersion: baseVersion,
		Timestamp:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SessionConfig is a factory for a SessionConfig accepting any number of users.
func SessionConfig() entity.SessionConfig {
	return entity.SessionConfig{
		DisplayName: "test-session",
		MaxUsers:    16,
	}
}

// User is a factory for a connected user entity.
func User(name string) *entity.User {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &entity.User{
		UUID:         UUID(),
		Name:         name,
		ConnectedAt:  now,
		LastActivity: now,
	}
}
