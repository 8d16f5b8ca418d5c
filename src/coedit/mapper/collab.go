// Package mapper converts between entities, repository models and wire forms.
package mapper

import (
	"slices"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/model"
)

// SessionToModel maps a Session entity to its model equivalent.
func SessionToModel(f *entity.Session) *model.Session {
	return &model.Session{
		UUID:        f.UUID,
		HostID:      f.HostID,
		DisplayName: f.DisplayName,
		CreatedAt:   f.CreatedAt,
		Password:    f.Password,
		MaxUsers:    f.MaxUsers,
		Metadata:    f.Metadata,
		Members:     slices.Clone(f.Members),
		Documents:   slices.Clone(f.Documents),
	}
}

// ModelToSession maps a model Session to its entity equivalent.
func ModelToSession(f *model.Session) (*entity.Session, error) {
	return &entity.Session{
		UUID:        f.UUID,
		HostID:      f.HostID,
		DisplayName: f.DisplayName,
		CreatedAt:   f.CreatedAt,
		Password:    f.Password,
		MaxUsers:    f.MaxUsers,
		Metadata:    f.Metadata,
		Members:     slices.Clone(f.Members),
		Documents:   slices.Clone(f.Documents),
	}, nil
}

// UserToModel maps a User entity to its model equivalent.
func UserToModel(f *entity.User) *model.User {
	return &model.User{
		UUID:         f.UUID,
		Name:         f.Name,
		ConnectedAt:  f.ConnectedAt,
		LastActivity: f.LastActivity,
	}
}

// ModelToUser maps a model User to its entity equivalent.
func ModelToUser(f *model.User) (*entity.User, error) {
	return &entity.User{
		UUID:         f.UUID,
		Name:         f.Name,
		ConnectedAt:  f.ConnectedAt,
		LastActivity: f.LastActivity,
	}, nil
}

// DocumentToSnapshot returns the serializable form of a document for
// transmission to peers. The snapshot never carries conflict state; a peer's
// copy is authoritative-by-broadcast, not by disk.
func DocumentToSnapshot(d *entity.Document) entity.Document {
	snap := *d
	snap.Conflicted = false
	return snap
}
