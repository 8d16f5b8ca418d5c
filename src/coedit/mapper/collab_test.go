package mapper

import (
	"testing"
	"time"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionModelRoundTrip(t *testing.T) {
	sess := &entity.Session{
		UUID:        factory.UUID(),
		HostID:      factory.UUID(),
		DisplayName: "design review",
		CreatedAt:   time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
		Password:    "hunter2",
		MaxUsers:    5,
		Metadata:    map[string]string{"project": "coedit"},
		Members:     []uuid.UUID{factory.UUID(), factory.UUID()},
		Documents:   []uuid.UUID{factory.UUID()},
	}

	got, err := ModelToSession(SessionToModel(sess))
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestSessionToModelClonesSlices(t *testing.T) {
	member := factory.UUID()
	sess := &entity.Session{UUID: factory.UUID(), Members: []uuid.UUID{member}}

	m := SessionToModel(sess)
	sess.Members[0] = factory.UUID()
	assert.Equal(t, member, m.Members[0])
}

func TestUserModelRoundTrip(t *testing.T) {
	user := &entity.User{
		UUID:         factory.UUID(),
		Name:         "alice",
		ConnectedAt:  time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
		LastActivity: time.Date(2025, time.March, 3, 10, 5, 0, 0, time.UTC),
	}

	got, err := ModelToUser(UserToModel(user))
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestDocumentToSnapshotClearsConflictState(t *testing.T) {
	doc := &entity.Document{
		UUID:       factory.UUID(),
		Path:       "/tmp/notes.md",
		Content:    "draft",
		Version:    4,
		Conflicted: true,
	}

	snap := DocumentToSnapshot(doc)
	assert.False(t, snap.Conflicted)
	assert.Equal(t, doc.Content, snap.Content)
	assert.Equal(t, doc.Version, snap.Version)
	// The source document keeps its flag.
	assert.True(t, doc.Conflicted)
}
