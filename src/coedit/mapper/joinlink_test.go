package mapper

import (
	"testing"

	"github.com/collabforge/coedit/src/coedit/factory"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinLinkRoundTrip(t *testing.T) {
	sessionID := factory.UUID()
	link := FormatJoinLink("192.168.1.10", 7420, sessionID)

	parsed, err := ParseJoinLink(link)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", parsed.Host)
	assert.Equal(t, 7420, parsed.Port)
	assert.Equal(t, sessionID, parsed.SessionID)
}

func TestParseJoinLinkInvalid(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{name: "empty", link: ""},
		{name: "wrong scheme", link: "http://host:1234/6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{name: "missing port", link: "collab://host/6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{name: "missing session", link: "collab://host:1234/"},
		{name: "not a uuid", link: "collab://host:1234/not-a-session-id"},
		{name: "port out of range", link: "collab://host:99999/6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{name: "trailing garbage", link: "collab://host:1234/6ba7b810-9dad-11d1-80b4-00c04fd430c8/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJoinLink(tt.link)
			require.Error(t, err)
			var invalid *errors.InvalidJoinLinkError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}
