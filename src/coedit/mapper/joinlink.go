package mapper

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/collabforge/coedit/src/coedit/internal/errors"
	"github.com/gofrs/uuid"
)

// Join links are opaque references of the form collab://<host>:<port>/<sessionId>.
var joinLinkPattern = regexp.MustCompile(`^collab://([^:/\s]+):(\d{1,5})/([0-9a-fA-F-]{36})$`)

// FormatJoinLink encodes a host address and session identifier as a join link.
func FormatJoinLink(host string, port int, sessionID uuid.UUID) string {
	return fmt.Sprintf("collab://%s:%d/%s", host, port, sessionID)
}

// ParseJoinLink decodes a join link, failing with InvalidJoinLinkError on any
// malformed input.
func ParseJoinLink(link string) (entity.JoinLink, error) {
	m := joinLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return entity.JoinLink{}, &errors.InvalidJoinLinkError{Link: link}
	}

	port, err := strconv.Atoi(m[2])
	if err != nil || port == 0 || port > 65535 {
		return entity.JoinLink{}, &errors.InvalidJoinLinkError{Link: link}
	}

	sessionID, err := uuid.FromString(m[3])
	if err != nil {
		return entity.JoinLink{}, &errors.InvalidJoinLinkError{Link: link}
	}

	return entity.JoinLink{Host: m[1], Port: port, SessionID: sessionID}, nil
}
