package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// SessionHeader carries the session id in both directions.
const SessionHeader = "X-Session-Id"

// resolveSessionID picks the body's session id, then the request header, and
// otherwise mints a new one. The chosen id is echoed in the response header.
func resolveSessionID(w http.ResponseWriter, r *http.Request, fromBody string) string {
	sessionID := strings.TrimSpace(fromBody)
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.Header.Get(SessionHeader))
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	w.Header().Set(SessionHeader, sessionID)
	return sessionID
}
