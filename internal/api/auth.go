package api

import (
	"net/http"

	respond "github.com/allana0-dev/refynely-backend/internal/api/respond"
)

// userHeader identifies the caller. The gateway in front of this service is
// trusted to have authenticated the user before forwarding.
const userHeader = "X-User-ID"

// callerID extracts the authenticated user id, writing a 401 when absent.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(userHeader)
	if id == "" {
		respond.WriteUnauthorized(w, "missing "+userHeader+" header")
		return "", false
	}
	return id, true
}
