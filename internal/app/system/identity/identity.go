// internal/app/system/identity/identity.go

// Package identity extracts the authenticated user from request headers.
// Authentication itself (phone OTP, sessions) lives in a separate front
// end; by the time a request reaches this service the proxy has already
// verified the user and stamped these headers. Both values are opaque
// strings here.
package identity

import (
	"net/http"
	"strings"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

// FromRequest returns the authenticated user id and display name, or
// ok=false when the request carries no identity.
func FromRequest(r *http.Request) (userID, name string, ok bool) {
	userID = strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" {
		return "", "", false
	}
	return userID, strings.TrimSpace(r.Header.Get(HeaderUserName)), true
}
