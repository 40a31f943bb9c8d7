package testutil

import (
	"net/http"
	"time"

	id "ndoors/pkg/domain"
	"ndoors/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context, simulating what the
// auth middleware does for authenticated requests. Invalid UUIDs are
// silently ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithTime pins the request-scoped clock, simulating the request-time
// middleware.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithClientMetadata attaches client IP and user agent to the request
// context.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}
