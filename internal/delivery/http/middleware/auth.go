package middleware

import (
	"context"
	"net/http"
	"strings"

	h "societyattendance/internal/delivery/http/helpers"
	"societyattendance/internal/domain"
)

type contextKey string

const currentUserKey contextKey = "currentUser"

// SessionCookieName is the cookie the signin endpoint sets and RequireAuth
// reads when no Authorization header is present.
const SessionCookieName = "society_session"

// SetCurrentUser returns a context with the authenticated user attached.
func SetCurrentUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUser returns the authenticated user from the context, if present.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*domain.User)
	return user, ok
}

// RequireAuth returns a wrapper that authenticates the request and attaches
// the full user record to the context. The token is taken from the
// Authorization header (Bearer scheme) or, failing that, the session cookie.
// The user is re-read from storage on every request so a role or domain
// change takes effect immediately rather than at token expiry.
func RequireAuth(verifier domain.TokenVerifier, users domain.UserRepository) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				h.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetCurrentUser(r.Context(), user))
			next(w, r)
		}
	}
}

func extractToken(r *http.Request) string {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
