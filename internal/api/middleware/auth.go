package middleware

import (
	"context"
	"net/http"

	"profiledash/internal/common"
	"profiledash/internal/domain/model"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session-id"

type contextKey string

const userCtxKey contextKey = "currentUser"

// UserResolver turns a session token into its user. Implemented by
// service.AuthService; an interface here keeps the middleware testable.
type UserResolver interface {
	UserForToken(ctx context.Context, token string) (*model.User, error)
}

// SessionResolver reads the session cookie on every request and, when the
// token resolves, stores the user in the request context. It never rejects:
// route groups decide with RequireAuth/RequireAdmin. Resolution is read-only,
// there is no implicit session renewal.
func SessionResolver(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				user, err := resolver.UserForToken(r.Context(), cookie.Value)
				if err == nil {
					ctx := context.WithValue(r.Context(), userCtxKey, user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests whose session cookie did not resolve to a user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects authenticated users below admin. Must run after
// RequireAuth in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the resolved user for this request, if any.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*model.User)
	return user, ok
}
