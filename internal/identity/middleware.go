package identity

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey int

const (
	contextKeySessionID contextKey = iota
	contextKeyUserID
)

const sessionCookie = "checkout_session"
const tokenCookie = "session_token"

// Session ensures every request carries a session id, minting a cookie for
// first-time visitors. Checkout works for anonymous sessions; a valid
// session token additionally attaches the user id.
func Session(provider CurrentUserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(sessionCookie); err == nil {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
				})
			}

			ctx := context.WithValue(r.Context(), contextKeySessionID, sessionID)

			if cookie, err := r.Cookie(tokenCookie); err == nil {
				if payload, err := provider.Resolve(cookie.Value); err == nil {
					ctx = context.WithValue(ctx, contextKeyUserID, payload.UserID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session id attached by the Session middleware.
func SessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(contextKeySessionID).(string)
	return sessionID, ok
}

// UserID returns the resolved user id, if the request carried a valid token.
func UserID(ctx context.Context) (uint64, bool) {
	userID, ok := ctx.Value(contextKeyUserID).(uint64)
	return userID, ok
}
