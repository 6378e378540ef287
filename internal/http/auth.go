package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"kharcha/internal/storage"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionCookie is the cookie carrying the opaque session token; the
// Authorization bearer header takes precedence when both are present.
const SessionCookie = "kharcha_session"

// withAuth resolves the session token to a user and stores it in the request
// context. Unknown and expired tokens both read as unauthorized.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing session token"})
			return
		}

		user, err := s.repo.ResolveSession(r.Context(), token, time.Now())
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired session"})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func userFrom(ctx context.Context) storage.User {
	u, _ := ctx.Value(userContextKey).(storage.User)
	return u
}

func ownerFrom(ctx context.Context) string {
	return userFrom(ctx).ID
}
