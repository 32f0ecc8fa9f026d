package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cob-tracker/internal/auth"
)

type ctxKey string

const (
	AdminIDKey ctxKey = "admin_id"
	RoleKey    ctxKey = "role"
)

// ErrorWriter renders a JSON error body; the handler package supplies it so
// every failure shares one shape.
type ErrorWriter func(w http.ResponseWriter, status int, msg string)

// Auth rejects requests without a valid bearer token. The secret is read per
// request so a missing secret fails individual calls instead of startup.
func Auth(secret func() string, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// token from Authorization: Bearer <jwt>
			raw := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
			if raw == "" {
				fail(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := auth.ParseToken(raw, secret())
			if errors.Is(err, auth.ErrNoSecret) {
				fail(w, http.StatusInternalServerError, "Server configuration error")
				return
			}
			if err != nil {
				fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminID returns the authenticated principal, or "" outside Auth.
func AdminID(ctx context.Context) string {
	id, _ := ctx.Value(AdminIDKey).(string)
	return id
}
