package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cob-tracker/internal/auth"
)

func plainError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

func protected(secret string) http.Handler {
	return Auth(func() string { return secret }, plainError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(AdminID(r.Context())))
	}))
}

func TestAuthMiddleware(t *testing.T) {
	tok, err := auth.MakeToken("admin-1", "admin", "s3cret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		header string
		code   int
		body   string
	}{
		{"missing header", "s3cret", "", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "s3cret", "Token " + tok, http.StatusUnauthorized, "No token provided"},
		{"bad token", "s3cret", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"wrong secret", "other", "Bearer " + tok, http.StatusUnauthorized, "Invalid or expired token"},
		{"no secret configured", "", "Bearer " + tok, http.StatusInternalServerError, "Server configuration error"},
		{"valid", "s3cret", "Bearer " + tok, http.StatusOK, "admin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/cobs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(tt.secret).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := RateLimit(rl, plainError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:3333"), "same ip, any port")
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1111"))

	rl.evict(-time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1111"), "evicted clients start fresh")
}
