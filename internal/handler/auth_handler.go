package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"cob-tracker/internal/auth"
	"cob-tracker/internal/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		h.log.Error("login attempted without JWT_SECRET")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	var req credentials
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	a, err := h.store.AdminByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !auth.CheckPassword(a.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tok, err := auth.MakeToken(a.ID, a.Role, h.secret)
	if err != nil {
		h.log.Error("sign token", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{tok})
}

// SeedAdmin creates the admin account over HTTP. It is disabled unless an
// operator configured a setup token, which the caller must echo back.
func (h *Handler) SeedAdmin(w http.ResponseWriter, r *http.Request) {
	if h.opts.SetupToken == "" {
		writeError(w, http.StatusForbidden, "Admin seeding is disabled")
		return
	}
	got := r.Header.Get("X-Setup-Token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.opts.SetupToken)) != 1 {
		writeError(w, http.StatusUnauthorized, "Invalid setup token")
		return
	}

	var req credentials
	if !decode(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	a, err := auth.NewAdmin(req.Username, req.Password)
	if err != nil {
		h.log.Error("hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := h.store.CreateAdmin(r.Context(), a); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.log.Info("admin created", "username", req.Username)
	writeJSON(w, http.StatusCreated, message{"Admin created"})
}
