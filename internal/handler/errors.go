package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cob-tracker/internal/store"
)

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{msg})
}

// storeError maps a persistence failure to a response. Unexpected errors are
// logged; the client only sees a generic message.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "COB not found")
	case errors.Is(err, store.ErrExists):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, store.ErrUnavailable):
		h.log.Error("store unavailable", "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Database unavailable")
	default:
		h.log.Error("store failure", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads a JSON body into v. It reports false after writing a 400.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
