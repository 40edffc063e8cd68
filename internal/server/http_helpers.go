package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeDomainError maps the error taxonomy to HTTP statuses. NotFound and
// Conflict are expected outcomes; DataIntegrity surfaces as a 500 so a bad
// deck aborts loudly.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case isNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case isConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case isDataIntegrity(err):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	}
}
