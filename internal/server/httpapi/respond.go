// Package httpapi exposes the service layer as a JSON REST API. Routing is
// chi, authentication is a bearer-token middleware, and service errors are
// mapped onto HTTP status codes in one place.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"sollog/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError maps a service error onto an HTTP status. Unrecognized errors
// become a plain 500 so internal detail never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrKeyFormat):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
