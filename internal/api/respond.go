package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "habit not found"})
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: apperrors.Fields(err)})
	case apperrors.Is(err, apperrors.ErrTransient):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "storage temporarily unavailable"})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Invalid("body", "request body is required")
		}
		return apperrors.Invalid("body", "malformed JSON: %v", err)
	}
	return nil
}
