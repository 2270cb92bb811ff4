package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse is the body of successful writes
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto the error taxonomy. Store failures are logged
// and reported without their cause.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: "TooLarge"})
		return
	}

	if errors.Is(err, errInvalidJSON) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "InvalidJSON"})
		return
	}

	code := domain.Code(err)
	status, message := http.StatusInternalServerError, "internal error"

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		status, message = http.StatusBadRequest, "Email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrNoFile):
		status, message = http.StatusBadRequest, "No file part"
	case errors.Is(err, domain.ErrEmptyFilename):
		status, message = http.StatusBadRequest, "No selected file"
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrMalformedDate),
		errors.Is(err, domain.ErrInvalidAmount):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "File not found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, "store unavailable"
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
