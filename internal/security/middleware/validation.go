package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// ValidateJSONContentType middleware ensures POST/PUT requests have JSON content type
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only validate POST, PUT, PATCH requests
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType != "" && !strings.Contains(contentType, "application/json") {
				log.Warn("invalid content type",
					slog.String("path", r.URL.Path),
					slog.String("content_type", contentType),
					slog.String("method", r.Method),
				)
				writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "UnsupportedMediaType")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireJSONFields rejects bodies that are not a JSON object or that lack
// any of fields (a JSON null counts as absent). The body is restored for the
// next handler.
func RequireJSONFields(fields []string, maxBytes int64, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large", "TooLarge")
					return
				}
				log.Warn("failed to read request body",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				writeJSONError(w, http.StatusBadRequest, "could not read request body", "InvalidJSON")
				return
			}

			var payload map[string]json.RawMessage
			if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
				msg := "request body must be a JSON object"
				if err != nil {
					msg = "invalid JSON: " + err.Error()
				}
				log.Warn("invalid json payload",
					slog.String("path", r.URL.Path),
					slog.String("error", msg),
				)
				writeJSONError(w, http.StatusBadRequest, msg, "InvalidJSON")
				return
			}

			var missing []string
			for _, field := range fields {
				raw, exists := payload[field]
				if !exists || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
					missing = append(missing, field)
				}
			}
			if len(missing) > 0 {
				slices.Sort(missing)
				log.Warn("missing required field",
					slog.String("path", r.URL.Path),
					slog.String("fields", strings.Join(missing, ",")),
				)
				writeJSONError(w, http.StatusBadRequest, "missing required field: "+strings.Join(missing, ", "), "MissingField")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			next.ServeHTTP(w, r)
		})
	}
}
