package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/claimledger/internal/security/ratelimit"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDKeepsIncomingUUID(t *testing.T) {
	incoming := uuid.NewString()
	h := RequestID(nil)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", rec.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	t.Run("wildcard echoes origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
		req.Header.Set("Origin", "http://app.test")
		rec := httptest.NewRecorder()
		CORS([]string{"*"})(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called := false
		h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
		req := httptest.NewRequest(http.MethodOptions, "/api/register", nil)
		req.Header.Set("Origin", "http://app.test")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, called)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("explicit list falls back to first entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := httptest.NewRecorder()
		CORS([]string{"http://app.test"})(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

type fixedLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (f *fixedLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func TestRateLimitRejectsWithRetryAfter(t *testing.T) {
	limiter := &fixedLimiter{decision: ratelimit.Decision{RetryAfter: 1500 * time.Millisecond}}
	h := RateLimit(limiter, "/api/login", nil)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, []string{"192.0.2.7"}, limiter.keys)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "RateLimited", body["code"])
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &fixedLimiter{err: errors.New("redis down")}
	rec := httptest.NewRecorder()
	RateLimit(limiter, "/api/login", nil)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateJSONContentType(t *testing.T) {
	h := ValidateJSONContentType(nil)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireJSONFields(t *testing.T) {
	var forwarded string
	h := RequireJSONFields([]string{"email", "password"}, 1<<20, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		forwarded = string(b)
	}))

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"complete", `{"email":"a@x.com","password":"p","extra":1}`, http.StatusOK, ""},
		{"missing one", `{"email":"a@x.com"}`, http.StatusBadRequest, "MissingField"},
		{"null counts as missing", `{"email":"a@x.com","password":null}`, http.StatusBadRequest, "MissingField"},
		{"not json", `email=a`, http.StatusBadRequest, "InvalidJSON"},
		{"empty body", ``, http.StatusBadRequest, "InvalidJSON"},
		{"array", `[]`, http.StatusBadRequest, "InvalidJSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forwarded = ""
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr == "" {
				assert.Equal(t, tt.body, forwarded)
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantErr, body["code"])
		})
	}
}

func TestRequireJSONFieldsListsEveryMissingField(t *testing.T) {
	h := RequireJSONFields([]string{"username", "email", "password"}, 1<<20, nil)(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"email":"a@x.com"}`)))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "missing required field: password, username", body["error"])
}

func TestRequireJSONFieldsBodyReadErrors(t *testing.T) {
	h := RequireJSONFields([]string{"email"}, 16, nil)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"someone@example.com"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "TooLarge", body["code"])

	// A truncated or dropped body is a bad request, not an oversized one.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", iotest.ErrReader(io.ErrUnexpectedEOF))
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "InvalidJSON", body["code"])
}
