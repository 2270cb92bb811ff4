package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActionWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	al := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogAction(context.Background(), "req-1", "u1", "create", "expense", "e1", "success")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit", line["msg"])
	assert.Equal(t, "audit", line["component"])
	assert.Equal(t, "create", line["action"])
	assert.Equal(t, "expense", line["resource"])
	assert.Equal(t, "e1", line["resource_id"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestNilLoggerIsSilent(t *testing.T) {
	var al *Logger
	assert.NotPanics(t, func() {
		al.LogAction(context.Background(), "", "", "login", "user", "", "success")
	})
}
