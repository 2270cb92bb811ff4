package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORE_DRIVER", "MONGO_DATABASE", "REDIS_URL", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_MB", "LOGIN_RATE_WINDOW_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "medical_records", cfg.MongoDatabase)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("MAX_UPLOAD_MB", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":              "eighty",
		"LOGIN_RATE_LIMIT":         "x",
		"STARTUP_CONNECT_ATTEMPTS": "1.5",
		"STORE_DRIVER":             "sqlite",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
