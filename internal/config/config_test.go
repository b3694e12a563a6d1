package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MONGO_URI", "MONGO_DB", "STORE_DRIVER", "REQUEST_TIMEOUT",
		"CORS_ORIGINS", "CACHE_DRIVER", "CACHE_TTL", "APP_ENV",
	} {
		// Setenv registra la restauración; Unsetenv deja la clave ausente.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "ADIT-website", cfg.MongoDB)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, CacheMemory, cfg.CacheDriver)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, defaultOrigins, cfg.CORSOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := LoadConfig()

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.TracingEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mongo with uri", Config{StoreDriver: StoreMongo, MongoURI: "mongodb://localhost", CacheDriver: CacheMemory}, false},
		{"mongo without uri", Config{StoreDriver: StoreMongo, CacheDriver: CacheMemory}, true},
		{"memory store", Config{StoreDriver: StoreMemory, CacheDriver: CacheNone}, false},
		{"unknown store", Config{StoreDriver: "postgres", CacheDriver: CacheMemory}, true},
		{"unknown cache", Config{StoreDriver: StoreMemory, CacheDriver: "memcached"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
