package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 1000, cfg.RateLimitAPI)
	assert.Equal(t, 5, cfg.RateLimitAuth)
	assert.Equal(t, 5*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, int64(5<<20), cfg.MediaMaxBytes)
}

func TestLoadProductionRateLimit(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 100, cfg.RateLimitAPI)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			AppEnv: "development", StoreDriver: "memory", MediaDriver: "local", JWTSecret: "x",
			NotifyWorkers: 1, MediaMaxBytes: 1, RateLimitWindow: time.Minute, RateLimitAPI: 1,
			RateLimitAuth: 1, ReminderInterval: time.Minute,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "válida", mutate: func(*Config) {}, ok: true},
		{name: "sin secreto", mutate: func(c *Config) { c.JWTSecret = "" }},
		{name: "driver desconocido", mutate: func(c *Config) { c.StoreDriver = "postgres" }},
		{name: "s3 sin bucket", mutate: func(c *Config) { c.MediaDriver = "s3" }},
		{name: "s3 con bucket", mutate: func(c *Config) { c.MediaDriver = "s3"; c.S3Bucket = "b" }, ok: true},
		{name: "sin workers", mutate: func(c *Config) { c.NotifyWorkers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMaskURI(t *testing.T) {
	assert.Equal(t, "mongodb://user:xxxxx@db:27017/floreria", MaskURI("mongodb://user:clave@db:27017/floreria"))
	assert.Equal(t, "mongodb://localhost:27017", MaskURI("mongodb://localhost:27017"))
}
