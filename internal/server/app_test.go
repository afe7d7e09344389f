package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/corechat/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.CompletionProvider = "echo"
	c.BcryptCost = 4
	c.LogLevel = "error"
	return c
}

func TestNewApp_MemoryRunsAndStops(t *testing.T) {
	app, err := NewApp(context.Background(), testAppConfig())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestNewApp_SQLite(t *testing.T) {
	c := testAppConfig()
	c.StorageDriver = "sqlite"
	c.DatabaseDSN = ":memory:"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, app.deps.Readiness, 1)
	app.Close()
}

func TestNewApp_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)

	c := testAppConfig()
	c.SessionStore = "redis"
	c.RedisAddr = mr.Addr()

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	defer app.Close()

	require.Len(t, app.deps.Readiness, 1)
	require.NoError(t, app.deps.Readiness[0].PingContext(context.Background()))
}

func TestNewApp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"unknown driver", func(c *config.Config) { c.StorageDriver = "oracle" }},
		{"postgres without dsn", func(c *config.Config) { c.StorageDriver = "postgres" }},
		{"unknown session store", func(c *config.Config) { c.SessionStore = "memcached" }},
		{"redis unreachable", func(c *config.Config) { c.SessionStore = "redis"; c.RedisAddr = "127.0.0.1:1" }},
		{"unknown provider", func(c *config.Config) { c.CompletionProvider = "openai" }},
		{"gemini without key", func(c *config.Config) { c.CompletionProvider = "gemini"; c.GeminiAPIKey = "" }},
		{"unknown log format", func(c *config.Config) { c.LogFormat = "logrus" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testAppConfig()
			tc.mutate(c)
			_, err := NewApp(context.Background(), c)
			require.Error(t, err)
		})
	}
}
