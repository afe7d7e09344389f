package completion

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type observation struct {
	provider string
	outcome  string
	elapsed  time.Duration
}

type recordingObserver struct {
	seen []observation
}

func (r *recordingObserver) ObserveCompletion(provider, outcome string, elapsed time.Duration) {
	r.seen = append(r.seen, observation{provider, outcome, elapsed})
}

func TestInstrumented_RecordsOutcome(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core))
	obs := &recordingObserver{}

	next := &scriptedClient{reply: "hello"}
	c := NewInstrumentedClient(next, "ollama", obs, logger)

	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	reply, err := c.Complete(context.Background(), sampleTurns)
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	next.err = &Error{Provider: "ollama", Kind: KindTimeout, Message: "request timed out"}
	_, err = c.Complete(context.Background(), sampleTurns)
	require.Error(t, err)

	next.err = assert.AnError
	_, err = c.Complete(context.Background(), sampleTurns)
	require.Error(t, err)

	require.Len(t, obs.seen, 3)
	assert.Equal(t, observation{"ollama", "ok", time.Second}, obs.seen[0])
	assert.Equal(t, "timeout", obs.seen[1].outcome)
	assert.Equal(t, "error", obs.seen[2].outcome)

	assert.Equal(t, 2, logs.FilterMessage("completion failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("completion done").Len())
}

func TestEcho_Complete(t *testing.T) {
	reply, err := EchoClient{}.Complete(context.Background(), []Turn{
		{Role: RoleSystem, Content: "be nice"},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "ok"},
		{Role: RoleUser, Content: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You said: second", reply)

	reply, err = EchoClient{}.Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestNew_Providers(t *testing.T) {
	logger := logging.NewZapLoggerFrom(zap.NewNop())
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	for _, p := range []string{ProviderOllama, ProviderEcho, ""} {
		cfg.CompletionProvider = p
		c, err := New(ctx, cfg, &recordingObserver{}, logger)
		require.NoError(t, err, p)
		require.NotNil(t, c)
	}

	cfg.CompletionProvider = ProviderGemini
	cfg.GeminiAPIKey = ""
	_, err := New(ctx, cfg, nil, logger)
	require.Error(t, err)

	cfg.CompletionProvider = "openai"
	_, err = New(ctx, cfg, nil, logger)
	require.Error(t, err)
}

func TestNew_EchoEndToEnd(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CompletionProvider = ProviderEcho
	obs := &recordingObserver{}

	c, err := New(context.Background(), cfg, obs, logging.NewZapLoggerFrom(zap.NewNop()))
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), sampleTurns)
	require.NoError(t, err)
	assert.Equal(t, "You said: hi", reply)
	require.Len(t, obs.seen, 1)
	assert.Equal(t, ProviderEcho, obs.seen[0].provider)
}

func TestNew_LogsConfiguredClient(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core))

	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, err := New(context.Background(), cfg, nil, logger)
	require.NoError(t, err)

	entries := logs.FilterMessage("completion client configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ollama(http://127.0.0.1:11434, llama3.2:3b)", entries[0].ContextMap()["client"])

	cfg.CompletionProvider = ProviderEcho
	_, err = New(context.Background(), cfg, nil, logger)
	require.NoError(t, err)
	assert.Equal(t, "echo", logs.FilterMessage("completion client configured").All()[1].ContextMap()["client"])
}
