package completion

import (
	"context"
	"time"

	"github.com/dmitrijs2005/corechat/internal/logging"
)

// Observer records the outcome and latency of each completion call.
// outcome is "ok" or the failure Kind.
type Observer interface {
	ObserveCompletion(provider, outcome string, elapsed time.Duration)
}

// InstrumentedClient logs and measures every call to next.
type InstrumentedClient struct {
	next     Client
	provider string
	observer Observer
	logger   logging.Logger
	now      func() time.Time
}

var _ Client = (*InstrumentedClient)(nil)

func NewInstrumentedClient(next Client, provider string, observer Observer, logger logging.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		next:     next,
		provider: provider,
		observer: observer,
		logger:   logger.With("module", "completion", "provider", provider),
		now:      time.Now,
	}
}

func (c *InstrumentedClient) Complete(ctx context.Context, turns []Turn) (string, error) {

	start := c.now()
	reply, err := c.next.Complete(ctx, turns)
	elapsed := c.now().Sub(start)

	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		c.logger.Error(ctx, "completion failed", "kind", outcome, "elapsed", elapsed, "error", err)
	} else {
		c.logger.Debug(ctx, "completion done", "turns", len(turns), "elapsed", elapsed)
	}

	if c.observer != nil {
		c.observer.ObserveCompletion(c.provider, outcome, elapsed)
	}

	return reply, err
}
