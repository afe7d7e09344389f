package completion

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker around a provider.
type BreakerConfig struct {
	Name             string
	ConsecutiveFails uint32
	OpenTimeout      time.Duration
}

// BreakerClient stops calling a provider after repeated failures and fails
// fast with KindUnavailable until OpenTimeout has passed.
//
// A call abandoned by its caller (context.Canceled) neither resets nor adds
// to the failure streak. gobreaker only knows success and failure, so the
// streak is counted here and ReadyToTrip reads it; such calls are reported
// to gobreaker as failures, which keeps a half-open breaker from closing on
// a probe that never reached a verdict.
type BreakerClient struct {
	next     Client
	provider string
	cb       *gobreaker.CircuitBreaker

	streak atomic.Uint32
}

var _ Client = (*BreakerClient)(nil)

func NewBreakerClient(next Client, provider string, cfg BreakerConfig, logger logging.Logger) *BreakerClient {
	fails := cfg.ConsecutiveFails
	if fails == 0 {
		fails = 5
	}

	b := &BreakerClient{next: next, provider: provider}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(gobreaker.Counts) bool {
			return b.streak.Load() >= fails
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			b.streak.Store(0)
			logger.Warn(context.Background(), "completion breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return b
}

func (b *BreakerClient) Complete(ctx context.Context, turns []Turn) (string, error) {

	out, err := b.cb.Execute(func() (interface{}, error) {
		reply, err := b.next.Complete(ctx, turns)
		switch {
		case err == nil:
			b.streak.Store(0)
		case errors.Is(err, context.Canceled):
		default:
			b.streak.Add(1)
		}
		return reply, err
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", newError(b.provider, KindUnavailable, err, "temporarily unavailable after repeated failures")
		}
		return "", err
	}

	return out.(string), nil
}

// State reports the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}
