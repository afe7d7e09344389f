package completion

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/config"
)

const (
	ProviderOllama = providerOllama
	ProviderGemini = providerGemini
	ProviderEcho   = "echo"
)

// New builds the configured provider wrapped in a circuit breaker and
// instrumentation. observer may be nil.
func New(ctx context.Context, cfg *config.Config, observer Observer, logger logging.Logger) (Client, error) {

	var base Client

	switch cfg.CompletionProvider {
	case ProviderOllama, "":
		base = NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.CompletionTimeout)
	case ProviderGemini:
		g, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		base = g
	case ProviderEcho:
		base = EchoClient{}
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.CompletionProvider)
	}

	provider := cfg.CompletionProvider
	if provider == "" {
		provider = ProviderOllama
	}

	if s, ok := base.(fmt.Stringer); ok {
		logger.Info(ctx, "completion client configured", "client", s.String())
	}

	breaker := NewBreakerClient(base, provider, BreakerConfig{
		Name:             provider,
		ConsecutiveFails: cfg.BreakerFailures,
		OpenTimeout:      cfg.BreakerOpenTimeout,
	}, logger)

	return NewInstrumentedClient(breaker, provider, observer, logger), nil
}
