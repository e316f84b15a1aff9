package llm

import (
	"context"
	"fmt"

	"github.com/okian/perfsum/internal/config"
	"github.com/okian/perfsum/internal/domain/summary"
)

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (summary.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, opts...)
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, append([]Option{WithBaseURL(cfg.OpenAIBaseURL)}, opts...)...)
	case config.ProviderFake:
		return NewFake(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
