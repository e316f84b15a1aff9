// Package summary builds performance review prompts and turns provider
// output into a per-row summary string.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/perfsum/internal/domain/model"
	"github.com/okian/perfsum/pkg/logger"
	"github.com/okian/perfsum/pkg/metrics"
)

// ErrorPrefix starts every summary that carries a generation failure.
const ErrorPrefix = "Error generating summary: "

// Provider is a text generation backend: one prompt in, one text out.
// Implementations report failures as *ProviderError.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a summary for one record at a time. It never returns
// an error: failures are folded into the summary text so a single bad call
// cannot sink the rest of the batch.
type Summarizer struct {
	provider Provider
	timeout  time.Duration
	logger   logger.Logger
}

// Option applies a configuration option to the Summarizer.
type Option func(*Summarizer)

// WithTimeout bounds each provider call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Summarizer over provider.
func New(provider Provider, opts ...Option) *Summarizer {
	s := &Summarizer{provider: provider, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderName returns the name of the backing provider.
func (s *Summarizer) ProviderName() string {
	return s.provider.Name()
}

// Summarize returns the generated summary for rec, or ErrorPrefix followed by
// the failure message.
func (s *Summarizer) Summarize(ctx context.Context, rec model.EmployeeRecord) string {
	name := s.provider.Name()
	start := time.Now()

	text, err := s.generate(ctx, BuildPrompt(rec))
	latencyMs := float64(time.Since(start).Milliseconds())

	if err != nil {
		s.logger.Warn(ctx, "summary generation failed",
			logger.String("provider", name),
			logger.String("employee_id", rec.EmployeeID),
			logger.Float64("latency_ms", latencyMs),
			logger.Error(err),
		)
		metrics.RecordSummary(name, metrics.OutcomeFailed, latencyMs)
		metrics.RecordErrorByComponent("summary", errorType(err))
		return ErrorPrefix + err.Error()
	}

	s.logger.Debug(ctx, "summary generated",
		logger.String("provider", name),
		logger.String("employee_id", rec.EmployeeID),
		logger.Int("chars", len(text)),
		logger.Float64("latency_ms", latencyMs),
	)
	metrics.RecordSummary(name, metrics.OutcomeOK, latencyMs)
	return text
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewProviderError(s.provider.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err = s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewProviderError(s.provider.Name(), ErrEmptyResponse)
	}
	return text, nil
}

// IsErrorSummary reports whether a summary carries a generation failure.
func IsErrorSummary(s string) bool {
	return strings.HasPrefix(s, ErrorPrefix)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	default:
		return "provider_error"
	}
}
