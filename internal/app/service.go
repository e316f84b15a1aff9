// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/perfsum/internal/domain/ingest"
	"github.com/okian/perfsum/internal/domain/model"
	"github.com/okian/perfsum/internal/domain/summary"
	"github.com/okian/perfsum/pkg/logger"
	"github.com/okian/perfsum/pkg/metrics"
)

// Service turns uploaded CSV payloads into per-employee summaries.
//
// Rows of one upload are summarised strictly one after another. Concurrent
// uploads share nothing but the counters below.
type Service struct {
	summarizer *summary.Summarizer

	// Configuration
	policy  ingest.Policy
	maxRows int

	// Counters
	uploadsAccepted    atomic.Int64
	uploadsRejected    atomic.Int64
	uploadsAborted     atomic.Int64
	rowsProcessed      atomic.Int64
	cellsDefaulted     atomic.Int64
	summariesGenerated atomic.Int64
	summariesFailed    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSummarizer sets the per-row summary generator.
func WithSummarizer(sum *summary.Summarizer) Option {
	return func(s *Service) {
		s.summarizer = sum
	}
}

// WithPolicy sets how empty required cells are handled.
func WithPolicy(p ingest.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithMaxRows caps the number of data rows per upload. Zero means unlimited.
func WithMaxRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRows = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		policy: ingest.PolicyLenient,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process parses data and returns one SummaryRecord per data row, in input
// order. Every row is read and validated before the first provider call, so
// a structural problem rejects the whole upload. Provider failures are
// embedded in the matching summary instead. A cancelled ctx aborts the
// upload and no partial result is returned.
func (s *Service) Process(ctx context.Context, filename string, data []byte) ([]model.SummaryRecord, error) {
	if s.summarizer == nil {
		return nil, ErrNoSummarizer
	}
	start := time.Now()
	metrics.IncUploadsInFlight()
	defer metrics.DecUploadsInFlight()

	records, err := ingest.ReadAll(filename, data,
		ingest.WithPolicy(s.policy),
		ingest.WithMaxRows(s.maxRows),
		ingest.WithDefaultHook(s.onDefault),
	)
	if err != nil {
		s.uploadsRejected.Add(1)
		metrics.RecordUpload(metrics.OutcomeRejected)
		s.logger.Warn(ctx, "upload rejected",
			logger.String("filename", filename),
			logger.Int("bytes", len(data)),
			logger.Error(err),
		)
		return nil, err
	}
	metrics.RecordUploadRows(len(records))
	s.logger.Info(ctx, "upload accepted",
		logger.String("filename", filename),
		logger.Int("rows", len(records)),
		logger.String("policy", s.policy.String()),
		logger.String("provider", s.summarizer.ProviderName()),
	)

	out := make([]model.SummaryRecord, 0, len(records))
	failed := 0
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			s.uploadsAborted.Add(1)
			metrics.RecordUpload(metrics.OutcomeFailed)
			s.logger.Warn(ctx, "upload aborted",
				logger.String("filename", filename),
				logger.Int("completed", i),
				logger.Int("rows", len(records)),
				logger.Error(err),
			)
			return nil, fmt.Errorf("%w after %d of %d rows: %w", ErrAborted, i, len(records), err)
		}

		s.logger.Debug(ctx, "processing row",
			logger.Int("row", i+1),
			logger.String("employee_id", rec.EmployeeID),
			logger.String("employee_name", rec.EmployeeName),
		)
		text := s.summarizer.Summarize(ctx, rec)
		if summary.IsErrorSummary(text) {
			failed++
			s.summariesFailed.Add(1)
		} else {
			s.summariesGenerated.Add(1)
		}
		s.rowsProcessed.Add(1)
		metrics.RecordRowProcessed()
		out = append(out, model.NewSummaryRecord(rec, text))
	}

	for i := range out {
		s.logger.Debug(ctx, "response item",
			logger.Int("row", i+1),
			logger.Any("record", out[i]),
		)
	}

	s.uploadsAccepted.Add(1)
	metrics.RecordUpload(metrics.OutcomeOK)
	s.logger.Info(ctx, "upload processed",
		logger.String("filename", filename),
		logger.Int("rows", len(out)),
		logger.Int("failed_summaries", failed),
		logger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (s *Service) onDefault(column string) {
	s.cellsDefaulted.Add(1)
	metrics.RecordCellDefaulted(column)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	provider := ""
	if s.summarizer != nil {
		provider = s.summarizer.ProviderName()
	}
	return map[string]interface{}{
		"provider":           provider,
		"policy":             s.policy.String(),
		"maxRows":            s.maxRows,
		"uploadsAccepted":    s.uploadsAccepted.Load(),
		"uploadsRejected":    s.uploadsRejected.Load(),
		"uploadsAborted":     s.uploadsAborted.Load(),
		"rowsProcessed":      s.rowsProcessed.Load(),
		"cellsDefaulted":     s.cellsDefaulted.Load(),
		"summariesGenerated": s.summariesGenerated.Load(),
		"summariesFailed":    s.summariesFailed.Load(),
	}
}
