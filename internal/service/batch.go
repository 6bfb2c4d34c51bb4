package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/securepass/securepass-go/internal/model"
	"github.com/securepass/securepass-go/internal/report"
)

// DefaultWorkers is the batch parallelism used when none is configured.
const DefaultWorkers = 4

// BatchOptions controls a batch run.
type BatchOptions struct {
	CheckBreach bool
	Source      string
}

// BatchService analyses many passwords with bounded parallelism.
type BatchService struct {
	analyzer *AnalyzerService
	workers  int
	now      func() time.Time
}

// NewBatchService creates a new BatchService. workers <= 0 selects DefaultWorkers.
func NewBatchService(analyzer *AnalyzerService, workers int) *BatchService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &BatchService{analyzer: analyzer, workers: workers, now: time.Now}
}

// Run analyses passwords in parallel and returns results in input order.
// A failing item never stops the batch. When ctx is cancelled no further
// items are started, results produced so far are kept and Partial is set.
// The returned error aggregates item failures and the cancellation cause;
// the response is valid either way.
func (s *BatchService) Run(ctx context.Context, passwords []string, opts BatchOptions) (model.BatchResponse, error) {
	resp := model.BatchResponse{
		BatchID:   uuid.NewString(),
		StartedAt: s.now().UTC(),
	}

	results := make([]*model.PasswordAnalysis, len(passwords))
	failures := make([]error, len(passwords))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i, password := range passwords {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			a, err := s.analyzeItem(ctx, password, opts)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = &a
			return nil
		})
	}
	_ = g.Wait()

	var merr *multierror.Error
	for i, err := range failures {
		if err == nil {
			continue
		}
		merr = multierror.Append(merr, fmt.Errorf("item %d: %w", i, err))
		resp.Failures = append(resp.Failures, model.BatchFailure{Index: i, Error: err.Error()})
	}

	resp.Results = make([]model.PasswordAnalysis, 0, len(passwords))
	for _, a := range results {
		if a != nil {
			resp.Results = append(resp.Results, *a)
		}
	}

	if err := ctx.Err(); err != nil {
		resp.Partial = true
		merr = multierror.Append(merr, err)
	}

	resp.Summary = report.Summarize(resp.Results, len(passwords), len(resp.Failures))

	slog.Info("batch finished",
		"batch_id", resp.BatchID,
		"total", len(passwords),
		"analyzed", len(resp.Results),
		"failed", len(resp.Failures),
		"partial", resp.Partial,
	)

	return resp, merr.ErrorOrNil()
}

func (s *BatchService) analyzeItem(ctx context.Context, password string, opts BatchOptions) (a model.PasswordAnalysis, err error) {
	if password == "" {
		return a, ErrPasswordRequired
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis aborted: %T", r)
		}
	}()

	return s.analyzer.Analyze(ctx, password, AnalyzeOptions{
		CheckBreach: opts.CheckBreach,
		Source:      opts.Source,
	}), nil
}
