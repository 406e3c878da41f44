// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/metrics"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Fetcher defaults.
const (
	DefaultSourceTimeout  = 10 * time.Second
	DefaultMaxConcurrency = 8
)

// Source queries a single collection API. Each museum (Met, AIC, ...)
// implements this interface. Fetch returns nil, nil when the provider has no
// matches and a non-nil error only for failures, so the fetcher can tell the
// two apart.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q types.QuerySpec) ([]types.ArtworkRecord, error)
}

// Job pairs a source with the query planned for it.
type Job struct {
	Source Source
	Query  types.QuerySpec
}

// Fetcher issues all source calls of one search concurrently. It holds no
// per-search state and may be shared.
type Fetcher struct {
	timeout        time.Duration
	maxConcurrency int
	log            logger.Logger
	metrics        *metrics.Metrics
}

// NewFetcher returns a fetcher. Non-positive timeout or concurrency select
// the defaults. m may be nil. Calls beyond maxConcurrency wait for a free
// slot before their timeout starts, so callers should allow at least one
// slot per source.
func NewFetcher(timeout time.Duration, maxConcurrency int, log logger.Logger, m *metrics.Metrics) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{timeout: timeout, maxConcurrency: maxConcurrency, log: log, metrics: m}
}

// FetchReport summarizes one fan-out.
type FetchReport struct {
	Records []types.ArtworkRecord

	// Failed lists the sources whose call errored or timed out, in job order.
	Failed []string
}

// Fetch runs every job and returns the union of records from the calls that
// succeeded. Each call gets its own timeout, enforced even when a source
// ignores its context; a failing call contributes nothing and is logged.
// Fetch never returns an error and does not retry. Records appear grouped by
// job in job order, whatever order the calls finish in.
func (f *Fetcher) Fetch(ctx context.Context, jobs []Job) FetchReport {
	perJob := make([][]types.ArtworkRecord, len(jobs))
	failed := make([]bool, len(jobs))

	var g errgroup.Group
	g.SetLimit(f.maxConcurrency)

	for i, job := range jobs {
		g.Go(func() error {
			recs, err := f.call(ctx, job)
			if err != nil {
				failed[i] = true
				return nil
			}
			perJob[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	var (
		records []types.ArtworkRecord
		names   []string
	)
	for i, recs := range perJob {
		if failed[i] {
			names = append(names, jobs[i].Source.Name())
			continue
		}
		records = append(records, recs...)
	}
	return FetchReport{Records: records, Failed: names}
}

type fetchResult struct {
	recs []types.ArtworkRecord
	err  error
}

func (f *Fetcher) call(ctx context.Context, job Job) ([]types.ArtworkRecord, error) {
	name := job.Source.Name()
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan fetchResult, 1)
	go func() {
		recs, err := job.Source.Fetch(callCtx, job.Query)
		done <- fetchResult{recs: recs, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		// The adapter may still be running; its result is discarded.
		res.err = callCtx.Err()
	}
	recs, err := res.recs, res.err
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		f.metrics.RecordSource(name, outcome, elapsed, 0)
		f.log.Warn("Source failed",
			logger.String("source", name),
			logger.String("outcome", outcome),
			logger.Duration("duration", elapsed),
			logger.Error(err),
		)
		return nil, err
	}

	kept := make([]types.ArtworkRecord, 0, len(recs))
	for _, r := range recs {
		if r.Source == "" {
			r.Source = name
		}
		if r.SourceID == "" {
			f.log.Debug("Dropping record without source id",
				logger.String("source", name),
				logger.String("title", r.Title),
			)
			continue
		}
		kept = append(kept, r)
	}

	f.metrics.RecordSource(name, metrics.OutcomeOK, elapsed, len(kept))
	f.log.Debug("Source returned",
		logger.String("source", name),
		logger.Int("records", len(kept)),
		logger.Duration("duration", elapsed),
	)
	return kept, nil
}
