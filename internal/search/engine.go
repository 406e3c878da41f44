// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search aggregates artworks from several museum collection APIs
// into one ranked, deduplicated result for a theme. A search runs as a
// pipeline: period detection, query planning, a concurrent fetch across
// sources, relevance scoring, cross-source dedup, and top-K ranking.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/metrics"
	"github.com/pdiddy/museum-search/internal/period"
	"github.com/pdiddy/museum-search/pkg/types"
)

// ErrEmptyTheme is returned when a search is requested with a blank theme.
var ErrEmptyTheme = errors.New("theme is empty: provide a topic to search for")

// Summary describes one completed search for logging and history.
type Summary struct {
	Theme      string
	Period     string
	Candidates int
	Kept       int
	Total      int
	Failed     []string
	Duration   time.Duration
	At         time.Time
}

// Recorder persists search summaries. Recording errors never affect the
// search result.
type Recorder interface {
	Record(ctx context.Context, s Summary) error
}

// Options configures an Engine.
type Options struct {
	Config   types.SearchConfig
	Detector *period.Detector
	Lexicon  *Lexicon
	Sources  []Source
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Recorder Recorder
}

// Engine runs searches. It holds only read-only state and is safe for
// concurrent use; every search keeps its candidates local.
type Engine struct {
	detector *period.Detector
	planner  *Planner
	fetcher  *Fetcher
	scorer   *Scorer
	sources  []Source

	topK         int
	maxReligious int
	requireImage bool

	log      logger.Logger
	metrics  *metrics.Metrics
	recorder Recorder
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() types.SearchConfig {
	return types.SearchConfig{
		TopK:           DefaultTopK,
		PerSourceLimit: DefaultPerSourceLimit,
		SourceTimeout:  DefaultSourceTimeout,
		MaxConcurrency: DefaultMaxConcurrency,
		RelevanceFloor: DefaultRelevanceFloor,
		GraceYears:     DefaultGraceYears,
	}
}

// NewEngine builds an engine from opts. A nil detector means no theme ever
// matches a period.
func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	cfg := opts.Config
	topK := cfg.TopK
	if topK <= 0 || topK > DefaultTopK {
		topK = DefaultTopK
	}
	return &Engine{
		detector:     opts.Detector,
		planner:      NewPlanner(cfg.PerSourceLimit),
		fetcher:      NewFetcher(cfg.SourceTimeout, cfg.MaxConcurrency, log, opts.Metrics),
		scorer:       NewScorer(opts.Lexicon, cfg.RelevanceFloor, cfg.GraceYears),
		sources:      opts.Sources,
		topK:         topK,
		maxReligious: cfg.MaxReligious,
		requireImage: cfg.RequireImage,
		log:          log,
		metrics:      opts.Metrics,
		recorder:     opts.Recorder,
	}
}

// Sources returns the names of the sources the engine queries.
func (e *Engine) Sources() []string {
	names := make([]string, len(e.sources))
	for i, s := range e.sources {
		names[i] = s.Name()
	}
	return names
}

// Search runs one search. A blank theme is rejected with ErrEmptyTheme
// before anything else runs. Otherwise Search always returns a result and a
// nil error, even when every source fails.
func (e *Engine) Search(ctx context.Context, theme string) (types.SearchResult, error) {
	res, _, err := e.SearchWithSummary(ctx, theme)
	return res, err
}

// SearchWithSummary is Search that also reports what happened along the way.
func (e *Engine) SearchWithSummary(ctx context.Context, theme string) (types.SearchResult, Summary, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return types.SearchResult{}, Summary{}, ErrEmptyTheme
	}
	start := time.Now()

	var match *types.PeriodMatch
	if e.detector != nil {
		if m, ok := e.detector.Detect(theme); ok {
			match = m
		}
	}

	specs := e.planner.Plan(theme, match, e.Sources())
	jobs := make([]Job, len(specs))
	for i, spec := range specs {
		jobs[i] = Job{Source: e.sources[i], Query: spec}
	}
	report := e.fetcher.Fetch(ctx, jobs)

	candidates := report.Records
	if e.requireImage {
		candidates = withImages(candidates)
	}

	q := e.scorer.NewQuery(theme, match)
	scored := e.scorer.ScoreAll(candidates, q)
	deduped := Deduplicate(scored)
	result := RankWithQuota(theme, deduped, e.topK, e.maxReligious)

	sum := Summary{
		Theme:      theme,
		Candidates: len(report.Records),
		Kept:       len(deduped),
		Total:      result.Total,
		Failed:     report.Failed,
		Duration:   time.Since(start),
		At:         start.UTC(),
	}
	if match != nil {
		result.Period = match.CanonicalName
		sum.Period = match.CanonicalName
	}

	e.log.Info("Search complete",
		logger.String("theme", theme),
		logger.String("period", sum.Period),
		logger.Int("candidates", sum.Candidates),
		logger.Int("scored", len(scored)),
		logger.Int("duplicates", len(scored)-len(deduped)),
		logger.Int("total", sum.Total),
		logger.Strings("failed_sources", sum.Failed),
		logger.Duration("duration", sum.Duration),
	)
	e.metrics.RecordSearch(match != nil, sum.Candidates, sum.Total, sum.Duration)

	if e.recorder != nil {
		if err := e.recorder.Record(ctx, sum); err != nil {
			e.log.Warn("Recording search history failed", logger.Error(err))
		}
	}
	return result, sum, nil
}

func withImages(recs []types.ArtworkRecord) []types.ArtworkRecord {
	out := recs[:0:0]
	for _, r := range recs {
		if r.HasImage() {
			out = append(out, r)
		}
	}
	return out
}
