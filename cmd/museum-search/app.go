// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pdiddy/museum-search/internal/history"
	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/metrics"
	"github.com/pdiddy/museum-search/internal/period"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/internal/sources"
	"github.com/pdiddy/museum-search/pkg/types"
)

// app holds the process-wide, read-only pieces a command needs.
type app struct {
	engine  *search.Engine
	catalog *period.Catalog
	history *history.Store
	metrics *metrics.Metrics
}

// appOptions adjusts assembly per command.
type appOptions struct {
	// only restricts the engine to these sources when non-empty.
	only []string

	// withMetrics registers Prometheus collectors (serve only).
	withMetrics bool

	// withHistory opens the history store when history.path is set.
	withHistory bool
}

// loadCatalog returns the built-in period catalog plus the operator's file.
// A bad operator file is logged and skipped.
func loadCatalog(c *types.Config, log logger.Logger) (*period.Catalog, error) {
	catalog, err := period.Builtin(log)
	if err != nil {
		return nil, fmt.Errorf("loading period catalog: %w", err)
	}
	if c.Periods.File == "" {
		return catalog, nil
	}
	extra, err := period.LoadFile(c.Periods.File, log)
	if err != nil {
		log.Warn("Ignoring period catalog file", logger.String("path", c.Periods.File), logger.Error(err))
		return catalog, nil
	}
	log.Info("Loaded period catalog file", logger.String("path", c.Periods.File), logger.Int("periods", extra.Len()))
	return catalog.Append(extra), nil
}

func newApp(c *types.Config, log logger.Logger, opts appOptions) (*app, error) {
	catalog, err := loadCatalog(c, log)
	if err != nil {
		return nil, err
	}
	lexicon, err := search.BuiltinLexicon()
	if err != nil {
		return nil, fmt.Errorf("loading lexicon: %w", err)
	}

	client := httputil.New(httputil.Config{
		Timeout:           c.HTTP.Timeout,
		UserAgent:         c.HTTP.UserAgent,
		RequestsPerSecond: c.HTTP.RequestsPerSecond,
	})
	srcs := sources.Enabled(c.Sources, client, log)
	if len(opts.only) > 0 {
		srcs, err = restrict(srcs, opts.only)
		if err != nil {
			return nil, err
		}
	}
	if len(srcs) == 0 {
		log.Warn("No sources enabled; every search will return zero results")
	}

	a := &app{catalog: catalog}
	if opts.withMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = metrics.New(reg)
	}

	var recorder search.Recorder
	if opts.withHistory && c.History.Path != "" {
		store, err := history.Open(c.History.Path)
		if err != nil {
			// History is optional; searches still run without it.
			log.Warn("Search history disabled", logger.String("path", c.History.Path), logger.Error(err))
		} else {
			a.history = store
			recorder = store
		}
	}

	a.engine = search.NewEngine(search.Options{
		Config:   c.Search,
		Detector: period.NewDetector(catalog),
		Lexicon:  lexicon,
		Sources:  srcs,
		Logger:   log,
		Metrics:  a.metrics,
		Recorder: recorder,
	})
	log.Info("Engine ready",
		logger.Strings("sources", a.engine.Sources()),
		logger.Int("periods", catalog.Len()),
	)
	return a, nil
}

// Close releases the history store.
func (a *app) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// restrict keeps the sources named in only, in engine order.
func restrict(srcs []search.Source, only []string) ([]search.Source, error) {
	want := make(map[string]bool, len(only))
	for _, name := range only {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		known := false
		for _, n := range sources.Names {
			if n == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("--sources: %q: %w", name, sources.ErrUnknownSource)
		}
		want[name] = true
	}
	var out []search.Source
	for _, s := range srcs {
		if want[s.Name()] {
			out = append(out, s)
		}
	}
	return out, nil
}
