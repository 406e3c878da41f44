// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/museum-search/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results. A
// saved search can be re-rendered later without calling any collection API.
type QueryFile struct {
	Query   QueryParams         `yaml:"query"`
	Config  QueryFileConfig     `yaml:"config"`
	Results []types.ResultEntry `yaml:"results"`
	Summary QuerySummary        `yaml:"summary"`
}

// QueryParams stores what was searched for.
type QueryParams struct {
	Theme  string `yaml:"theme"`
	Period string `yaml:"period,omitempty"`
}

// QueryFileConfig stores the settings that produced the results.
type QueryFileConfig struct {
	TopK    int      `yaml:"top_k"`
	Sources []string `yaml:"sources,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total         int       `yaml:"total"`
	Candidates    int       `yaml:"candidates"`
	FailedSources []string  `yaml:"failed_sources,omitempty"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search result to a YAML file.
func WriteQueryFile(path string, res types.SearchResult, sum Summary, cfg QueryFileConfig) error {
	ts := sum.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	qf := QueryFile{
		Query:   QueryParams{Theme: res.Theme, Period: res.Period},
		Config:  cfg,
		Results: res.Results,
		Summary: QuerySummary{
			Total:         res.Total,
			Candidates:    sum.Candidates,
			FailedSources: sum.Failed,
			Timestamp:     ts,
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	if strings.TrimSpace(qf.Query.Theme) == "" {
		return nil, fmt.Errorf("query file %s: %w", path, errors.New("missing query.theme"))
	}
	return &qf, nil
}

// Result rebuilds the SearchResult stored in the file.
func (qf *QueryFile) Result() types.SearchResult {
	results := qf.Results
	if results == nil {
		results = []types.ResultEntry{}
	}
	return types.SearchResult{
		Theme:   qf.Query.Theme,
		Period:  qf.Query.Period,
		Total:   len(results),
		Results: results,
	}
}
