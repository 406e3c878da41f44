// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"github.com/pdiddy/museum-search/internal/textnorm"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Per-source limit bounds.
const (
	DefaultPerSourceLimit = 40
	MinPerSourceLimit     = 1
	MaxPerSourceLimit     = 100
)

// Planner turns a theme into one QuerySpec per source.
type Planner struct {
	limit int
}

// NewPlanner returns a planner that asks each source for perSourceLimit
// records. Zero selects the default; other values are clamped.
func NewPlanner(perSourceLimit int) *Planner {
	return &Planner{limit: ClampLimit(perSourceLimit)}
}

// ClampLimit applies the default and bounds to a per-source limit.
func ClampLimit(n int) int {
	switch {
	case n == 0:
		return DefaultPerSourceLimit
	case n < MinPerSourceLimit:
		return MinPerSourceLimit
	case n > MaxPerSourceLimit:
		return MaxPerSourceLimit
	}
	return n
}

// Plan builds the query specs for a search. Keywords are the theme's
// non-stop-word tokens in order, followed by the period's extra keywords;
// period keywords never displace theme terms. The date range is set only
// when a period matched.
func (p *Planner) Plan(theme string, period *types.PeriodMatch, sources []string) []types.QuerySpec {
	keywords := Keywords(theme, period)
	themeKeywords := len(Keywords(theme, nil))

	var dr *types.YearRange
	if period != nil {
		r := period.Range()
		dr = &r
	}

	specs := make([]types.QuerySpec, 0, len(sources))
	for _, name := range sources {
		spec := types.QuerySpec{
			Source:        name,
			Keywords:      append([]string(nil), keywords...),
			ThemeKeywords: themeKeywords,
			Limit:         p.limit,
		}
		if dr != nil {
			r := *dr
			spec.DateRange = &r
		}
		specs = append(specs, spec)
	}
	return specs
}

// Keywords returns the de-duplicated search keywords for theme, with the
// period's extra keywords appended when period is non-nil.
func Keywords(theme string, period *types.PeriodMatch) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(w string) {
		if w == "" || seen[w] {
			return
		}
		seen[w] = true
		out = append(out, w)
	}
	for _, tok := range textnorm.Tokens(theme) {
		add(tok)
	}
	if period != nil {
		for _, kw := range period.ExtraKeywords {
			add(textnorm.Fold(kw))
		}
	}
	return out
}
