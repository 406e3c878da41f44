// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/period"
	"github.com/pdiddy/museum-search/pkg/types"
)

// --- fake source ---

type fakeSource struct {
	name    string
	records []types.ArtworkRecord
	err     error
	delay   time.Duration

	calls atomic.Int32
	last  atomic.Pointer[types.QuerySpec]
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, q types.QuerySpec) ([]types.ArtworkRecord, error) {
	f.calls.Add(1)
	f.last.Store(&q)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func testLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lx, err := BuiltinLexicon()
	require.NoError(t, err)
	return lx
}

func testDetector(t *testing.T) *period.Detector {
	t.Helper()
	c, err := period.Builtin(logger.NewNop())
	require.NoError(t, err)
	return period.NewDetector(c)
}

func coldWar(t *testing.T) *types.PeriodMatch {
	t.Helper()
	m, ok := testDetector(t).Detect("cold war")
	require.True(t, ok)
	return m
}

func testScorer(t *testing.T) *Scorer {
	t.Helper()
	return NewScorer(testLexicon(t), DefaultRelevanceFloor, DefaultGraceYears)
}

func scored(source, id, title, artist string, score float64) types.ScoredRecord {
	return types.ScoredRecord{
		ArtworkRecord: types.ArtworkRecord{
			Title:    title,
			Artist:   artist,
			Source:   source,
			SourceID: id,
		},
		Score: score,
	}
}
