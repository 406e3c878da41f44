// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"

	"github.com/pdiddy/museum-search/internal/textnorm"
	"github.com/pdiddy/museum-search/pkg/types"
)

// DefaultTopK is the number of results a search returns and the most it
// ever returns.
const DefaultTopK = 20

// Rank orders recs by score, highest first, and keeps the top k. Equal
// scores are ordered like better: image present first, then source name,
// then source id. k outside 1..DefaultTopK selects DefaultTopK. Total always
// equals len(Results), and Results is never nil.
func Rank(theme string, recs []types.ScoredRecord, k int) types.SearchResult {
	return RankWithQuota(theme, recs, k, 0)
}

// RankWithQuota ranks like Rank but admits at most maxReligious records
// that look religious; the rest are skipped during truncation and lower
// records move up. Zero disables the quota.
func RankWithQuota(theme string, recs []types.ScoredRecord, k, maxReligious int) types.SearchResult {
	if k <= 0 || k > DefaultTopK {
		k = DefaultTopK
	}
	sorted := make([]types.ScoredRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return better(sorted[i], sorted[j])
	})

	results := make([]types.ResultEntry, 0, min(k, len(sorted)))
	religious := 0
	for _, r := range sorted {
		if len(results) == k {
			break
		}
		if maxReligious > 0 && IsReligious(r.ArtworkRecord) {
			if religious >= maxReligious {
				continue
			}
			religious++
		}
		results = append(results, types.NewResultEntry(r))
	}

	return types.SearchResult{
		Theme:   theme,
		Total:   len(results),
		Results: results,
	}
}

var religiousTerms = toSet(textnorm.Terms(
	"religious sacred divine biblical christian christ virgin saint madonna " +
		"jesus angel crucifixion buddhist buddha hindu islamic deity god goddess " +
		"temple church mosque shrine altar altarpiece prayer worship",
))

// IsReligious reports whether a record's title or catalog fields name a
// religious subject.
func IsReligious(r types.ArtworkRecord) bool {
	text := r.Title + " " + r.Culture + " " + r.Classification + " " +
		r.Department + " " + r.Period + " " + r.Description
	for _, t := range textnorm.Terms(text) {
		if religiousTerms[t] {
			return true
		}
	}
	return false
}
