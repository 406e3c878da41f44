// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	"github.com/pdiddy/museum-search/internal/textnorm"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Deduplicate collapses records that describe the same physical work. Two
// records match when their titles are equal and non-empty ignoring case,
// accents, and whitespace, and either their artists match case-insensitively
// or both lack an artist and their date strings are equal. Each group keeps its best record (see
// better); groups appear in the order their first member appeared.
// Deduplicate is idempotent.
func Deduplicate(recs []types.ScoredRecord) []types.ScoredRecord {
	seen := make(map[string]int) // dedup key → index in out
	out := make([]types.ScoredRecord, 0, len(recs))

	for _, r := range recs {
		key := dedupKey(r.ArtworkRecord)
		if key == "" {
			out = append(out, r)
			continue
		}
		if idx, ok := seen[key]; ok {
			if better(r, out[idx]) {
				out[idx] = r
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, r)
	}
	return out
}

// dedupKey identifies a work. Records without a title never match anything.
func dedupKey(r types.ArtworkRecord) string {
	title := normalizeTitle(r.Title)
	if title == "" {
		return ""
	}
	if artist := normalizeArtist(r.Artist); artist != "" {
		return "a\x00" + title + "\x00" + artist
	}
	return "d\x00" + title + "\x00" + strings.TrimSpace(r.Date)
}

// normalizeTitle folds case, accents, and whitespace. Punctuation is kept.
func normalizeTitle(title string) string {
	return textnorm.FoldCase(title)
}

func normalizeArtist(artist string) string {
	return strings.Join(strings.Fields(strings.ToLower(artist)), " ")
}

// better reports whether a should represent a group over b: higher score,
// then image present, then source name, then source id.
func better(a, b types.ScoredRecord) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.HasImage() != b.HasImage() {
		return a.HasImage()
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.SourceID < b.SourceID
}
