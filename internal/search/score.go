// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"math"
	"strings"

	"github.com/pdiddy/museum-search/internal/textnorm"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Signal weights. Exact keyword hits in the title outweigh hits in the body
// text, and both outweigh concept similarity; a full in-period date
// outweighs a date in the grace window.
const (
	weightTitleKeyword  = 0.50
	weightTextKeyword   = 0.35
	weightPeriodKeyword = 0.10
	weightConcept       = 0.30
	weightPeriodMatch   = 0.35
	weightPeriodContext = 0.15
	weightArtist        = 0.30
	weightImage         = 0.05
	weightDescription   = 0.05

	// periodTermWeight scales period keywords against theme terms in the
	// theme vector.
	periodTermWeight = 0.5

	// textTermWeight scales description and tag terms against title terms
	// in the record vector.
	textTermWeight = 0.5

	// relatedConceptMin is the cosine above which related-concept is
	// reported as a reason.
	relatedConceptMin = 0.1
)

// Scorer defaults.
const (
	DefaultRelevanceFloor = 0.15
	DefaultGraceYears     = 10
)

// Name particles that never count as an artist match on their own.
var nameParticles = map[string]bool{
	"van": true, "von": true, "de": true, "der": true, "del": true, "della": true,
	"da": true, "di": true, "la": true, "le": true, "du": true, "des": true, "y": true,
}

// Scorer rates records against a theme. It is read-only after construction
// and safe for concurrent use.
type Scorer struct {
	lexicon *Lexicon
	floor   float64
	grace   int
}

// NewScorer returns a scorer. A non-positive floor or a negative grace
// selects the default.
func NewScorer(lx *Lexicon, floor float64, graceYears int) *Scorer {
	if floor <= 0 {
		floor = DefaultRelevanceFloor
	}
	if graceYears < 0 {
		graceYears = DefaultGraceYears
	}
	return &Scorer{lexicon: lx, floor: floor, grace: graceYears}
}

// Query is a theme prepared for scoring many records.
type Query struct {
	Theme  string
	Period *types.PeriodMatch

	// Terms are the stemmed theme terms.
	Terms []string

	periodTerms []string
	vector      Vector
}

// NewQuery prepares theme and the optional period for scoring.
func (s *Scorer) NewQuery(theme string, period *types.PeriodMatch) Query {
	q := Query{
		Theme:  theme,
		Period: period,
		Terms:  textnorm.Terms(theme),
		vector: make(Vector),
	}
	if period != nil {
		seen := make(map[string]bool, len(q.Terms))
		for _, t := range q.Terms {
			seen[t] = true
		}
		for _, t := range textnorm.Terms(strings.Join(period.ExtraKeywords, " ")) {
			if !seen[t] {
				seen[t] = true
				q.periodTerms = append(q.periodTerms, t)
			}
		}
	}
	s.lexicon.Add(q.vector, q.Terms, 1)
	s.lexicon.Add(q.vector, q.periodTerms, periodTermWeight)
	return q
}

// Score rates one record. The result carries every signal that fired, in
// signal order; it is not filtered by the relevance floor.
func (s *Scorer) Score(rec types.ArtworkRecord, q Query) types.ScoredRecord {
	sr, _ := s.score(rec, q)
	return sr
}

// ScoreAll scores recs and drops those whose relevance is below the floor.
// Relevance excludes field presence, so a record with an image and a
// description but no relation to the theme is never kept.
func (s *Scorer) ScoreAll(recs []types.ArtworkRecord, q Query) []types.ScoredRecord {
	out := make([]types.ScoredRecord, 0, len(recs))
	for _, r := range recs {
		sr, relevance := s.score(r, q)
		if relevance < s.floor {
			continue
		}
		out = append(out, sr)
	}
	return out
}

func (s *Scorer) score(rec types.ArtworkRecord, q Query) (types.ScoredRecord, float64) {
	var (
		relevance float64
		reasons   []string
	)
	reason := func(tag string) {
		for _, r := range reasons {
			if r == tag {
				return
			}
		}
		reasons = append(reasons, tag)
	}

	titleTerms := textnorm.Terms(rec.Title)
	textTerms := textnorm.Terms(rec.Description + " " + rec.Tags)
	inTitle := toSet(titleTerms)
	inText := toSet(textTerms)

	// Textual: exact keyword hits.
	if n := len(q.Terms); n > 0 {
		var titleHits, textHits int
		for _, t := range q.Terms {
			switch {
			case inTitle[t]:
				titleHits++
			case inText[t]:
				textHits++
			}
		}
		if titleHits > 0 {
			relevance += weightTitleKeyword * float64(titleHits) / float64(n)
			reason(types.ReasonKeywordInTitle)
		}
		if textHits > 0 {
			relevance += weightTextKeyword * float64(textHits) / float64(n)
			reason(types.ReasonKeywordInText)
		}
	}
	if len(q.periodTerms) > 0 {
		var hits int
		for _, t := range q.periodTerms {
			switch {
			case inTitle[t]:
				hits++
				reason(types.ReasonKeywordInTitle)
			case inText[t]:
				hits++
				reason(types.ReasonKeywordInText)
			}
		}
		relevance += weightPeriodKeyword * math.Min(1, float64(hits)/2)
	}

	// Textual: concept similarity.
	rv := make(Vector)
	s.lexicon.Add(rv, titleTerms, 1)
	s.lexicon.Add(rv, textTerms, textTermWeight)
	if cos := Cosine(q.vector, rv); cos > 0 {
		relevance += weightConcept * cos
		if cos >= relatedConceptMin {
			reason(types.ReasonRelatedConcept)
		}
	}

	// Temporal.
	if q.Period != nil {
		if year, ok := ParseYear(rec.Date); ok {
			switch {
			case q.Period.Range().Contains(year):
				relevance += weightPeriodMatch
				reason(types.ReasonPeriodMatch)
			case year > q.Period.EndYear && year <= q.Period.EndYear+s.grace:
				relevance += weightPeriodContext
				reason(types.ReasonPeriodContext)
			}
		}
	}

	// Biographical.
	if cov := artistCoverage(q.Terms, rec.Artist); cov > 0 {
		relevance += weightArtist * cov
		reason(types.ReasonArtistMatch)
	}

	// Field presence.
	score := relevance
	if rec.HasImage() {
		score += weightImage
		reason(types.ReasonHasImage)
	}
	if rec.HasDescription() {
		score += weightDescription
		reason(types.ReasonHasDescription)
	}

	return types.ScoredRecord{
		ArtworkRecord: rec,
		Score:         round(score),
		Reasons:       reasons,
	}, relevance
}

// artistCoverage is the share of name-bearing theme terms found in artist.
func artistCoverage(terms []string, artist string) float64 {
	if artist == "" {
		return 0
	}
	name := toSet(textnorm.Terms(artist))
	var total, hits int
	for _, t := range terms {
		if nameParticles[t] || len(t) < 3 {
			continue
		}
		total++
		if name[t] {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func toSet(terms []string) map[string]bool {
	m := make(map[string]bool, len(terms))
	for _, t := range terms {
		m[t] = true
	}
	return m
}

func round(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
