// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the museum-search engine:
// normalized artwork records, per-source query specs, period matches, and
// the search response returned to callers.
package types

// ArtworkRecord is the normalized representation of one object returned by a
// collection API. Adapters leave optional fields empty when the provider has
// no value (or only a placeholder such as "Unknown"); they are omitted from
// JSON output rather than defaulted.
type ArtworkRecord struct {
	// Title is the object title. It may be empty when the provider has none.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Artist is the display name of the maker.
	Artist string `json:"artist,omitempty" yaml:"artist,omitempty"`

	// Date is the free-text date as displayed by the provider ("ca. 1889").
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	Period         string `json:"period,omitempty" yaml:"period,omitempty"`
	Culture        string `json:"culture,omitempty" yaml:"culture,omitempty"`
	Medium         string `json:"medium,omitempty" yaml:"medium,omitempty"`
	Department     string `json:"department,omitempty" yaml:"department,omitempty"`
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`

	// Description is optional multi-paragraph text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Tags is a comma-joined list of provider subject terms.
	Tags string `json:"tags,omitempty" yaml:"tags,omitempty"`

	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// Source names the collection the record came from (e.g. "met").
	Source string `json:"source" yaml:"source"`

	// SourceURL deep-links to the object page on the provider's site.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// SourceID is unique within Source. It is used for dedup and debugging
	// and is never rendered to users.
	SourceID string `json:"-" yaml:"source_id"`
}

// HasImage reports whether the record carries an image URL.
func (r ArtworkRecord) HasImage() bool { return r.ImageURL != "" }

// HasDescription reports whether the record carries non-blank description text.
func (r ArtworkRecord) HasDescription() bool {
	for _, c := range r.Description {
		if c != ' ' && c != '\n' && c != '\t' && c != '\r' {
			return true
		}
	}
	return false
}

// Reason tags explain why a record was considered relevant.
const (
	ReasonKeywordInTitle = "keyword-in-title"
	ReasonKeywordInText  = "keyword-in-text"
	ReasonRelatedConcept = "related-concept"
	ReasonPeriodMatch    = "period-match"
	ReasonPeriodContext  = "period-context"
	ReasonArtistMatch    = "artist-match"
	ReasonHasImage       = "has-image"
	ReasonHasDescription = "has-description"
)

// ScoredRecord is an ArtworkRecord with its final relevance score. Scores are
// never modified once the scorer has produced them.
type ScoredRecord struct {
	ArtworkRecord `yaml:",inline"`

	Score float64 `json:"score" yaml:"score"`

	// Reasons lists the reason tags that contributed to Score, in the order
	// the signals were evaluated, without repeats.
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// YearRange is an inclusive range of years. Negative years are BCE.
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// QuerySpec is the request one source adapter receives for a single search.
type QuerySpec struct {
	// Source is the name of the adapter this spec was planned for.
	Source string `json:"source" yaml:"source"`

	// Keywords are the theme terms followed by any period keywords.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ThemeKeywords counts the leading Keywords that came from the theme
	// itself. Adapters whose search is conjunctive query with those only.
	ThemeKeywords int `json:"theme_keywords" yaml:"theme_keywords"`

	// DateRange is set only when the theme matched a named period. Adapters
	// that cannot filter by date ignore it.
	DateRange *YearRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// Limit caps how many raw records the adapter should return.
	Limit int `json:"limit" yaml:"limit"`
}

// PeriodMatch describes a recognized historical period.
type PeriodMatch struct {
	CanonicalName string   `json:"canonical_name" yaml:"name"`
	StartYear     int      `json:"start_year" yaml:"start_year"`
	EndYear       int      `json:"end_year" yaml:"end_year"`
	Aliases       []string `json:"aliases" yaml:"aliases"`
	ExtraKeywords []string `json:"extra_keywords" yaml:"extra_keywords"`
}

// Range returns the period's inclusive year range.
func (p PeriodMatch) Range() YearRange {
	return YearRange{Start: p.StartYear, End: p.EndYear}
}

// ResultEntry is one presentation-ready artwork in a SearchResult.
type ResultEntry struct {
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	Artist         string   `json:"artist,omitempty" yaml:"artist,omitempty"`
	Date           string   `json:"date,omitempty" yaml:"date,omitempty"`
	Period         string   `json:"period,omitempty" yaml:"period,omitempty"`
	Culture        string   `json:"culture,omitempty" yaml:"culture,omitempty"`
	Medium         string   `json:"medium,omitempty" yaml:"medium,omitempty"`
	Department     string   `json:"department,omitempty" yaml:"department,omitempty"`
	Classification string   `json:"classification,omitempty" yaml:"classification,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags           string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	ImageURL       string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Source         string   `json:"source" yaml:"source"`
	SourceURL      string   `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Score          float64  `json:"score" yaml:"score"`
	Reasons        []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// NewResultEntry converts a scored record into its presentation form,
// dropping internal fields.
func NewResultEntry(s ScoredRecord) ResultEntry {
	return ResultEntry{
		Title:          s.Title,
		Artist:         s.Artist,
		Date:           s.Date,
		Period:         s.Period,
		Culture:        s.Culture,
		Medium:         s.Medium,
		Department:     s.Department,
		Classification: s.Classification,
		Description:    s.Description,
		Tags:           s.Tags,
		ImageURL:       s.ImageURL,
		Source:         s.Source,
		SourceURL:      s.SourceURL,
		Score:          s.Score,
		Reasons:        s.Reasons,
	}
}

// SearchResult is the response for one theme search.
type SearchResult struct {
	// Theme echoes the caller's input.
	Theme string `json:"theme" yaml:"theme"`

	// Period is the canonical name of the detected period, if any.
	Period string `json:"period,omitempty" yaml:"period,omitempty"`

	// Total is len(Results); it never counts filtered records.
	Total int `json:"total" yaml:"total"`

	// Results are ordered by score, highest first.
	Results []ResultEntry `json:"results" yaml:"results"`
}
