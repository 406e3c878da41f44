// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/museum-search/internal/textnorm"
	"github.com/pdiddy/museum-search/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. Artworks use the "graphic" type so the output is consumable by
// Pandoc and reference managers for image credits.
type CSLItem struct {
	ID      string    `yaml:"id"`
	Type    string    `yaml:"type"`
	Title   string    `yaml:"title"`
	Author  []CSLName `yaml:"author,omitempty"`
	Issued  *CSLDate  `yaml:"issued,omitempty"`
	Medium  string    `yaml:"medium,omitempty"`
	Archive string    `yaml:"archive,omitempty"`
	URL     string    `yaml:"URL,omitempty"`
	Note    string    `yaml:"note,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
	Circa     bool    `yaml:"circa,omitempty"`
}

// archives maps source names to the institution credited in citations.
var archives = map[string]string{
	"met":       "The Metropolitan Museum of Art",
	"aic":       "Art Institute of Chicago",
	"cleveland": "Cleveland Museum of Art",
	"harvard":   "Harvard Art Museums",
}

// FormatCSL writes search results as a CSL-YAML list to w.
func FormatCSL(res types.SearchResult, w io.Writer) error {
	items := make([]CSLItem, len(res.Results))
	for i, r := range res.Results {
		items[i] = toCSLItem(r, i)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a result entry to a CSLItem. idx keeps ids unique when
// two results share a title.
func toCSLItem(r types.ResultEntry, idx int) CSLItem {
	item := CSLItem{
		ID:     cslID(r, idx),
		Type:   "graphic",
		Title:  r.Title,
		Medium: r.Medium,
		URL:    r.SourceURL,
		Note:   r.Date,
	}
	if item.Title == "" {
		item.Title = "Untitled"
	}

	if r.Artist != "" {
		item.Author = []CSLName{parseArtistName(r.Artist)}
	}

	if year, ok := ParseYear(r.Date); ok {
		item.Issued = &CSLDate{
			DateParts: [][]int{{year}},
			Circa:     isApproximate(r.Date),
		}
	}

	if a, ok := archives[r.Source]; ok {
		item.Archive = a
	} else {
		item.Archive = r.Source
	}
	return item
}

func cslID(r types.ResultEntry, idx int) string {
	words := textnorm.Words(r.Title)
	if len(words) > 3 {
		words = words[:3]
	}
	slug := strings.Join(append([]string{r.Source}, words...), "-")
	return fmt.Sprintf("%s-%d", slug, idx+1)
}

// isApproximate reports whether a museum date is hedged ("ca.", "c.", a
// century, a decade) rather than a single known year.
func isApproximate(date string) bool {
	d := strings.ToLower(date)
	return strings.Contains(d, "ca.") || strings.Contains(d, "circa") ||
		strings.HasPrefix(d, "c. ") || centuryRe.MatchString(d) || decadeRe.MatchString(d)
}

// parseArtistName splits a display name into CSL family/given parts. It
// splits on the last space; single-token names and workshop attributions
// ("Workshop of ...", "Unknown maker") use the literal field.
func parseArtistName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, " of ") || strings.HasPrefix(lower, "unknown") || strings.Contains(name, ",") {
		return CSLName{Literal: name}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
