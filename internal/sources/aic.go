// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/pkg/types"
)

var (
	aicBase    = "https://api.artic.edu/api/v1"
	aicWebBase = "https://www.artic.edu/artworks"
	aicIIIF    = "https://www.artic.edu/iiif/2"
)

const (
	aicRequestsPerSecond = 5
	aicMaxLimit          = 100
)

// aicFields selects the artwork fields the search endpoint returns.
var aicFields = strings.Join([]string{
	"id", "title", "artist_display", "artist_title", "date_display", "date_start", "date_end",
	"place_of_origin", "medium_display", "department_title", "classification_title",
	"style_title", "description", "short_description", "term_titles", "image_id",
}, ",")

// AIC queries the Art Institute of Chicago.
type AIC struct {
	client  *httputil.Client
	baseURL string
}

// NewAIC returns the AIC adapter. An empty baseURL selects the public API.
func NewAIC(client *httputil.Client, baseURL string) *AIC {
	return &AIC{client: client, baseURL: orDefault(baseURL, aicBase)}
}

// Name returns the source identifier.
func (a *AIC) Name() string { return NameAIC }

// Fetch runs a full-text search over every planned keyword. AIC ranks hits
// by relevance, so period keywords widen recall without excluding matches.
func (a *AIC) Fetch(ctx context.Context, q types.QuerySpec) ([]types.ArtworkRecord, error) {
	text := allKeywords(q)
	if text == "" {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 || limit > aicMaxLimit {
		limit = aicMaxLimit
	}
	params := url.Values{
		"q":      {text},
		"limit":  {strconv.Itoa(limit)},
		"fields": {aicFields},
	}
	if q.DateRange != nil {
		params.Set("query[range][date_start][gte]", strconv.Itoa(q.DateRange.Start))
		params.Set("query[range][date_end][lte]", strconv.Itoa(q.DateRange.End))
	}

	var resp aicSearchResponse
	err := a.client.GetJSON(ctx, a.client.NewLimiter(aicRequestsPerSecond), a.baseURL+"/artworks/search?"+params.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("aic search: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	iiif := strings.TrimRight(resp.Config.IIIFURL, "/")
	if httpURL(iiif) == "" {
		iiif = aicIIIF
	}

	records := make([]types.ArtworkRecord, 0, len(resp.Data))
	for _, art := range resp.Data {
		records = append(records, art.record(iiif))
	}
	return records, nil
}

// AIC API JSON structures.
type aicSearchResponse struct {
	Data   []aicArtwork `json:"data"`
	Config struct {
		IIIFURL string `json:"iiif_url"`
	} `json:"config"`
}

type aicArtwork struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	ArtistDisplay       string   `json:"artist_display"`
	ArtistTitle         string   `json:"artist_title"`
	DateDisplay         string   `json:"date_display"`
	PlaceOfOrigin       string   `json:"place_of_origin"`
	MediumDisplay       string   `json:"medium_display"`
	DepartmentTitle     string   `json:"department_title"`
	ClassificationTitle string   `json:"classification_title"`
	StyleTitle          string   `json:"style_title"`
	Description         string   `json:"description"`
	ShortDescription    string   `json:"short_description"`
	TermTitles          []string `json:"term_titles"`
	ImageID             string   `json:"image_id"`
}

func (a aicArtwork) record(iiif string) types.ArtworkRecord {
	// artist_display carries nationality and life dates on later lines.
	artist := clean(a.ArtistTitle)
	if artist == "" {
		artist, _, _ = strings.Cut(a.ArtistDisplay, "\n")
		artist = clean(artist)
	}

	description := plainText(a.Description)
	if description == "" {
		description = plainText(a.ShortDescription)
	}

	var image string
	if id := strings.TrimSpace(a.ImageID); id != "" {
		image = fmt.Sprintf("%s/%s/full/843,/0/default.jpg", iiif, url.PathEscape(id))
	}

	id := strconv.Itoa(a.ID)
	return types.ArtworkRecord{
		Title:          clean(a.Title),
		Artist:         artist,
		Date:           clean(a.DateDisplay),
		Period:         clean(a.StyleTitle),
		Culture:        clean(a.PlaceOfOrigin),
		Medium:         clean(a.MediumDisplay),
		Department:     clean(a.DepartmentTitle),
		Classification: clean(a.ClassificationTitle),
		Description:    description,
		Tags:           joinTags(a.TermTitles...),
		ImageURL:       image,
		Source:         NameAIC,
		SourceURL:      aicWebBase + "/" + id,
		SourceID:       id,
	}
}
