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

var clevelandBase = "https://openaccess-api.clevelandart.org/api"

const clevelandRequestsPerSecond = 5

// Cleveland queries the Cleveland Museum of Art open access API.
type Cleveland struct {
	client  *httputil.Client
	baseURL string
}

// NewCleveland returns the Cleveland adapter. An empty baseURL selects the
// public API.
func NewCleveland(client *httputil.Client, baseURL string) *Cleveland {
	return &Cleveland{client: client, baseURL: orDefault(baseURL, clevelandBase)}
}

// Name returns the source identifier.
func (c *Cleveland) Name() string { return NameCleveland }

// Fetch searches open access artworks with images matching the theme
// keywords, restricted to the period's creation dates when one is set.
func (c *Cleveland) Fetch(ctx context.Context, q types.QuerySpec) ([]types.ArtworkRecord, error) {
	text := themeKeywords(q)
	if text == "" {
		return nil, nil
	}

	params := url.Values{
		"q":         {text},
		"has_image": {"1"},
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.DateRange != nil {
		params.Set("created_after", strconv.Itoa(q.DateRange.Start))
		params.Set("created_before", strconv.Itoa(q.DateRange.End))
	}

	var resp clevelandResponse
	err := c.client.GetJSON(ctx, c.client.NewLimiter(clevelandRequestsPerSecond), c.baseURL+"/artworks/?"+params.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("cleveland search: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	records := make([]types.ArtworkRecord, 0, len(resp.Data))
	for _, art := range resp.Data {
		records = append(records, art.record())
	}
	return records, nil
}

// Cleveland API JSON structures.
type clevelandResponse struct {
	Data []clevelandArtwork `json:"data"`
}

type clevelandArtwork struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	CreationDate    string   `json:"creation_date"`
	Culture         []string `json:"culture"`
	Technique       string   `json:"technique"`
	Department      string   `json:"department"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	WallDescription string   `json:"wall_description"`
	URL             string   `json:"url"`
	Creators        []struct {
		Description string `json:"description"`
	} `json:"creators"`
	Images struct {
		Web struct {
			URL string `json:"url"`
		} `json:"web"`
	} `json:"images"`
}

func (a clevelandArtwork) record() types.ArtworkRecord {
	// Creator descriptions read "Name (Nationality, 1840-1926)".
	var artist string
	if len(a.Creators) > 0 {
		artist, _, _ = strings.Cut(a.Creators[0].Description, " (")
		artist = clean(artist)
	}

	description := plainText(a.Description)
	if description == "" {
		description = plainText(a.WallDescription)
	}

	culture := joinTags(a.Culture...)
	return types.ArtworkRecord{
		Title:          clean(a.Title),
		Artist:         artist,
		Date:           clean(a.CreationDate),
		Culture:        culture,
		Medium:         clean(a.Technique),
		Department:     clean(a.Department),
		Classification: clean(a.Type),
		Description:    description,
		Tags:           joinTags(append(append([]string(nil), a.Culture...), a.Type)...),
		ImageURL:       httpURL(a.Images.Web.URL),
		Source:         NameCleveland,
		SourceURL:      httpURL(a.URL),
		SourceID:       strconv.Itoa(a.ID),
	}
}
