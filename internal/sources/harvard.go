// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/pkg/types"
)

var harvardBase = "https://api.harvardartmuseums.org"

const (
	harvardRequestsPerSecond = 2
	harvardMaxSize           = 100
)

// Harvard queries the Harvard Art Museums API. Every request carries the
// configured API key.
type Harvard struct {
	client  *httputil.Client
	baseURL string
	apiKey  string
}

// NewHarvard returns the Harvard adapter. An empty baseURL selects the
// public API.
func NewHarvard(client *httputil.Client, baseURL, apiKey string) *Harvard {
	return &Harvard{client: client, baseURL: orDefault(baseURL, harvardBase), apiKey: apiKey}
}

// Name returns the source identifier.
func (h *Harvard) Name() string { return NameHarvard }

// Fetch runs a keyword search over objects with images.
func (h *Harvard) Fetch(ctx context.Context, q types.QuerySpec) ([]types.ArtworkRecord, error) {
	text := themeKeywords(q)
	if text == "" {
		return nil, nil
	}

	size := q.Limit
	if size <= 0 || size > harvardMaxSize {
		size = harvardMaxSize
	}
	params := url.Values{
		"apikey":   {h.apiKey},
		"keyword":  {text},
		"size":     {strconv.Itoa(size)},
		"hasimage": {"1"},
	}
	if q.DateRange != nil {
		params.Set("q", fmt.Sprintf("datebegin:[%d TO %d]", q.DateRange.Start, q.DateRange.End))
	}

	var resp harvardResponse
	err := h.client.GetJSON(ctx, h.client.NewLimiter(harvardRequestsPerSecond), h.baseURL+"/object?"+params.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("harvard search: %w", err)
	}
	if len(resp.Records) == 0 {
		return nil, nil
	}

	records := make([]types.ArtworkRecord, 0, len(resp.Records))
	for _, obj := range resp.Records {
		records = append(records, obj.record())
	}
	return records, nil
}

// Harvard API JSON structures.
type harvardResponse struct {
	Records []harvardObject `json:"records"`
}

type harvardObject struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Dated           string `json:"dated"`
	Period          string `json:"period"`
	Culture         string `json:"culture"`
	Medium          string `json:"medium"`
	Technique       string `json:"technique"`
	Division        string `json:"division"`
	Classification  string `json:"classification"`
	Description     string `json:"description"`
	LabelText       string `json:"labeltext"`
	PrimaryImageURL string `json:"primaryimageurl"`
	URL             string `json:"url"`
	People          []struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"people"`
}

func (o harvardObject) record() types.ArtworkRecord {
	var artist string
	if len(o.People) > 0 {
		artist = clean(o.People[0].Name)
	}

	medium := clean(o.Medium)
	if medium == "" {
		medium = clean(o.Technique)
	}

	description := plainText(o.Description)
	if description == "" {
		description = plainText(o.LabelText)
	}

	return types.ArtworkRecord{
		Title:          clean(o.Title),
		Artist:         artist,
		Date:           clean(o.Dated),
		Period:         clean(o.Period),
		Culture:        clean(o.Culture),
		Medium:         medium,
		Department:     clean(o.Division),
		Classification: clean(o.Classification),
		Description:    description,
		Tags:           joinTags(o.Culture, o.Period, o.Classification),
		ImageURL:       httpURL(o.PrimaryImageURL),
		Source:         NameHarvard,
		SourceURL:      httpURL(o.URL),
		SourceID:       strconv.Itoa(o.ID),
	}
}
