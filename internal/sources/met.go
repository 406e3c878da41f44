// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/pkg/types"
)

// metBase is the Met Collection API root. Declared as a var so tests can
// substitute an httptest server.
var metBase = "https://collectionapi.metmuseum.org/public/collection/v1"

const (
	// metRequestsPerSecond stays under the Met's published 80 req/s limit.
	metRequestsPerSecond = 60

	// metObjectConcurrency bounds concurrent object lookups in one call.
	metObjectConcurrency = 8
)

// Met queries The Metropolitan Museum of Art. A search returns only object
// IDs, so each hit is resolved with a second request.
type Met struct {
	client  *httputil.Client
	baseURL string
	log     logger.Logger
}

// NewMet returns the Met adapter. An empty baseURL selects the public API.
func NewMet(client *httputil.Client, baseURL string, log logger.Logger) *Met {
	if log == nil {
		log = logger.NewNop()
	}
	return &Met{client: client, baseURL: orDefault(baseURL, metBase), log: log}
}

// Name returns the source identifier.
func (m *Met) Name() string { return NameMet }

// Fetch searches for objects with images matching the theme keywords and
// resolves up to q.Limit of them. Objects that fail to resolve are skipped;
// the call fails only when the search itself fails or every lookup does.
func (m *Met) Fetch(ctx context.Context, q types.QuerySpec) ([]types.ArtworkRecord, error) {
	text := themeKeywords(q)
	if text == "" {
		return nil, nil
	}

	params := url.Values{
		"q":         {text},
		"hasImages": {"true"},
	}
	if q.DateRange != nil {
		params.Set("dateBegin", strconv.Itoa(q.DateRange.Start))
		params.Set("dateEnd", strconv.Itoa(q.DateRange.End))
	}

	lim := m.client.NewLimiter(metRequestsPerSecond)

	var sr metSearchResponse
	if err := m.client.GetJSON(ctx, lim, m.baseURL+"/search?"+params.Encode(), &sr); err != nil {
		return nil, fmt.Errorf("met search: %w", err)
	}
	ids := sr.ObjectIDs
	if len(ids) == 0 {
		return nil, nil
	}
	if q.Limit > 0 && len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}

	var (
		mu       sync.Mutex
		firstErr error
		failed   int
	)
	found := make([]*types.ArtworkRecord, len(ids))

	var g errgroup.Group
	g.SetLimit(metObjectConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			var obj metObject
			err := m.client.GetJSON(ctx, lim, fmt.Sprintf("%s/objects/%d", m.baseURL, id), &obj)
			if err != nil {
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				m.log.Debug("Met object lookup failed", logger.Int("object_id", id), logger.Error(err))
				return nil
			}
			rec := obj.record()
			found[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(ids) {
		return nil, fmt.Errorf("met: all %d object lookups failed: %w", failed, firstErr)
	}

	records := make([]types.ArtworkRecord, 0, len(ids)-failed)
	for _, r := range found {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// Met API JSON structures.
type metSearchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

type metObject struct {
	ObjectID          int    `json:"objectID"`
	Title             string `json:"title"`
	ArtistDisplayName string `json:"artistDisplayName"`
	ObjectDate        string `json:"objectDate"`
	Period            string `json:"period"`
	Culture           string `json:"culture"`
	Medium            string `json:"medium"`
	Department        string `json:"department"`
	Classification    string `json:"classification"`
	PrimaryImage      string `json:"primaryImage"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
	ObjectURL         string `json:"objectURL"`
}

func (o metObject) record() types.ArtworkRecord {
	image := httpURL(o.PrimaryImage)
	if image == "" {
		image = httpURL(o.PrimaryImageSmall)
	}
	return types.ArtworkRecord{
		Title:          clean(o.Title),
		Artist:         clean(o.ArtistDisplayName),
		Date:           clean(o.ObjectDate),
		Period:         clean(o.Period),
		Culture:        clean(o.Culture),
		Medium:         clean(o.Medium),
		Department:     clean(o.Department),
		Classification: clean(o.Classification),
		Tags:           joinTags(o.Culture, o.Period, o.Classification),
		ImageURL:       image,
		Source:         NameMet,
		SourceURL:      httpURL(o.ObjectURL),
		SourceID:       strconv.Itoa(o.ObjectID),
	}
}
