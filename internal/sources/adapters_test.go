// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/pkg/types"
)

func testClient() *httputil.Client {
	return httputil.New(httputil.Config{UserAgent: "museum-search-test"})
}

func coldWarQuery(limit int) types.QuerySpec {
	return types.QuerySpec{
		Keywords:      []string{"cold", "war", "posters", "propaganda"},
		ThemeKeywords: 3,
		DateRange:     &types.YearRange{Start: 1947, End: 1991},
		Limit:         limit,
	}
}

const sampleMetObject = `{
  "objectID": %d,
  "title": "Poster %d",
  "artistDisplayName": "Unknown",
  "objectDate": "1962",
  "period": "",
  "culture": "American",
  "medium": "Offset lithograph",
  "department": "Drawings and Prints",
  "classification": "Prints",
  "primaryImage": "",
  "primaryImageSmall": "https://images.metmuseum.org/%d-small.jpg",
  "objectURL": "https://www.metmuseum.org/art/collection/search/%d"
}`

func TestMetFetch(t *testing.T) {
	var lookups atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			q := r.URL.Query()
			assert.Equal(t, "cold war posters", q.Get("q"))
			assert.Equal(t, "true", q.Get("hasImages"))
			assert.Equal(t, "1947", q.Get("dateBegin"))
			assert.Equal(t, "1991", q.Get("dateEnd"))
			fmt.Fprint(w, `{"total": 4, "objectIDs": [11, 12, 13, 14]}`)
		case r.URL.Path == "/objects/13":
			lookups.Add(1)
			w.WriteHeader(http.StatusNotFound)
		case strings.HasPrefix(r.URL.Path, "/objects/"):
			lookups.Add(1)
			var id int
			fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/objects/"), "%d", &id)
			fmt.Fprintf(w, sampleMetObject, id, id, id, id)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	met := NewMet(testClient(), ts.URL, logger.NewNop())
	records, err := met.Fetch(context.Background(), coldWarQuery(3))
	require.NoError(t, err)

	// Only the first three IDs are resolved; 13 fails and is skipped.
	assert.Equal(t, int32(3), lookups.Load())
	require.Len(t, records, 2)
	assert.Equal(t, "Poster 11", records[0].Title)
	assert.Equal(t, "Poster 12", records[1].Title)

	r := records[0]
	assert.Empty(t, r.Artist)
	assert.Equal(t, "met", r.Source)
	assert.Equal(t, "11", r.SourceID)
	assert.Equal(t, "https://images.metmuseum.org/11-small.jpg", r.ImageURL)
	assert.Equal(t, "American, Prints", r.Tags)
	assert.Equal(t, "Drawings and Prints", r.Department)
}

func TestMetFetchNoHits(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total": 0, "objectIDs": null}`)
	}))
	defer ts.Close()

	records, err := NewMet(testClient(), ts.URL, nil).Fetch(context.Background(), coldWarQuery(10))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMetFetchAllLookupsFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			fmt.Fprint(w, `{"total": 2, "objectIDs": [1, 2]}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := NewMet(testClient(), ts.URL, nil).Fetch(context.Background(), coldWarQuery(10))
	assert.ErrorContains(t, err, "all 2 object lookups failed")
}

func TestMetFetchSearchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewMet(testClient(), ts.URL, nil).Fetch(context.Background(), coldWarQuery(10))
	assert.ErrorContains(t, err, "met search")
}

func TestEmptyKeywordsSkipRequest(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	client := testClient()
	for _, src := range []interface {
		Fetch(context.Context, types.QuerySpec) ([]types.ArtworkRecord, error)
	}{
		NewMet(client, ts.URL, nil),
		NewAIC(client, ts.URL),
		NewCleveland(client, ts.URL),
		NewHarvard(client, ts.URL, "k"),
	} {
		records, err := src.Fetch(context.Background(), types.QuerySpec{Limit: 5})
		require.NoError(t, err)
		assert.Nil(t, records)
	}
	assert.Zero(t, calls.Load())
}

const sampleAIC = `{
  "config": {"iiif_url": "https://iiif.example.org/iiif/2"},
  "data": [
    {
      "id": 27992,
      "title": "A Sunday on La Grande Jatte",
      "artist_title": "Georges Seurat",
      "artist_display": "Georges Seurat\nFrench, 1859-1891",
      "date_display": "1884-86",
      "place_of_origin": "France",
      "medium_display": "Oil on canvas",
      "department_title": "Painting and Sculpture of Europe",
      "classification_title": "painting",
      "style_title": "Post-Impressionism",
      "description": "<p>Seurat's <em>masterpiece</em> of leisure.</p>",
      "term_titles": ["leisure", "parks", "Leisure"],
      "image_id": "2d484387"
    },
    {
      "id": 5,
      "title": "Untitled fragment",
      "artist_title": null,
      "artist_display": "Unknown\nEgyptian",
      "image_id": null
    }
  ]
}`

func TestAICFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artworks/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "cold war posters propaganda", q.Get("q"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "1947", q.Get("query[range][date_start][gte]"))
		assert.Equal(t, "1991", q.Get("query[range][date_end][lte]"))
		assert.Contains(t, q.Get("fields"), "image_id")
		fmt.Fprint(w, sampleAIC)
	}))
	defer ts.Close()

	records, err := NewAIC(testClient(), ts.URL).Fetch(context.Background(), coldWarQuery(20))
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "A Sunday on La Grande Jatte", r.Title)
	assert.Equal(t, "Georges Seurat", r.Artist)
	assert.Equal(t, "1884-86", r.Date)
	assert.Equal(t, "Post-Impressionism", r.Period)
	assert.Equal(t, "France", r.Culture)
	assert.Equal(t, "Seurat's masterpiece of leisure.", r.Description)
	assert.Equal(t, "leisure, parks", r.Tags)
	assert.Equal(t, "https://iiif.example.org/iiif/2/2d484387/full/843,/0/default.jpg", r.ImageURL)
	assert.Equal(t, "https://www.artic.edu/artworks/27992", r.SourceURL)
	assert.Equal(t, "27992", r.SourceID)
	assert.Equal(t, "aic", r.Source)

	// artist_display is used when artist_title is missing; placeholders clear.
	assert.Empty(t, records[1].Artist)
	assert.Empty(t, records[1].ImageURL)
	assert.False(t, records[1].HasImage())
}

func TestAICFetchCapsLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("query[range][date_start][gte]"))
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer ts.Close()

	q := types.QuerySpec{Keywords: []string{"sea"}, Limit: 500}
	records, err := NewAIC(testClient(), ts.URL).Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.Nil(t, records)
}

const sampleCleveland = `{
  "data": [
    {
      "id": 135382,
      "title": "Water Lilies (Agapanthus)",
      "creation_date": "c. 1915-1926",
      "culture": ["France, 20th century"],
      "technique": "oil on canvas",
      "department": "Modern European Painting and Sculpture",
      "type": "Painting",
      "description": null,
      "wall_description": "Monet painted his <b>garden</b> pond.",
      "url": "https://clevelandart.org/art/1960.81",
      "creators": [{"description": "Claude Monet (French, 1840-1926)"}],
      "images": {"web": {"url": "https://openaccess-cdn.clevelandart.org/1960.81/1960.81_web.jpg"}}
    }
  ]
}`

func TestClevelandFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artworks/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "cold war posters", q.Get("q"))
		assert.Equal(t, "1", q.Get("has_image"))
		assert.Equal(t, "15", q.Get("limit"))
		assert.Equal(t, "1947", q.Get("created_after"))
		assert.Equal(t, "1991", q.Get("created_before"))
		fmt.Fprint(w, sampleCleveland)
	}))
	defer ts.Close()

	records, err := NewCleveland(testClient(), ts.URL).Fetch(context.Background(), coldWarQuery(15))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "Claude Monet", r.Artist)
	assert.Equal(t, "c. 1915-1926", r.Date)
	assert.Equal(t, "France, 20th century", r.Culture)
	assert.Equal(t, "Monet painted his garden pond.", r.Description)
	assert.Equal(t, "France, 20th century, Painting", r.Tags)
	assert.Equal(t, "https://openaccess-cdn.clevelandart.org/1960.81/1960.81_web.jpg", r.ImageURL)
	assert.Equal(t, "135382", r.SourceID)
	assert.Equal(t, "cleveland", r.Source)
}

const sampleHarvard = `{
  "info": {"totalrecords": 1},
  "records": [
    {
      "id": 299843,
      "title": "Self-Portrait Dedicated to Paul Gauguin",
      "dated": "1888",
      "period": null,
      "culture": "Dutch",
      "medium": null,
      "technique": "Oil on canvas",
      "division": "European and American Art",
      "classification": "Paintings",
      "labeltext": "Painted in Arles.",
      "primaryimageurl": "https://nrs.harvard.edu/urn-3:HUAM:DDC251942",
      "url": "https://www.harvardartmuseums.org/collections/object/299843",
      "people": [{"name": "Vincent van Gogh", "role": "Artist"}]
    }
  ]
}`

func TestHarvardFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret-key", q.Get("apikey"))
		assert.Equal(t, "cold war posters", q.Get("keyword"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "1", q.Get("hasimage"))
		assert.Equal(t, "datebegin:[1947 TO 1991]", q.Get("q"))
		fmt.Fprint(w, sampleHarvard)
	}))
	defer ts.Close()

	records, err := NewHarvard(testClient(), ts.URL, "secret-key").Fetch(context.Background(), coldWarQuery(10))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "Vincent van Gogh", r.Artist)
	assert.Equal(t, "Oil on canvas", r.Medium)
	assert.Equal(t, "Painted in Arles.", r.Description)
	assert.Equal(t, "European and American Art", r.Department)
	assert.Equal(t, "Dutch, Paintings", r.Tags)
	assert.Equal(t, "299843", r.SourceID)
	assert.Equal(t, "harvard", r.Source)
}

func TestHarvardErrorRedactsKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := NewHarvard(testClient(), ts.URL, "secret-key").Fetch(context.Background(), coldWarQuery(10))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}
