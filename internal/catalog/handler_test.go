package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/primer-realty/internal/fixtures"
	"github.com/wolfman30/primer-realty/internal/observability/metrics"
)

type fakeFavorites struct {
	ids []int
	err error
}

func (f *fakeFavorites) List(context.Context) ([]int, error) { return f.ids, f.err }

func (f *fakeFavorites) Contains(_ context.Context, id int) (bool, error) {
	for _, v := range f.ids {
		if v == id {
			return true, nil
		}
	}
	return false, f.err
}

type failingSource struct{}

func (failingSource) Fetch(context.Context) ([]byte, error) { return nil, errors.New("timeout") }
func (failingSource) String() string                        { return "failing" }

func newTestRouter(t *testing.T, favs FavoriteSource) (*Handler, http.Handler) {
	t.Helper()
	repo := NewRepository(fixtures.NewStaticCollection("properties", sampleProperties()))
	h := NewHandler(repo, favs, metrics.NewCatalogMetrics(prometheus.NewRegistry()), nil)
	r := chi.NewRouter()
	r.Mount("/api/properties", h.Routes())
	return h, r
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_List(t *testing.T) {
	_, r := newTestRouter(t, nil)

	rec := doGet(t, r, "/api/properties?location=tx&type=apartment&sort=price-high")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items     []Property `json:"items"`
		Total     int        `json:"total"`
		NoResults bool       `json:"no_results"`
		View      View       `json:"view"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, []int{1, 5}, ids(body.Items))
	assert.False(t, body.NoResults)
	assert.Equal(t, SortPriceHigh, body.View.Sort)
}

func TestHandler_ListNoResultsAndOutOfRange(t *testing.T) {
	_, r := newTestRouter(t, nil)

	rec := doGet(t, r, "/api/properties?location=atlantis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"no_results":true`)

	rec = doGet(t, r, "/api/properties?page=9")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "page out of range")
}

func TestHandler_ListFavorites(t *testing.T) {
	_, r := newTestRouter(t, &fakeFavorites{ids: []int{6, 2}})

	rec := doGet(t, r, "/api/properties?favorites=true&location=nowhere")
	require.Equal(t, http.StatusOK, rec.Code)
	var body Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []int{6, 2}, ids(body.Items))

	_, r = newTestRouter(t, &fakeFavorites{err: errors.New("redis down")})
	rec = doGet(t, r, "/api/properties?favorites=true")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_Detail(t *testing.T) {
	_, r := newTestRouter(t, &fakeFavorites{ids: []int{2}})

	rec := doGet(t, r, "/api/properties/2")
	require.Equal(t, http.StatusOK, rec.Code)
	var body DetailResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Family Home", body.Property.Title)
	assert.Equal(t, []int{4}, ids(body.Similar))
	assert.True(t, body.Favorite)

	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/api/properties/404").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/api/properties/abc").Code)
}

func TestHandler_FeaturedAndSuggestions(t *testing.T) {
	_, r := newTestRouter(t, nil)

	rec := doGet(t, r, "/api/properties/featured?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var featured struct {
		Items []Property `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&featured))
	assert.Equal(t, []int{1, 2}, ids(featured.Items))

	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/api/properties/featured?limit=0").Code)

	rec = doGet(t, r, "/api/properties/suggestions?q=mia")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Miami"`)
}

func TestHandler_ReloadFailureKeepsServing(t *testing.T) {
	coll := fixtures.NewCollection(fixtures.Options[Property]{
		Name:   "properties",
		Source: failingSource{},
		Decode: DecodeDocument,
	})
	h := NewHandler(NewRepository(coll), nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retryable":true`)
}
