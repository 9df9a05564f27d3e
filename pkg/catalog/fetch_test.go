package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

// specsHandler serves a canned foundation_model_specs response.
func specsHandler(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SpecsPath, r.URL.Path)
		assert.Equal(t, APIVersion, r.URL.Query().Get("version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func testRegion(t *testing.T, serverURL string) Region {
	t.Helper()
	region, err := NewRegion(serverURL)
	require.NoError(t, err)
	return region
}

func TestFetchRegionFiltersLifecycle(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(specsHandler(t, `{
		"resources": [
			{"model_id": "x", "lifecycle": [{"id": "deprecated", "start_date": "2020-01-01"}]},
			{"model_id": "y", "lifecycle": [{"id": "deprecated", "start_date": "2099-01-01"}]},
			{"model_id": "z", "lifecycle": []}
		]
	}`))
	defer server.Close()

	fetcher := NewFetcher(WithAsOf(asOf))
	got, err := fetcher.FetchRegion(context.Background(), testRegion(t, server.URL))
	require.NoError(t, err)

	assert.False(t, got.Contains("x"), "past deprecation must exclude")
	assert.True(t, got.Contains("y"), "future deprecation must not exclude")
	assert.True(t, got.Contains("z"))
	assert.Len(t, got, 2)
}

func TestFetchRegionSendsCapabilityFilter(t *testing.T) {
	var gotFilters string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilters = r.URL.Query().Get("filters")
		_, _ = w.Write([]byte(`{"resources":[]}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(WithFilter(FilterEmbedding))
	_, err := fetcher.FetchRegion(context.Background(), testRegion(t, server.URL))
	require.NoError(t, err)

	assert.Equal(t, "function_embedding,!lifecycle_withdrawn", gotFilters)
}

func TestFetchRegionNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewFetcher()
	_, err := fetcher.FetchRegion(context.Background(), testRegion(t, server.URL))
	require.Error(t, err)

	var fetchErr *errors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, errors.IsRegionUnavailable(err))
}

func TestFetchRegionMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"resources": "not-an-array"}`))
	}))
	defer server.Close()

	fetcher := NewFetcher()
	_, err := fetcher.FetchRegion(context.Background(), testRegion(t, server.URL))
	require.Error(t, err)

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFetchAllIsolatesRegionFailure(t *testing.T) {
	healthy := httptest.NewServer(specsHandler(t, `{
		"resources": [{"model_id": "m1", "lifecycle": []}, {"model_id": "m2", "lifecycle": []}]
	}`))
	defer healthy.Close()

	// Slower than the fetcher timeout, so this region times out.
	stuck := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"resources":[]}`))
	}))
	defer stuck.Close()

	// Both loopback servers would derive the same short code, and
	// reconciliation keys on codes, so the codes are set explicitly.
	healthyRegion := Region{BaseURL: healthy.URL, Code: "healthy"}
	stuckRegion := Region{BaseURL: stuck.URL, Code: "stuck"}

	fetcher := NewFetcher(WithTimeout(50 * time.Millisecond))
	sets := fetcher.FetchAll(context.Background(), []Region{healthyRegion, stuckRegion})

	require.Len(t, sets, 2)
	assert.Len(t, sets[healthyRegion], 2, "healthy region unaffected by the timeout")
	assert.Empty(t, sets[stuckRegion], "timed-out region degrades to an empty set")

	// The degraded run still reconciles to completion.
	result, err := Reconcile(sets, healthyRegion)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Counts[stuckRegion.Code])
	assert.Equal(t, []string{"m1", "m2"}, result.Missing[stuckRegion.Code])
}

func TestFetchAllOrderIndependent(t *testing.T) {
	server := httptest.NewServer(specsHandler(t, `{
		"resources": [{"model_id": "m1", "lifecycle": []}]
	}`))
	defer server.Close()

	region := testRegion(t, server.URL)
	fetcher := NewFetcher()

	sets := fetcher.FetchAll(context.Background(), []Region{region})
	result, err := Reconcile(sets, region)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, result.Intersection)
	assert.Equal(t, []string{region.Code}, result.ModelRegions["m1"])
}

func TestFetcherFixedAsOf(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fetcher := NewFetcher(WithAsOf(asOf))
	assert.Equal(t, asOf, fetcher.AsOf())
}
