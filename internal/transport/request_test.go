package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

func TestGetAppliesQueryAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resources":[]}`))
	}))
	defer server.Close()

	client := New(WithBearerToken("tok-123"))
	query := url.Values{}
	query.Set("version", "2024-09-16")
	query.Set("filters", "function_text_chat,!lifecycle_withdrawn")

	resp, err := client.Get(context.Background(), server.URL+"/ml/v1/foundation_model_specs", query)
	require.NoError(t, err)

	var out struct {
		Resources []any `json:"resources"`
	}
	require.NoError(t, DecodeResponse(resp, "test", &out))

	assert.Equal(t, "2024-09-16", gotQuery.Get("version"))
	assert.Equal(t, "function_text_chat,!lifecycle_withdrawn", gotQuery.Get("filters"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDecodeResponseNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := New()
	resp, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = DecodeResponse(resp, "eu-de", &out)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "eu-de", apiErr.Region)
	assert.True(t, errors.IsRegionUnavailable(err))
}

func TestDecodeResponseMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := New()
	resp, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = DecodeResponse(resp, "jp-tok", &out)

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
}

func TestPostEncodesBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New()
	resp, err := client.Post(context.Background(), server.URL, nil, map[string]string{"model_id": "ibm/granite-3-8b-instruct"})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"model_id":"ibm/granite-3-8b-instruct"}`, string(gotBody))
}
