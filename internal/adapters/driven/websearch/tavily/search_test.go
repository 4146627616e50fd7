package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestSearch_BuildsDigest(t *testing.T) {
	var gotRequest searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "India Code", "url": "https://indiacode.nic.in", "content": "Official statutes."},
				{"title": "Legal Blog", "url": "https://example.org", "content": "Indemnity explained."},
			},
		})
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "tvly-test", BaseURL: server.URL, MaxResults: 2})
	require.NoError(t, err)
	defer client.Close()

	digest, err := client.Search(context.Background(), "indemnity in Indian law")
	require.NoError(t, err)

	assert.Equal(t, "tvly-test", gotRequest.APIKey)
	assert.Equal(t, "indemnity in Indian law", gotRequest.Query)
	assert.Equal(t, 2, gotRequest.MaxResults)

	assert.Contains(t, digest, "India Code - https://indiacode.nic.in: Official statutes.")
	assert.Contains(t, digest, "Legal Blog - https://example.org: Indemnity explained.")
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	digest, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, digest)
}

func TestSearch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("too many requests"))
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "anything")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}

func TestSearch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
}
