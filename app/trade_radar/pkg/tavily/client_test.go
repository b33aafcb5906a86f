package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))

		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "steel sector India", body.Query)
		assert.Equal(t, "news", body.Topic)
		assert.Equal(t, 3, body.MaxResults)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"steel sector India","results":[
			{"title":"Steel demand rises","url":"https://example.com/a","content":"Demand is up","score":0.9},
			{"title":"Steel exports","url":"https://example.com/b","content":"Exports grew","score":0.7}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-key", srv.URL)
	resp, err := c.Search(context.Background(), &search.Request{Query: "steel sector India", Topic: "news", MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, search.Result{Title: "Steel demand rises", URL: "https://example.com/a", Snippet: "Demand is up", Score: 0.9}, resp.Results[0])
	assert.Equal(t, "Tavily Search", c.Name())
}

func TestClient_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL).Search(context.Background(), &search.Request{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
