package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

const resultPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com">Sponsored</a>
  <a class="result__snippet">Buy now</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpharma&amp;rut=abc">Pharma exports hit record</a></h2>
  <a class="result__snippet">Indian pharmaceutical exports grew 10% this year.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://example.com/direct">Generic drug pricing</a></h2>
  <a class="result__snippet">Prices stabilise.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://example.com/third">Third result</a></h2>
</div>
</body></html>`

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/html/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pharmaceuticals India", r.PostForm.Get("q"))
		assert.Equal(t, "in-en", r.PostForm.Get("kl"))

		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(resultPage))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "in-en", time.Second)
	resp, err := c.Search(context.Background(), &search.Request{Query: "pharmaceuticals India", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, search.Result{
		Title:   "Pharma exports hit record",
		URL:     "https://example.com/pharma",
		Snippet: "Indian pharmaceutical exports grew 10% this year.",
	}, resp.Results[0])
	assert.Equal(t, "https://example.com/direct", resp.Results[1].URL)
}

func TestClient_SearchEmptyQuery(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "", time.Second).Search(context.Background(), &search.Request{Query: "  "})
	assert.Error(t, err)
}

func TestClient_SearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Search(context.Background(), &search.Request{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "https://example.com/x?a=1",
		resolveLink("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fx%3Fa%3D1"))
	assert.Equal(t, "https://example.com/y", resolveLink("https://example.com/y"))
}
