package rss

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

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>News</title>
  <item>
    <title>Cement prices firm up</title>
    <link>https://example.com/cement</link>
    <description>&lt;a href="https://example.com/cement"&gt;Cement prices&lt;/a&gt;  rise in &lt;b&gt;north&lt;/b&gt; India</description>
    <pubDate>Tue, 30 Apr 2024 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Old cement story</title>
    <link>https://example.com/old</link>
    <description>Stale</description>
    <pubDate>Mon, 01 Jan 2024 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Undated cement story</title>
    <link>https://example.com/undated</link>
    <description>No date</description>
  </item>
</channel>
</rss>`

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cement India", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/rss?q={query}", 0, time.Second)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	resp, err := c.Search(context.Background(), &search.Request{Query: "cement India", MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Cement prices firm up", resp.Results[0].Title)
	assert.Equal(t, "https://example.com/cement", resp.Results[0].URL)
	assert.Equal(t, "Cement prices rise in north India", resp.Results[0].Snippet)
	assert.Equal(t, "Undated cement story", resp.Results[1].Title)

	resp, err = c.Search(context.Background(), &search.Request{Query: "cement India", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestClient_SearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"?q={query}", 0, time.Second)
	_, err := c.Search(context.Background(), &search.Request{Query: "x"})
	assert.Error(t, err)

	_, err = c.Search(context.Background(), &search.Request{Query: " "})
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "plain", plainText("  plain "))
	assert.Equal(t, "a b", plainText("<p>a</p> <p>b</p>"))
}
