package data

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func result(sector string, status domain.AnalysisStatus) *domain.AnalysisResult {
	return &domain.AnalysisResult{Sector: sector, Analysis: "# " + sector, Status: status, DataSources: []string{}}
}

func TestAnalysisCache_GetPut(t *testing.T) {
	c := NewAnalysisCache(nil)

	_, ok := c.Get("s1", "technology")
	require.False(t, ok)

	r1 := result("technology", domain.StatusSuccess)
	c.Put("s1", "technology", r1)
	got, ok := c.Get("s1", "technology")
	require.True(t, ok)
	assert.Same(t, r1, got)

	// 后写覆盖先写
	r2 := result("technology", domain.StatusSuccess)
	c.Put("s1", "technology", r2)
	got, _ = c.Get("s1", "technology")
	assert.Same(t, r2, got)

	_, ok = c.Get("s2", "technology")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, domain.CacheStats{Entries: 1, Hits: 2, Misses: 2}, stats)
}

func TestAnalysisCache_Invalidate(t *testing.T) {
	c := NewAnalysisCache(nil)
	c.Put("alice_1.1.1.1_10", "technology", result("technology", domain.StatusSuccess))
	c.Put("alice_1.1.1.1_11", "banking", result("banking", domain.StatusSuccess))
	c.Put("bob_1.1.1.1_10", "technology", result("technology", domain.StatusSuccess))

	assert.Equal(t, 2, c.Invalidate("alice_1.1.1.1_"))
	assert.Equal(t, 0, c.Invalidate("alice_1.1.1.1_"))
	_, ok := c.Get("bob_1.1.1.1_10", "technology")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestAnalysisCache_Unbounded(t *testing.T) {
	c := NewAnalysisCache(&conf.Cache{})
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("s%d", i), "x", result("x", domain.StatusSuccess))
	}
	assert.Equal(t, 1000, c.Stats().Entries)
}

func TestAnalysisCache_LRU(t *testing.T) {
	c := NewAnalysisCache(&conf.Cache{MaxEntries: 2})
	c.Put("s", "a", result("a", domain.StatusSuccess))
	c.Put("s", "b", result("b", domain.StatusSuccess))

	// a 最近被访问，淘汰 b
	_, ok := c.Get("s", "a")
	require.True(t, ok)
	c.Put("s", "c", result("c", domain.StatusSuccess))

	_, ok = c.Get("s", "b")
	assert.False(t, ok)
	_, ok = c.Get("s", "a")
	assert.True(t, ok)
	_, ok = c.Get("s", "c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Stats().Entries)
}

func TestAnalysisCache_TTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	c := newAnalysisCache(&conf.Cache{SuccessTTL: "1h", ErrorTTL: "1m"}, clock.now)

	c.Put("s", "ok", result("ok", domain.StatusSuccess))
	c.Put("s", "bad", result("bad", domain.StatusError))

	clock.advance(2 * time.Minute)
	_, ok := c.Get("s", "bad")
	assert.False(t, ok, "error results expire after error_ttl")
	_, ok = c.Get("s", "ok")
	assert.True(t, ok)

	clock.advance(time.Hour)
	_, ok = c.Get("s", "ok")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestAnalysisCache_ErrorTTLDefaultsToSuccessTTL(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newAnalysisCache(&conf.Cache{SuccessTTL: "10m"}, clock.now)
	c.Put("s", "bad", result("bad", domain.StatusError))

	clock.advance(5 * time.Minute)
	_, ok := c.Get("s", "bad")
	assert.True(t, ok)
	clock.advance(5 * time.Minute)
	_, ok = c.Get("s", "bad")
	assert.False(t, ok)
}

func TestAnalysisCache_Concurrent(t *testing.T) {
	c := NewAnalysisCache(&conf.Cache{MaxEntries: 16})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("s%d", j%32)
				c.Put(key, "x", result("x", domain.StatusSuccess))
				c.Get(key, "x")
				if j%50 == 0 {
					c.Invalidate("s1")
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Stats().Entries, 16)
}
