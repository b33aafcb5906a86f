package data

import (
	"container/list"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/repo"
)

type cacheKey struct {
	session string
	sector  string
}

type cacheItem struct {
	key   cacheKey
	entry domain.CacheEntry
}

// analysisCache 进程内分析缓存。maxEntries 为 0 时不淘汰；TTL 为 0 时永不过期
type analysisCache struct {
	mu         sync.Mutex
	entries    map[cacheKey]*list.Element
	lru        *list.List
	maxEntries int
	successTTL time.Duration
	errorTTL   time.Duration
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewAnalysisCache 创建分析缓存
// TODO: 默认配置下条目只在进程退出时释放，长期运行的实例应设置 cache.max_entries 或 success_ttl
func NewAnalysisCache(c *conf.Cache) repo.AnalysisCache {
	return newAnalysisCache(c, time.Now)
}

func newAnalysisCache(c *conf.Cache, now func() time.Time) *analysisCache {
	ac := &analysisCache{
		entries: make(map[cacheKey]*list.Element),
		lru:     list.New(),
		now:     now,
	}
	if c != nil {
		if c.MaxEntries > 0 {
			ac.maxEntries = int(c.MaxEntries)
		}
		ac.successTTL = conf.Duration(c.SuccessTTL, 0)
		ac.errorTTL = conf.Duration(c.ErrorTTL, ac.successTTL)
	}
	return ac
}

func (c *analysisCache) Get(sessionKey, sector string) (*domain.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[cacheKey{sessionKey, sector}]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	item := elem.Value.(*cacheItem)
	if c.expired(item.entry) {
		c.remove(elem)
		c.misses.Add(1)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	c.hits.Add(1)
	return item.entry.Result, true
}

func (c *analysisCache) Put(sessionKey, sector string, result *domain.AnalysisResult) {
	if result == nil {
		return
	}
	key := cacheKey{sessionKey, sector}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := domain.CacheEntry{Result: result, StoredAt: c.now()}
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheItem).entry = entry
		c.lru.MoveToFront(elem)
		return
	}

	for c.maxEntries > 0 && c.lru.Len() >= c.maxEntries {
		c.remove(c.lru.Back())
	}
	c.entries[key] = c.lru.PushFront(&cacheItem{key: key, entry: entry})
}

func (c *analysisCache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.entries {
		if strings.HasPrefix(key.session, prefix) {
			c.remove(elem)
			removed++
		}
	}
	return removed
}

func (c *analysisCache) Stats() domain.CacheStats {
	c.mu.Lock()
	n := c.lru.Len()
	c.mu.Unlock()
	return domain.CacheStats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func (c *analysisCache) expired(e domain.CacheEntry) bool {
	ttl := c.successTTL
	if e.Result.Status == domain.StatusError {
		ttl = c.errorTTL
	}
	return ttl > 0 && c.now().Sub(e.StoredAt) >= ttl
}

// remove 调用方须持有锁
func (c *analysisCache) remove(elem *list.Element) {
	item := c.lru.Remove(elem).(*cacheItem)
	delete(c.entries, item.key)
}
