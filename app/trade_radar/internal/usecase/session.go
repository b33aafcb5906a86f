package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

const (
	sessionBucket     = time.Hour
	defaultSessionTTL = 24 * time.Hour
)

// SessionKey 会话键 = 身份_来源_小时桶。同一小时内同一调用方总是落在同一条记录上
func SessionKey(identity, origin string, now time.Time) string {
	return fmt.Sprintf("%s%d", SessionPrefix(identity, origin), now.Unix()/int64(sessionBucket/time.Second))
}

// SessionPrefix 某个调用方在所有小时桶上的公共前缀
func SessionPrefix(identity, origin string) string {
	return identity + "_" + origin + "_"
}

// SessionManager 进程内会话表，所有读改写都在互斥锁内完成
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*domain.SessionRecord
	ttl      time.Duration
	log      *log.Helper
}

// NewSessionManager 创建会话表；配置了 sweep_interval 时启动后台清理，返回的 cleanup 负责停止
func NewSessionManager(c *conf.Session, logger log.Logger) (*SessionManager, func()) {
	ttl := defaultSessionTTL
	var sweep time.Duration
	if c != nil {
		ttl = conf.Duration(c.TTL, defaultSessionTTL)
		sweep = conf.Duration(c.SweepInterval, 0)
	}
	m := &SessionManager{
		sessions: make(map[string]*domain.SessionRecord),
		ttl:      ttl,
		log:      log.NewHelper(logger),
	}

	if sweep <= 0 {
		return m, func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweep)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				m.ExpireStale(now)
			}
		}
	}()
	var once sync.Once
	return m, func() { once.Do(func() { close(done) }) }
}

// Resolve 返回调用方当前小时的会话键，必要时创建记录，并累加请求计数
func (m *SessionManager) Resolve(id domain.Identity, origin string, now time.Time) string {
	key := SessionKey(id.Username, origin, now)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[key]
	if !ok {
		rec = &domain.SessionRecord{
			Identity:  id.Username,
			Origin:    origin,
			CreatedAt: now,
			IsGuest:   id.IsGuest,
		}
		m.sessions[key] = rec
	}
	rec.RequestCount++
	rec.LastSeenAt = now
	return key
}

// Get 返回会话记录的副本
func (m *SessionManager) Get(key string) (domain.SessionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[key]
	if !ok {
		return domain.SessionRecord{}, false
	}
	return *rec, true
}

// ExpireStale 删除创建时间超过 TTL 的记录，返回删除数量
func (m *SessionManager) ExpireStale(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, rec := range m.sessions {
		if now.Sub(rec.CreatedAt) > m.ttl {
			delete(m.sessions, key)
			removed++
		}
	}
	if removed > 0 {
		m.log.Infof("Cleaned up %d expired sessions", removed)
	}
	return removed
}

// Stats 先清理过期记录，再统计存活会话
func (m *SessionManager) Stats(now time.Time) domain.SessionStats {
	m.ExpireStale(now)

	m.mu.Lock()
	defer m.mu.Unlock()

	var stats domain.SessionStats
	for _, rec := range m.sessions {
		stats.Total++
		if rec.IsGuest {
			stats.Guest++
		}
	}
	stats.Authenticated = stats.Total - stats.Guest
	return stats
}
