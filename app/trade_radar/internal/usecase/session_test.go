package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	m, cleanup := NewSessionManager(&conf.Session{TTL: "24h"}, log.DefaultLogger)
	t.Cleanup(cleanup)
	return m
}

func TestSessionKey(t *testing.T) {
	now := time.Unix(7200*3+59, 0)
	assert.Equal(t, "alice_10.0.0.1_6", SessionKey("alice", "10.0.0.1", now))
	assert.Equal(t, "alice_10.0.0.1_", SessionPrefix("alice", "10.0.0.1"))
}

func TestSessionManager_Resolve(t *testing.T) {
	m := newTestSessionManager(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	alice := domain.Identity{Username: "alice"}

	k1 := m.Resolve(alice, "1.2.3.4", base)
	k2 := m.Resolve(alice, "1.2.3.4", base.Add(30*time.Minute))
	require.Equal(t, k1, k2, "same hour must map to the same session")

	rec, ok := m.Get(k1)
	require.True(t, ok)
	assert.Equal(t, 2, rec.RequestCount)
	assert.Equal(t, base, rec.CreatedAt)
	assert.Equal(t, base.Add(30*time.Minute), rec.LastSeenAt)
	assert.False(t, rec.IsGuest)

	k3 := m.Resolve(alice, "1.2.3.4", base.Add(time.Hour))
	assert.NotEqual(t, k1, k3, "next hour starts a new bucket")
	rec, ok = m.Get(k3)
	require.True(t, ok)
	assert.Equal(t, 1, rec.RequestCount)
	assert.Equal(t, base.Add(time.Hour), rec.CreatedAt)

	k4 := m.Resolve(domain.Guest(), "1.2.3.4", base)
	assert.NotEqual(t, k1, k4)
	rec, ok = m.Get(k4)
	require.True(t, ok)
	assert.True(t, rec.IsGuest)
	assert.Equal(t, 1, rec.RequestCount)
}

func TestSessionManager_ConcurrentResolve(t *testing.T) {
	m := newTestSessionManager(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	const n = 50
	var wg sync.WaitGroup
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i] = m.Resolve(domain.Guest(), "9.9.9.9", now)
		}(i)
	}
	wg.Wait()

	for _, k := range keys {
		require.Equal(t, keys[0], k)
	}
	rec, ok := m.Get(keys[0])
	require.True(t, ok)
	assert.Equal(t, n, rec.RequestCount)
}

func TestSessionManager_ExpireStale(t *testing.T) {
	m := newTestSessionManager(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	old := m.Resolve(domain.Guest(), "a", base)
	fresh := m.Resolve(domain.Identity{Username: "bob"}, "b", base.Add(2*time.Hour))

	assert.Equal(t, 0, m.ExpireStale(base.Add(24*time.Hour)), "exactly 24h is still live")
	assert.Equal(t, 1, m.ExpireStale(base.Add(24*time.Hour+time.Second)))

	_, ok := m.Get(old)
	assert.False(t, ok)
	_, ok = m.Get(fresh)
	assert.True(t, ok)
}

func TestSessionManager_Stats(t *testing.T) {
	m := newTestSessionManager(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	m.Resolve(domain.Guest(), "a", base)
	m.Resolve(domain.Guest(), "b", base.Add(20*time.Hour))
	m.Resolve(domain.Identity{Username: "carol"}, "a", base.Add(20*time.Hour))

	stats := m.Stats(base.Add(21 * time.Hour))
	assert.Equal(t, domain.SessionStats{Total: 3, Guest: 2, Authenticated: 1}, stats)

	// 第一条会话已超过 24h
	stats = m.Stats(base.Add(25 * time.Hour))
	assert.Equal(t, domain.SessionStats{Total: 2, Guest: 1, Authenticated: 1}, stats)
}

func TestSessionManager_Sweeper(t *testing.T) {
	m, cleanup := NewSessionManager(&conf.Session{TTL: "1ms", SweepInterval: "5ms"}, log.DefaultLogger)
	defer cleanup()

	key := m.Resolve(domain.Guest(), "a", time.Now().Add(-time.Second))
	require.Eventually(t, func() bool {
		_, ok := m.Get(key)
		return !ok
	}, time.Second, 5*time.Millisecond)

	cleanup()
	cleanup()
}
