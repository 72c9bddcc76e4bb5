package cache

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gentorrent/pkg/storage"
	"gentorrent/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 1. SpyStore (间谍存储)
// 用于统计底层方法被调用的次数，验证请求是否穿透了缓存
// -----------------------------------------------------------------------------
type SpyStore struct {
	hasCount int32
	putCount int32

	mu        sync.Mutex
	artifacts map[types.InfoHash][]byte
}

func NewSpyStore() *SpyStore {
	return &SpyStore{
		artifacts: make(map[types.InfoHash][]byte),
	}
}

func (s *SpyStore) Has(ctx context.Context, hash types.InfoHash) (bool, error) {
	atomic.AddInt32(&s.hasCount, 1) // 记录调用次数
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.artifacts[hash]
	return ok, nil
}

func (s *SpyStore) Put(ctx context.Context, a storage.Artifact) error {
	atomic.AddInt32(&s.putCount, 1) // 记录调用次数
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[a.InfoHash] = a.Data
	return nil
}

// 其他接口存根 (Stub)
func (s *SpyStore) Get(ctx context.Context, hash types.InfoHash) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}
func (s *SpyStore) ExpandHash(ctx context.Context, prefix string) (types.InfoHash, error) {
	return "", storage.ErrNotFound
}

func TestNewCachedStore_InvalidURL(t *testing.T) {
	_, err := NewCachedStore(NewSpyStore(), Config{RedisURL: "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}

// -----------------------------------------------------------------------------
// 2. 集成测试
// -----------------------------------------------------------------------------

func TestCachedStore_Integration(t *testing.T) {
	// A. 环境检查: 确保 Redis 在运行
	redisAddr := "localhost:6379"
	conn, err := net.DialTimeout("tcp", redisAddr, 1*time.Second)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	conn.Close()

	// B. 初始化
	ctx := context.Background()
	spy := NewSpyStore()
	cachedStore, err := NewCachedStore(spy, Config{
		RedisURL: fmt.Sprintf("redis://%s/0", redisAddr),
		TTL:      1 * time.Hour,
	})
	require.NoError(t, err)
	defer cachedStore.Close()

	hash := types.InfoHash("1111222233334444555566667777888899990000")
	// 清理 Redis (防止上次测试残留)
	cachedStore.client.Del(ctx, cachedStore.cacheKey(hash))

	// --- Step 1: Cache Miss ---
	exists, err := cachedStore.Has(ctx, hash)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.hasCount), "Backend Has() should be called on miss")

	// --- Step 2: Put (Write-Through) ---
	require.NoError(t, cachedStore.Put(ctx, storage.Artifact{InfoHash: hash, Data: []byte("d4:infodee")}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.putCount), "Backend Put() should be called")

	redisVal, err := cachedStore.client.Exists(ctx, cachedStore.cacheKey(hash)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), redisVal, "Redis key should be set after Put")

	// --- Step 3: Cache Hit ---
	exists, err = cachedStore.Has(ctx, hash)
	require.NoError(t, err)
	assert.True(t, exists)

	// Put 内部的预检调用了一次，命中后不应再增加
	assert.Equal(t, int32(2), atomic.LoadInt32(&spy.hasCount), "Backend Has() should NOT be called on hit")

	// --- Step 4: 重复 Put 被缓存拦截 ---
	require.NoError(t, cachedStore.Put(ctx, storage.Artifact{InfoHash: hash}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.putCount))
}
