package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gentorrent/pkg/storage"
	"gentorrent/pkg/types"

	"github.com/redis/go-redis/v9"
)

// CachedStore 是一个装饰器，它为底层的 storage.Store 添加 Redis 存在性缓存
type CachedStore struct {
	backend storage.Store // 被装饰的底层存储 (如 S3)
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
}

type Config struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 过期时间
	Logger   *slog.Logger
}

func NewCachedStore(backend storage.Store, cfg Config) (*CachedStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &CachedStore{
		backend: backend,
		client:  client,
		ttl:     cfg.TTL,
		logger:  logger,
	}, nil
}

// cacheKey 生成 Redis Key，添加前缀防止冲突
func (s *CachedStore) cacheKey(hash types.InfoHash) string {
	return "gentorrent:torrent:" + string(hash)
}

// Has 优先查 Redis
func (s *CachedStore) Has(ctx context.Context, hash types.InfoHash) (bool, error) {
	key := s.cacheKey(hash)

	// 1. 查 Redis
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		// Redis 故障时退化为无缓存模式
		s.logger.Warn("redis exists failed, falling back to backend", "key", key, "error", err)
	} else if val > 0 {
		return true, nil
	}

	// 2. 缓存未命中，查底层存储
	found, err := s.backend.Has(ctx, hash)
	if err != nil {
		return false, err
	}

	// 3. 缓存回填，异步进行，不阻塞主流程
	if found {
		go func() {
			fillCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.client.Set(fillCtx, key, "1", s.ttl)
		}()
	}

	return found, nil
}

// Put 发布种子。利用 Has 的缓存能力进行预检。
func (s *CachedStore) Put(ctx context.Context, a storage.Artifact) error {
	exists, err := s.Has(ctx, a.InfoHash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.backend.Put(ctx, a); err != nil {
		return err
	}

	// 只有底层写入成功才写缓存，Set 失败不影响主流程
	if err := s.client.Set(ctx, s.cacheKey(a.InfoHash), "1", s.ttl).Err(); err != nil {
		s.logger.Warn("redis set failed", "infohash", a.InfoHash, "error", err)
	}
	return nil
}

// Get 透传，种子文件本身不进缓存
func (s *CachedStore) Get(ctx context.Context, hash types.InfoHash) (io.ReadCloser, error) {
	return s.backend.Get(ctx, hash)
}

// ExpandHash 透传
func (s *CachedStore) ExpandHash(ctx context.Context, prefix string) (types.InfoHash, error) {
	return s.backend.ExpandHash(ctx, prefix)
}

// Close 关闭 Redis 连接
func (s *CachedStore) Close() error {
	return s.client.Close()
}
