// pkg/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gentorrent/pkg/exporter"
	"gentorrent/pkg/logging"
	"gentorrent/pkg/meta"
	"gentorrent/pkg/storage"
	"gentorrent/pkg/storage/cache"
	"gentorrent/pkg/storage/disk"
	"gentorrent/pkg/storage/s3"

	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
type App struct {
	Logger   *slog.Logger
	Store    storage.Store    // 发布存储，总是可用 (默认本地磁盘)
	Catalog  *meta.Repository // catalog.driver 为 none 时为 nil
	Exporter *exporter.Exporter

	closers []func() error
}

// NewApp 是工厂函数，负责组装这一台机器
// 它遵循 Viper 的配置，但不知道具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	logger, err := logging.NewFromConfig()
	if err != nil {
		return nil, err
	}

	a := &App{Logger: logger}

	// 1. 发布存储
	store, err := initStore(ctx, logger)
	if err != nil {
		return nil, err
	}
	a.Store = store
	if c, ok := store.(*cache.CachedStore); ok {
		a.closers = append(a.closers, c.Close)
	}

	// 2. 目录
	db, err := initCatalog(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if db != nil {
		a.Catalog = meta.NewRepository(db)
		a.closers = append(a.closers, db.Close)
	}

	a.Exporter = exporter.NewExporter(store)
	return a, nil
}

// Close 释放外部连接
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func initStore(ctx context.Context, logger *slog.Logger) (storage.Store, error) {
	var store storage.Store

	switch storeType := viper.GetString("storage.type"); storeType {
	case "", "disk":
		path := viper.GetString("storage.path")
		if path == "" {
			return nil, fmt.Errorf("storage path not set")
		}
		d, err := disk.NewAdapter(path)
		if err != nil {
			return nil, fmt.Errorf("failed to init storage: %w", err)
		}
		store = d
	case "s3":
		cfg := s3.Config{
			Endpoint:        viper.GetString("storage.s3.endpoint"),
			Region:          viper.GetString("storage.s3.region"),
			Bucket:          viper.GetString("storage.s3.bucket"),
			AccessKeyID:     viper.GetString("storage.s3.access_key"),
			SecretAccessKey: viper.GetString("storage.s3.secret_key"),
			Prefix:          viper.GetString("storage.s3.prefix"),
			Logger:          logger,
		}
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 bucket is required")
		}
		a, err := s3.NewAdapter(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		store = a
	default:
		return nil, fmt.Errorf("unsupported storage type: %q", storeType)
	}

	// 可选的 Redis 存在性缓存
	redisURL := viper.GetString("cache.redis_url")
	if redisURL == "" {
		return store, nil
	}
	cached, err := cache.NewCachedStore(store, cache.Config{
		RedisURL: redisURL,
		TTL:      viper.GetDuration("cache.ttl"),
		Logger:   logger,
	})
	if err != nil {
		// 缓存不可用不影响发布，退化为直接访问存储
		logger.Warn("redis cache disabled", "error", err)
		return store, nil
	}
	return cached, nil
}

func initCatalog(ctx context.Context) (*meta.DB, error) {
	driver := viper.GetString("catalog.driver")
	if driver == "" || driver == "none" {
		return nil, nil
	}

	cfg := meta.Config{
		Driver:   driver,
		Path:     viper.GetString("catalog.path"),
		Host:     viper.GetString("catalog.postgres.host"),
		Port:     viper.GetInt("catalog.postgres.port"),
		User:     viper.GetString("catalog.postgres.user"),
		Password: viper.GetString("catalog.postgres.password"),
		DBName:   viper.GetString("catalog.postgres.dbname"),
		SSLMode:  viper.GetString("catalog.postgres.sslmode"),
		Debug:    viper.GetString("log.level") == "debug",
	}
	db, err := meta.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init catalog: %w", err)
	}
	return db, nil
}
