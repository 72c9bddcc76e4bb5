package app

import (
	"context"
	"path/filepath"
	"testing"

	"gentorrent/pkg/logging"
	"gentorrent/pkg/storage/disk"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStore_Disk(t *testing.T) {
	// 1. Mock 配置
	viper.Reset()
	viper.Set("storage.type", "disk")
	viper.Set("storage.path", filepath.Join(t.TempDir(), "torrents"))

	// 2. 调用私有函数 (因为我们在同一个包)
	store, err := initStore(context.Background(), logging.Discard())

	// 3. 验证
	require.NoError(t, err)
	assert.IsType(t, &disk.Adapter{}, store)
}

func TestInitStore_S3_MissingBucket(t *testing.T) {
	viper.Reset()
	viper.Set("storage.type", "s3")
	// 故意不设置 bucket

	store, err := initStore(context.Background(), logging.Discard())
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestInitStore_UnknownType(t *testing.T) {
	viper.Reset()
	viper.Set("storage.type", "ftp") // 不支持的类型

	store, err := initStore(context.Background(), logging.Discard())
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestInitStore_BadRedisFallsBack(t *testing.T) {
	viper.Reset()
	viper.Set("storage.path", t.TempDir())
	viper.Set("cache.redis_url", "not a url")

	store, err := initStore(context.Background(), logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &disk.Adapter{}, store, "cache failure should degrade to the plain store")
}

func TestNewApp(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	viper.Set("storage.path", filepath.Join(dir, "torrents"))
	viper.Set("catalog.driver", "sqlite")
	viper.Set("catalog.path", filepath.Join(dir, "catalog.db"))

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Catalog)
	assert.NotNil(t, a.Exporter)
}

func TestNewApp_CatalogDisabled(t *testing.T) {
	viper.Reset()
	viper.Set("storage.path", t.TempDir())
	viper.Set("catalog.driver", "none")

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Catalog)
}
