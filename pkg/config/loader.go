package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// torrent.piece_length -> GENTORRENT_TORRENT_PIECE_LENGTH
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
// 提示信息写到 stderr，stdout 留给种子和 magnet 输出。
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：
		// 1. 当前目录
		viper.AddConfigPath(".")
		// 2. 当前目录下的 .gentorrent
		viper.AddConfigPath(".gentorrent")
		// 3. 用户主目录下的 .gentorrent
		viper.AddConfigPath(filepath.Join(home, ".gentorrent"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (GENTORRENT_TORRENT_PIECE_LENGTH 等)
	viper.SetEnvPrefix("GENTORRENT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错，格式错才是
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else if viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "🔧 Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

func setDefaults() {
	// 种子默认值
	viper.SetDefault("torrent.piece_length", 262144)
	viper.SetDefault("torrent.checksum", "none")
	viper.SetDefault("torrent.workers", 1)
	viper.SetDefault("torrent.private", false)
	viper.SetDefault("torrent.merkle", false)
	viper.SetDefault("torrent.announce", []string{})
	viper.SetDefault("torrent.nodes", []string{})

	// 日志
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")

	// 发布存储默认值
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".gentorrent")
	viper.SetDefault("storage.type", "disk")
	viper.SetDefault("storage.path", filepath.Join(base, "torrents"))
	viper.SetDefault("storage.s3.region", "us-east-1")
	viper.SetDefault("storage.s3.prefix", "torrents/")

	// 缓存 (redis_url 为空表示关闭)
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", "24h")

	// 目录 (none 表示关闭)
	viper.SetDefault("catalog.driver", "none")
	viper.SetDefault("catalog.path", filepath.Join(base, "catalog.db"))
	viper.SetDefault("catalog.postgres.host", "localhost")
	viper.SetDefault("catalog.postgres.port", 5432)
	viper.SetDefault("catalog.postgres.sslmode", "disable")
}
