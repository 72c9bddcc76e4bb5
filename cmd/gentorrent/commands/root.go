package commands

import (
	"context"
	"fmt"
	"os"

	"gentorrent/pkg/app"
	"gentorrent/pkg/config"
	"gentorrent/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，按需初始化 (只有发布、目录和按哈希查找时才需要)
	GT *app.App
	// 全局日志，PersistentPreRunE 中初始化
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:          "gentorrent",
	Short:        "gentorrent: create BitTorrent metainfo files and magnet links",
	SilenceUsage: true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.NewFromConfig()
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if GT == nil {
			return nil
		}
		err := GT.Close()
		GT = nil
		return err
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// 在初始化时，加载配置
	cobra.OnInitialize(initConfig)

	// 1. 定义全局参数 --config
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gentorrent/config.yaml)")

	// 2. 日志相关参数，绑定到 Viper
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print progress and diagnostic messages")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	mustBind("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "Config error:", err)
		os.Exit(1)
	}
	// --verbose 至少打开 info 级别日志
	if viper.GetBool("verbose") {
		switch viper.GetString("log.level") {
		case "warn", "warning", "error":
			viper.Set("log.level", "info")
		}
	}
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to bind flag:", err)
		os.Exit(1)
	}
}

// requireApp 懒加载 App
func requireApp(ctx context.Context) (*app.App, error) {
	if GT != nil {
		return GT, nil
	}
	a, err := app.NewApp(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gentorrent: %w", err)
	}
	GT = a
	return GT, nil
}
