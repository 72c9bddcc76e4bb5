package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gentorrent/pkg/magnet"
	"gentorrent/pkg/metainfo"

	"github.com/spf13/cobra"
)

var magnetCmd = &cobra.Command{
	Use:   "magnet [file.torrent | infohash]",
	Short: "Print the magnet link of an existing torrent",
	Long:  `Read a .torrent file (or a published torrent by infohash prefix) and print its magnet link.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		data, err := loadTorrent(ctx, args[0])
		if err != nil {
			return err
		}
		bundle, err := metainfo.Parse(data)
		if err != nil {
			return fmt.Errorf("%s is not a valid torrent: %w", args[0], err)
		}
		link, err := magnet.FromBundle(bundle)
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

// loadTorrent 优先读本地文件；不存在时按 InfoHash 去发布存储里找
func loadTorrent(ctx context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	a, appErr := requireApp(ctx)
	if appErr != nil {
		logger.Debug("store unavailable", "error", appErr)
		return nil, err
	}
	return a.Exporter.Load(ctx, ref)
}

func init() {
	rootCmd.AddCommand(magnetCmd)
}
