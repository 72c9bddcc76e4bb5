package commands

import (
	"context"
	"fmt"
	"os"

	"gentorrent/pkg/exporter"

	"github.com/spf13/cobra"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.torrent | infohash]",
	Short: "Show the contents of a torrent",
	Long: `Decode a .torrent file and print it as a summary (text) or as json, yaml or cbor.
Binary fields such as pieces are shown as hex.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		format, err := exporter.ParseFormat(inspectFormat)
		if err != nil {
			return err
		}
		data, err := loadTorrent(ctx, args[0])
		if err != nil {
			return err
		}

		// 【关键点】cbor 是二进制，直接写 stdout，可以通过 > file.cbor 重定向
		if err := exporter.Dump(os.Stdout, data, format); err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text", "output format: text, json, yaml, cbor")
	rootCmd.AddCommand(inspectCmd)
}
