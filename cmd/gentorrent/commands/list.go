package commands

import (
	"context"
	"fmt"
	"os"

	"gentorrent/pkg/exporter"
	"gentorrent/pkg/meta"

	"github.com/spf13/cobra"
)

var (
	listLimit int
	listName  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List torrents recorded in the catalog",
	Long:  `Show previously created torrents. Requires catalog.driver to be sqlite or postgres.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := requireApp(ctx)
		if err != nil {
			return err
		}
		if a.Catalog == nil {
			return fmt.Errorf("catalog is disabled (set catalog.driver to sqlite or postgres)")
		}

		var torrents []meta.TorrentModel
		if listName != "" {
			torrents, err = a.Catalog.FindByName(ctx, listName, listLimit)
		} else {
			torrents, err = a.Catalog.List(ctx, listLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to query catalog: %w", err)
		}

		if len(torrents) == 0 {
			fmt.Println("No torrents yet.")
			return nil
		}
		exporter.PrintCatalog(os.Stdout, torrents)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of entries (0 = all)")
	listCmd.Flags().StringVar(&listName, "name", "", "only show torrents whose name contains this text")
	rootCmd.AddCommand(listCmd)
}
