// cmd/gentorrent/commands/create.go

package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"gentorrent/pkg/checksum"
	"gentorrent/pkg/ignore"
	"gentorrent/pkg/magnet"
	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/storage"
	"gentorrent/pkg/storage/disk"
	"gentorrent/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	createAnnounce  []string
	createNodes     []string
	createHTTPSeeds []string
	createURLList   []string
	createComment   string
	createOutput    string
	createMD5       bool
	createExclude   []string
	createPublish   bool
)

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Create a .torrent file for a file or directory",
	Long: `Hash the given file or directory into pieces and write a bencoded metainfo file.
Each --announce value is one tracker tier; separate backup URLs within a tier with commas.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		root := args[0]

		// 1. 组装参数 (命令行 > 环境变量 > 配置文件)
		opts, err := createOptions(cmd, root)
		if err != nil {
			return err
		}

		// 2. 构建
		start := time.Now()
		bundle, err := metainfo.Build(ctx, root, opts)
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr)
		}
		if err != nil {
			return fmt.Errorf("create failed: %w", err)
		}

		data, err := bundle.Encode()
		if err != nil {
			return err
		}
		hash, err := bundle.InfoHash()
		if err != nil {
			return err
		}

		// 3. 落盘 (临时文件 + rename)
		out := createOutput
		if out == "" {
			out = defaultOutputPath(root)
		}
		if err := disk.WriteFileAtomic(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(os.Stderr, "✅ Wrote %s (%d pieces, %s) in %s\n",
			out, bundle.Info.NumPieces(), humanize.IBytes(uint64(bundle.Info.TotalLength())),
			time.Since(start).Round(time.Millisecond))

		// 4. 可选：目录与发布
		if err := recordAndPublish(ctx, bundle, hash, out, data); err != nil {
			return err
		}

		link, err := magnet.FromBundle(bundle)
		if err != nil {
			return err
		}
		fmt.Printf("Magnet link: %s\n", link)
		return nil
	},
}

func createOptions(cmd *cobra.Command, root string) (metainfo.Options, error) {
	flags := cmd.Flags()

	announce := createAnnounce
	if !flags.Changed("announce") {
		announce = viper.GetStringSlice("torrent.announce")
	}
	nodeSpecs := createNodes
	if !flags.Changed("nodes") {
		nodeSpecs = viper.GetStringSlice("torrent.nodes")
	}
	nodes, err := metainfo.ParseNodes(nodeSpecs)
	if err != nil {
		return metainfo.Options{}, err
	}

	algo, err := checksum.Parse(viper.GetString("torrent.checksum"))
	if err != nil {
		return metainfo.Options{}, err
	}
	if createMD5 {
		algo = checksum.MD5
	}

	matcher, err := ignore.NewMatcher(root, createExclude...)
	if err != nil {
		return metainfo.Options{}, fmt.Errorf("invalid ignore rules: %w", err)
	}

	opts := metainfo.Options{
		Announce:    metainfo.ParseTiers(announce),
		Nodes:       nodes,
		HTTPSeeds:   createHTTPSeeds,
		URLList:     createURLList,
		Comment:     createComment,
		PieceLength: viper.GetInt("torrent.piece_length"),
		Checksum:    algo,
		Merkle:      viper.GetBool("torrent.merkle"),
		Private:     viper.GetBool("torrent.private"),
		Workers:     viper.GetInt("torrent.workers"),
		Ignore:      matcher,
		Logger:      logger,
	}
	if viper.GetBool("verbose") {
		opts.Progress = progressPrinter()
	}
	return opts, nil
}

// progressPrinter 返回一个简单的 \r 进度回调，并行哈希时会被并发调用
func progressPrinter() func(int64) {
	var done atomic.Int64
	return func(n int64) {
		total := done.Add(n)
		fmt.Fprintf(os.Stderr, "\rHashing: %s", humanize.IBytes(uint64(total)))
	}
}

// defaultOutputPath 去掉末尾的路径分隔符后追加 .torrent
func defaultOutputPath(root string) string {
	return strings.TrimRight(root, `/\`) + ".torrent"
}

func recordAndPublish(ctx context.Context, bundle *metainfo.Bundle, hash types.InfoHash, out string, data []byte) error {
	driver := viper.GetString("catalog.driver")
	if (driver == "" || driver == "none") && !createPublish {
		return nil
	}

	a, err := requireApp(ctx)
	if err != nil {
		return err
	}

	if a.Catalog != nil {
		if _, err := a.Catalog.Record(ctx, bundle, out); err != nil {
			return fmt.Errorf("failed to record torrent: %w", err)
		}
	}

	if !createPublish {
		return nil
	}
	err = a.Store.Put(ctx, storage.Artifact{InfoHash: hash, Name: bundle.Info.Name, Data: data})
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	if a.Catalog != nil {
		if err := a.Catalog.MarkPublished(ctx, hash); err != nil {
			return fmt.Errorf("failed to mark %s published: %w", hash.Short(), err)
		}
	}
	fmt.Fprintf(os.Stderr, "🚀 Published %s\n", hash.Short())
	return nil
}

func init() {
	f := createCmd.Flags()
	f.StringArrayVarP(&createAnnounce, "announce", "a", nil, "tracker tier, comma separated URLs (repeatable)")
	f.StringSliceVarP(&createNodes, "nodes", "n", nil, "DHT bootstrap nodes as host:port")
	f.StringArrayVar(&createHTTPSeeds, "httpseeds", nil, "HTTP seed URL, BEP-17 (repeatable)")
	f.StringArrayVar(&createURLList, "url-list", nil, "web seed URL, BEP-19 (repeatable)")
	f.StringVarP(&createComment, "comment", "c", "", "free-form comment")
	f.StringVarP(&createOutput, "output", "o", "", "output path (default <path>.torrent)")
	f.BoolVar(&createMD5, "md5sum", false, "add an md5sum for every file")
	f.StringArrayVar(&createExclude, "exclude", nil, "gitignore-style pattern to skip (repeatable)")
	f.BoolVar(&createPublish, "publish", false, "also store the .torrent in the configured storage")

	f.IntP("piece-length", "l", metainfo.DefaultPieceLength, "piece length in bytes")
	f.String("checksum", "none", "per-file checksum: none, md5, blake3")
	f.Bool("private", false, "set the private flag (BEP-27)")
	f.Bool("merkle", false, "store a Merkle root hash instead of the piece list (BEP-30)")
	f.Int("workers", 1, "parallel hashing workers for single-file torrents")

	mustBind("torrent.piece_length", f.Lookup("piece-length"))
	mustBind("torrent.checksum", f.Lookup("checksum"))
	mustBind("torrent.private", f.Lookup("private"))
	mustBind("torrent.merkle", f.Lookup("merkle"))
	mustBind("torrent.workers", f.Lookup("workers"))

	rootCmd.AddCommand(createCmd)
}
