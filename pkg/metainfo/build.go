package metainfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gentorrent/pkg/chunker"
	"gentorrent/pkg/ingester"
	"gentorrent/pkg/treebuilder"
)

const Name = "gentorrent"

// Version 可以在构建时通过 -ldflags "-X gentorrent/pkg/metainfo.Version=..." 覆盖
var Version = "1.0"

// CreatedBy 返回写入 "created by" 字段的生成器标识
func CreatedBy() string {
	return Name + " " + Version
}

// Build 遍历 root (文件或目录)，计算 Piece 并组装 Bundle
// 整个 Bundle 在内存中完成，失败时不会产生任何部分结果。
func Build(ctx context.Context, root string, opts Options) (*Bundle, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger

	if len(opts.Announce) == 0 && len(opts.Nodes) == 0 {
		logger.Warn("no announce URL or DHT node given, peers may be unable to find this torrent")
	}

	// 1. 路径检查
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: root}
		}
		return nil, &chunker.ReadError{Path: root, Err: err}
	}

	// 2. 遍历
	layout, err := ingester.NewIngester(opts.Ignore, logger).Ingest(ctx, root)
	if err != nil {
		switch {
		case errors.Is(err, ingester.ErrEmptyDir):
			return nil, invalid("path", "%s contains no files", root)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			return nil, &chunker.ReadError{Path: root, Err: err}
		}
	}

	// 3. 计算 Piece
	hasher, err := chunker.NewHasher(opts.PieceLength,
		chunker.WithChecksum(opts.Checksum),
		chunker.WithLogger(logger),
		chunker.WithProgress(opts.Progress),
	)
	if err != nil {
		return nil, invalid("piece length", "%v", err)
	}

	var res *chunker.Result
	if layout.Single && opts.Workers > 1 {
		res, err = hasher.HashFileParallel(ctx, layout.Files[0].AbsPath, opts.Workers)
	} else {
		res, err = hasher.HashSources(ctx, layout.Sources())
	}
	if err != nil {
		return nil, err
	}
	if len(res.Pieces) == 0 {
		return nil, invalid("path", "%s has no content to hash", root)
	}

	// 4. 聚合
	pieces, rootHash, err := treebuilder.Aggregate(res.Pieces, opts.Merkle)
	if err != nil {
		return nil, fmt.Errorf("aggregate pieces: %w", err)
	}

	info := Info{
		Name:        layout.Name,
		PieceLength: opts.PieceLength,
		Private:     opts.Private,
		Algorithm:   opts.Checksum,
		Pieces:      pieces,
		RootHash:    rootHash,
	}
	// 长度以实际读取的字节为准
	if layout.Single {
		info.Length = res.Sizes[0]
		info.Checksum = res.Checksums[0]
	} else {
		info.Files = make([]FileEntry, len(layout.Files))
		for i, f := range layout.Files {
			info.Files[i] = FileEntry{
				Path:     f.Path,
				Length:   res.Sizes[i],
				Checksum: res.Checksums[i],
			}
		}
	}

	b := &Bundle{
		Announce:     opts.Announce,
		Nodes:        opts.Nodes,
		HTTPSeeds:    opts.HTTPSeeds,
		URLList:      opts.URLList,
		CreationDate: opts.Now(),
		Comment:      opts.Comment,
		CreatedBy:    CreatedBy(),
		Info:         info,
	}

	logger.Info("metainfo built",
		"name", info.Name,
		"files", len(layout.Files),
		"bytes", res.Total,
		"pieces", len(res.Pieces),
		"merkle", opts.Merkle,
	)
	return b, nil
}
