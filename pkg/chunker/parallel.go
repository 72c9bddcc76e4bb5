package chunker

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"os"

	"gentorrent/pkg/checksum"
	"gentorrent/pkg/types"

	"golang.org/x/sync/errgroup"
)

// HashFileParallel 并发计算单个文件的 Piece 摘要
// 文件按 Piece 边界切成若干连续区间，每个 worker 负责一个区间，
// 结果按原始顺序写回，因此输出与 HashSources 完全一致。
func (h *Hasher) HashFileParallel(ctx context.Context, path string, workers int) (*Result, error) {
	if workers < 1 {
		workers = 1
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	size := info.Size()

	pl := int64(h.pieceLength)
	numPieces := int((size + pl - 1) / pl)
	var pieces []types.PieceHash
	if numPieces > 0 {
		pieces = make([]types.PieceHash, numPieces)
	}

	g, gctx := errgroup.WithContext(ctx)

	// 1. 每个 worker 处理一段连续的 Piece
	perWorker := (numPieces + workers - 1) / workers
	for first := 0; first < numPieces; first += perWorker {
		last := min(first+perWorker, numPieces)
		g.Go(func() error {
			buf := make([]byte, h.pieceLength)
			for i := first; i < last; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				off := int64(i) * pl
				n := int(min(pl, size-off))
				if _, err := f.ReadAt(buf[:n], off); err != nil {
					return &ReadError{Path: path, Err: err}
				}
				pieces[i] = sha1.Sum(buf[:n])
				if h.progress != nil {
					h.progress(int64(n))
				}
			}
			return nil
		})
	}

	// 2. 校验和是顺序算法，单独一个 goroutine 流式计算
	var sum string
	if h.checksum.Enabled() {
		g.Go(func() error {
			hh := h.checksum.New()
			if _, err := io.Copy(hh, io.NewSectionReader(f, 0, size)); err != nil {
				return &ReadError{Path: path, Err: err}
			}
			sum = checksum.Sum(hh)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. 文件在计算期间被修改，结果不可信
	after, err := os.Stat(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if after.Size() != size || !after.ModTime().Equal(info.ModTime()) {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("file changed while hashing")}
	}

	h.logger.Debug("file hashed in parallel", "path", path, "bytes", size, "pieces", numPieces, "workers", workers)

	return &Result{
		Pieces:    pieces,
		Sizes:     []int64{size},
		Checksums: []string{sum},
		Total:     size,
	}, nil
}
