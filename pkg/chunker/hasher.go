package chunker

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"

	"gentorrent/pkg/checksum"
	"gentorrent/pkg/types"
)

// Hasher 按固定长度窗口切分字节流，并对每个窗口计算 SHA-1
// 窗口在源之间连续：一个 Piece 可以跨越前一个文件的结尾和后一个文件的开头。
type Hasher struct {
	pieceLength int
	checksum    checksum.Algorithm
	logger      *slog.Logger
	progress    func(n int64)
}

// Option 配置 Hasher
type Option func(*Hasher)

// WithChecksum 在计算 Piece 的同时计算逐源校验和
func WithChecksum(a checksum.Algorithm) Option {
	return func(h *Hasher) { h.checksum = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Hasher) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithProgress 注册进度回调，参数为本次新读取的字节数
// 并行模式下回调会被多个 goroutine 同时调用
func WithProgress(fn func(n int64)) Option {
	return func(h *Hasher) { h.progress = fn }
}

// NewHasher 创建一个新的 Hasher，pieceLength 必须为正数
func NewHasher(pieceLength int, opts ...Option) (*Hasher, error) {
	if pieceLength <= 0 {
		return nil, fmt.Errorf("piece length must be positive, got %d", pieceLength)
	}
	h := &Hasher{
		pieceLength: pieceLength,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Hasher) PieceLength() int { return h.pieceLength }

// Result 是一次切分的结果
type Result struct {
	Pieces    []types.PieceHash // 按遍历顺序排列
	Sizes     []int64           // 每个源实际读取的字节数
	Checksums []string          // 每个源的校验和 (hex)，未开启时为空串
	Total     int64
}

// HashSources 依次读取所有源并返回 Piece 摘要序列
func (h *Hasher) HashSources(ctx context.Context, sources []Source) (*Result, error) {
	res := &Result{
		Sizes:     make([]int64, len(sources)),
		Checksums: make([]string, len(sources)),
	}

	// 累加器跨源保留
	buf := make([]byte, h.pieceLength)
	fill := 0

	for i, src := range sources {
		size, sum, err := h.consume(ctx, src, buf, &fill, res)
		if err != nil {
			return nil, err
		}
		res.Sizes[i] = size
		res.Checksums[i] = sum
		res.Total += size
		h.logger.Debug("source hashed", "path", src.Path, "bytes", size, "pieces", len(res.Pieces))
	}

	// 最后一个不满的 Piece
	if fill > 0 {
		res.Pieces = append(res.Pieces, sha1.Sum(buf[:fill]))
	}
	return res, nil
}

// consume 将一个源读入累加器，每凑满一个 Piece 就输出一次摘要
func (h *Hasher) consume(ctx context.Context, src Source, buf []byte, fill *int, res *Result) (int64, string, error) {
	rc, err := src.Open()
	if err != nil {
		return 0, "", &ReadError{Path: src.Path, Err: err}
	}
	defer rc.Close()

	var sum hash.Hash = h.checksum.New()
	var size int64

	for {
		if err := ctx.Err(); err != nil {
			return 0, "", err
		}

		n, err := io.ReadFull(rc, buf[*fill:])
		if n > 0 {
			if sum != nil {
				sum.Write(buf[*fill : *fill+n])
			}
			*fill += n
			size += int64(n)
			if h.progress != nil {
				h.progress(int64(n))
			}
		}
		if *fill == len(buf) {
			res.Pieces = append(res.Pieces, sha1.Sum(buf))
			*fill = 0
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return 0, "", &ReadError{Path: src.Path, Err: err}
		}
	}

	return size, checksum.Sum(sum), nil
}
