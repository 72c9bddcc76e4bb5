package metainfo

import (
	"log/slog"
	"time"

	"gentorrent/pkg/checksum"
	"gentorrent/pkg/ignore"
)

// DefaultPieceLength 是默认的 Piece 大小 (256 KiB)
const DefaultPieceLength = 262144

// Options 是 Build 的输入
type Options struct {
	Announce  [][]string // 每个元素是一个 tier
	Nodes     []Node
	HTTPSeeds []string
	URLList   []string
	Comment   string

	PieceLength int // 必须为正数，通常取 DefaultPieceLength
	Checksum    checksum.Algorithm
	Merkle      bool
	Private     bool

	// Workers > 1 时单文件种子并行计算 Piece
	Workers int

	// Ignore 为 nil 时目录中的所有文件都会被收录
	Ignore *ignore.Matcher

	Logger   *slog.Logger
	Progress func(n int64)
	Now      func() time.Time
}

func (o Options) normalize() (Options, error) {
	if o.PieceLength <= 0 {
		return o, invalid("piece length", "must be positive, got %d", o.PieceLength)
	}
	if o.Checksum.Enabled() && o.Checksum.Key() == "" {
		return o, invalid("checksum", "unsupported algorithm %q", string(o.Checksum))
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o, nil
}
