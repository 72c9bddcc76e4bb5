package storage

import (
	"context"
	"errors"
	"io"

	"gentorrent/pkg/types"
)

var (
	ErrNotFound      = errors.New("torrent not found")
	ErrAmbiguousHash = errors.New("ambiguous infohash prefix")
)

// MinPrefixLength 是 ExpandHash 接受的最短前缀
const MinPrefixLength = 4

// Artifact 是一个已编码的种子文件
type Artifact struct {
	InfoHash types.InfoHash
	Name     string // 显示名，仅用于元数据 (例如 S3 的 Content-Disposition)
	Data     []byte
}

// Store defines the interface for a torrent artifact backend.
// Implementations can be local disk or an S3 compatible bucket.
type Store interface {
	// Put 持久化一个种子文件，已存在时直接返回 (同一 InfoHash 的内容可以认为相同)
	Put(ctx context.Context, a Artifact) error

	// Get 根据 InfoHash 读取种子文件
	Get(ctx context.Context, hash types.InfoHash) (io.ReadCloser, error)

	// Has 检查种子是否已发布
	Has(ctx context.Context, hash types.InfoHash) (bool, error)

	// ExpandHash 将短前缀扩展为完整的 InfoHash
	ExpandHash(ctx context.Context, prefix string) (types.InfoHash, error)
}
