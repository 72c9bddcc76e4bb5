package meta

import (
	"context"
	"crypto/sha1"
	"testing"
	"time"

	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/types"

	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 通用辅助函数 (Helpers)
// -----------------------------------------------------------------------------

// newBundle 构造一个最小的单文件 Bundle，name 不同则 InfoHash 不同
func newBundle(name string, created int64, trackers ...string) *metainfo.Bundle {
	piece := sha1.Sum([]byte(name))
	b := &metainfo.Bundle{
		CreationDate: time.Unix(created, 0),
		Info: metainfo.Info{
			Name:        name,
			PieceLength: 16,
			Length:      10,
			Pieces:      piece[:],
		},
	}
	if len(trackers) > 0 {
		b.Announce = [][]string{trackers}
	}
	return b
}

func mustInfoHash(t *testing.T, b *metainfo.Bundle) types.InfoHash {
	t.Helper()
	h, err := b.InfoHash()
	require.NoError(t, err)
	return h
}

// mustRecord 强制写入记录，失败则终止
func mustRecord(t *testing.T, repo *Repository, b *metainfo.Bundle, output string, msgAndArgs ...any) *TorrentModel {
	t.Helper()
	m, err := repo.Record(context.Background(), b, output)
	require.NoError(t, err, msgAndArgs...)
	return m
}
