package magnet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHash = types.InfoHash("0123456789abcdef0123456789abcdef01234567")

func TestLink_String_Order(t *testing.T) {
	l := Link{
		DisplayName:       "My Movie (2024).mkv",
		ExactLength:       600000,
		InfoHash:          sampleHash,
		Trackers:          []string{"http://a/announce", "udp://b:80"},
		AcceptableSources: []string{"http://mirror/x?y=1"},
	}

	want := "magnet:?dn=My+Movie+%282024%29.mkv" +
		"&xl=600000" +
		"&xt=urn%3Abtih%3A" + string(sampleHash) +
		"&tr=http%3A%2F%2Fa%2Fannounce" +
		"&tr=udp%3A%2F%2Fb%3A80" +
		"&as=http%3A%2F%2Fmirror%2Fx%3Fy%3D1"
	assert.Equal(t, want, l.String())
}

func TestLink_String_Minimal(t *testing.T) {
	l := Link{DisplayName: "dir", InfoHash: sampleHash}
	assert.Equal(t, "magnet:?dn=dir&xt=urn%3Abtih%3A"+string(sampleHash), l.String())
}

func TestParse_RoundTrip(t *testing.T) {
	orig := Link{
		DisplayName:       "name with spaces & symbols",
		ExactLength:       42,
		InfoHash:          sampleHash,
		Trackers:          []string{"http://a/announce", "http://b/announce"},
		AcceptableSources: []string{"http://mirror/"},
	}
	got, err := Parse(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	// 其他客户端常输出不转义的 xt
	raw, err := Parse("magnet:?xt=urn:btih:" + strings.ToUpper(string(sampleHash)) + "&dn=dir")
	require.NoError(t, err)
	assert.Equal(t, sampleHash, raw.InfoHash)
	assert.Equal(t, "dir", raw.DisplayName)

	_, err = Parse("http://not-a-magnet")
	assert.Error(t, err)
	_, err = Parse("magnet:?dn=x")
	assert.Error(t, err)
}

func TestFromBundle(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()
	now := func() time.Time { return time.Unix(1700000000, 0) }

	file := filepath.Join(tmpDir, "single.bin")
	require.NoError(t, os.WriteFile(file, []byte(strings.Repeat("x", 1000)), 0644))

	b, err := metainfo.Build(ctx, file, metainfo.Options{
		PieceLength: 256,
		Announce:    [][]string{{"http://a/announce"}, {"http://b/announce", "http://c/announce"}},
		URLList:     []string{"http://mirror/single.bin"},
		Now:         now,
	})
	require.NoError(t, err)

	l, err := FromBundle(b)
	require.NoError(t, err)
	hash, _ := b.InfoHash()

	assert.Equal(t, "single.bin", l.DisplayName)
	assert.Equal(t, int64(1000), l.ExactLength)
	assert.Equal(t, hash, l.InfoHash)
	// tier 顺序展开
	assert.Equal(t, []string{"http://a/announce", "http://b/announce", "http://c/announce"}, l.Trackers)
	assert.Equal(t, []string{"http://mirror/single.bin"}, l.AcceptableSources)

	// 多文件种子不输出 xl
	dir := filepath.Join(tmpDir, "multi")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("a"), 0644))
	multi, err := metainfo.Build(ctx, dir, metainfo.Options{PieceLength: 16, Now: now})
	require.NoError(t, err)

	ml, err := FromBundle(multi)
	require.NoError(t, err)
	assert.Zero(t, ml.ExactLength)
	assert.NotContains(t, ml.String(), "xl=")
}
