package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gentorrent/pkg/storage"
	"gentorrent/pkg/types"
)

type Exporter struct {
	store storage.Store // 可以为 nil，此时只能读取本地文件
}

func NewExporter(store storage.Store) *Exporter {
	return &Exporter{store: store}
}

// Load 读取一个种子文件
// ref 可以是本地 .torrent 路径，也可以是已发布种子的 InfoHash (或唯一前缀)。
func (e *Exporter) Load(ctx context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || e.store == nil || !looksLikeHash(ref) {
		return nil, err
	}

	hash, err := e.store.ExpandHash(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", ref, err)
	}

	var buf bytes.Buffer
	if err := e.ExportTorrent(ctx, hash, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportTorrent 将存储中的种子文件写入 writer
func (e *Exporter) ExportTorrent(ctx context.Context, hash types.InfoHash, writer io.Writer) error {
	if e.store == nil {
		return fmt.Errorf("no torrent store configured")
	}
	reader, err := e.store.Get(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to get torrent %s: %w", hash.Short(), err)
	}
	defer reader.Close()

	if _, err := io.Copy(writer, reader); err != nil {
		return fmt.Errorf("failed to copy torrent %s: %w", hash.Short(), err)
	}
	return nil
}

func looksLikeHash(s string) bool {
	return len(s) >= storage.MinPrefixLength && types.IsHexPrefix(strings.ToLower(s))
}
