package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gentorrent/pkg/storage"
	"gentorrent/pkg/types"

	"github.com/gofrs/flock"
)

const ext = ".torrent"

// Adapter 实现了 storage.Store 接口
type Adapter struct {
	rootPath string // 比如: /home/user/.gentorrent/torrents
}

// NewAdapter 创建一个新的磁盘存储适配器
func NewAdapter(root string) (*Adapter, error) {
	// 确保根目录存在
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage dir: %w", err)
	}
	return &Adapter{rootPath: root}, nil
}

// layout 返回 InfoHash 对应的物理路径
// 策略：使用前 2 个字符作为子目录 (Sharding)
// Example: "aabbcc..." -> root/aa/bbcc....torrent
func (s *Adapter) layout(hash types.InfoHash) string {
	h := string(hash)
	if len(h) < 2 {
		return filepath.Join(s.rootPath, h+ext)
	}
	return filepath.Join(s.rootPath, h[:2], h[2:]+ext)
}

func (s *Adapter) Put(ctx context.Context, a storage.Artifact) error {
	if !a.InfoHash.IsValid() {
		return fmt.Errorf("invalid infohash %q", a.InfoHash)
	}
	targetPath := s.layout(a.InfoHash)

	// 1. 检查是否存在 (幂等性)
	if _, err := os.Stat(targetPath); err == nil {
		return nil
	}

	// 2. 准备目录
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}

	// 3. 原子写入
	return WriteFileAtomic(targetPath, a.Data, 0644)
}

func (s *Adapter) Get(ctx context.Context, hash types.InfoHash) (io.ReadCloser, error) {
	f, err := os.Open(s.layout(hash))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Adapter) Has(ctx context.Context, hash types.InfoHash) (bool, error) {
	_, err := os.Stat(s.layout(hash))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ExpandHash 在分片目录中查找唯一匹配前缀的种子
func (s *Adapter) ExpandHash(ctx context.Context, prefix string) (types.InfoHash, error) {
	prefix = strings.ToLower(prefix)
	if len(prefix) < storage.MinPrefixLength {
		return "", fmt.Errorf("hash prefix too short")
	}
	// 前缀会拼进文件路径，只接受 hex
	if !types.IsHexPrefix(prefix) {
		return "", fmt.Errorf("invalid hash prefix %q", prefix)
	}

	shard := filepath.Join(s.rootPath, prefix[:2])
	entries, err := os.ReadDir(shard)
	if errors.Is(err, fs.ErrNotExist) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	var found types.InfoHash
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ext)
		if !ok || e.IsDir() || !strings.HasPrefix(name, prefix[2:]) {
			continue
		}
		if found != "" {
			return "", storage.ErrAmbiguousHash
		}
		found = types.InfoHash(prefix[:2] + name)
	}
	if found == "" {
		return "", storage.ErrNotFound
	}
	return found, nil
}

// WriteFileAtomic 先写临时文件再 Rename，保证目标要么不存在要么完整
// 同一目标的并发写入由 <path>.lock 上的文件锁串行化。
// 锁文件写完后保留：删除它会让等待者锁住一个已经 unlink 的 inode。
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer lock.Unlock()

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	// 成功 Rename 之后这个删除无害
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tempFile.Name(), perm); err != nil {
		return err
	}

	return os.Rename(tempFile.Name(), path)
}
