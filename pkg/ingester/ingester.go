package ingester

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gentorrent/pkg/chunker"
	"gentorrent/pkg/ignore"
)

// ErrEmptyDir 表示目录中没有任何可分发的文件
var ErrEmptyDir = errors.New("directory contains no files")

// File 是布局中的一个文件
type File struct {
	Path    []string // 相对于根目录的路径段，单文件模式下为空
	AbsPath string
	Size    int64 // 遍历时 Stat 得到的大小，Piece 计算以实际读取为准
}

// Layout 描述了一次遍历的结果
type Layout struct {
	Root   string
	Name   string // 根路径的最后一段
	Single bool
	Files  []File
}

// Sources 将布局转换为 chunker 的输入，顺序与 Files 一致
func (l *Layout) Sources() []chunker.Source {
	sources := make([]chunker.Source, len(l.Files))
	for i, f := range l.Files {
		sources[i] = chunker.FileSource(f.AbsPath)
	}
	return sources
}

// TotalSize 返回遍历时观察到的总字节数
func (l *Layout) TotalSize() int64 {
	var total int64
	for _, f := range l.Files {
		total += f.Size
	}
	return total
}

type Ingester struct {
	matcher *ignore.Matcher
	logger  *slog.Logger
}

// NewIngester 创建遍历器，matcher 可以为 nil (不忽略任何文件)
func NewIngester(matcher *ignore.Matcher, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ingester{
		matcher: matcher,
		logger:  logger,
	}
}

// DisplayName 返回规范化路径的最后一段
func DisplayName(root string) string {
	return filepath.Base(filepath.Clean(root))
}

// Ingest 检查根路径类型并构造文件布局
// 目录按字典序递归遍历 (filepath.WalkDir 保证同级按文件名排序)，保证 Piece 切分可复现。
func (ing *Ingester) Ingest(ctx context.Context, root string) (*Layout, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		Root: root,
		Name: DisplayName(root),
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%s is not a regular file", root)
		}
		layout.Single = true
		layout.Files = []File{{AbsPath: root, Size: info.Size()}}
		return layout, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if ing.ignored(rel, true) {
				ing.logger.Debug("skipping ignored directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}

		if ing.ignored(rel, false) {
			ing.logger.Debug("skipping ignored file", "path", rel)
			return nil
		}

		// 跟随指向普通文件的符号链接，其余特殊文件跳过
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			ing.logger.Debug("skipping non-regular file", "path", rel, "mode", fi.Mode().String())
			return nil
		}

		layout.Files = append(layout.Files, File{
			Path:    strings.Split(filepath.ToSlash(rel), "/"),
			AbsPath: path,
			Size:    fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	if len(layout.Files) == 0 {
		return nil, ErrEmptyDir
	}

	ing.logger.Debug("directory walked", "root", root, "files", len(layout.Files), "bytes", layout.TotalSize())
	return layout, nil
}

func (ing *Ingester) ignored(rel string, dir bool) bool {
	if ing.matcher.Matches(rel) {
		return true
	}
	return dir && ing.matcher.Matches(rel+"/")
}
