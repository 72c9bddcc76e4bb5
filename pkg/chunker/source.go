package chunker

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Source 是一个可按顺序读取的字节源 (通常是一个文件)
type Source struct {
	Path string // 用于错误信息和日志
	Open func() (io.ReadCloser, error)
}

// FileSource 以文件路径构造 Source
func FileSource(path string) Source {
	return Source{
		Path: path,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesSource 以内存数据构造 Source (主要用于测试)
func BytesSource(name string, data []byte) Source {
	return Source{
		Path: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// ReadError 表示 Piece 计算过程中的 I/O 失败
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
