// Package checksum 提供可选的逐文件校验和 (与 Piece 摘要无关)
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm 标识逐文件校验和算法
type Algorithm string

const (
	None   Algorithm = ""
	MD5    Algorithm = "md5"
	BLAKE3 Algorithm = "blake3"
)

// Parse 解析配置或命令行中的算法名，"none" 和空串都表示关闭
func Parse(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "off":
		return None, nil
	case "md5", "md5sum":
		return MD5, nil
	case "blake3", "b3":
		return BLAKE3, nil
	default:
		return None, fmt.Errorf("unsupported checksum algorithm %q", name)
	}
}

func (a Algorithm) Enabled() bool { return a != None }

// New 返回一个新的 hasher；None 返回 nil
func (a Algorithm) New() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case BLAKE3:
		return blake3.New()
	default:
		return nil
	}
}

// Key 返回该校验和在 info 字典中使用的 key
func (a Algorithm) Key() string {
	switch a {
	case MD5:
		return "md5sum"
	case BLAKE3:
		return "blake3sum"
	default:
		return ""
	}
}

// Sum 以小写 hex 返回 h 的当前摘要
func Sum(h hash.Hash) string {
	if h == nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FromKey 根据 info 字典中的 key 反查算法，用于解析已有的种子文件
func FromKey(key string) (Algorithm, bool) {
	for _, a := range []Algorithm{MD5, BLAKE3} {
		if a.Key() == key {
			return a, true
		}
	}
	return None, false
}
