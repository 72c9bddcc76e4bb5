// pkg/types/common.go
package types

import (
	"encoding/hex"
	"fmt"
)

// PieceHashSize 是单个 Piece 摘要的字节长度 (SHA-1)
const PieceHashSize = 20

// PieceHash 代表一个 Piece 的 SHA-1 摘要
// 这是一个“值对象”，应当是不可变的。
type PieceHash [PieceHashSize]byte

func (h PieceHash) String() string { return hex.EncodeToString(h[:]) }

// Bytes 返回摘要的副本，调用方可以随意修改
func (h PieceHash) Bytes() []byte {
	out := make([]byte, PieceHashSize)
	copy(out, h[:])
	return out
}

// PieceHashFromBytes 从 20 字节切片构造 PieceHash
func PieceHashFromBytes(b []byte) (PieceHash, error) {
	var h PieceHash
	if len(b) != PieceHashSize {
		return h, fmt.Errorf("piece hash is %d bytes, want %d", len(b), PieceHashSize)
	}
	copy(h[:], b)
	return h, nil
}

// InfoHash 代表 info 字典的唯一标识符 (SHA-1 Hex String)
type InfoHash string

func (h InfoHash) String() string { return string(h) }

// 验证 InfoHash 合法性
func (h InfoHash) IsZero() bool  { return h == "" }
func (h InfoHash) IsValid() bool { return len(h) == 2*PieceHashSize } // 简单的长度检查

// IsHexPrefix 报告 s 是否只由小写 hex 字符组成且不超过完整 InfoHash 长度
func IsHexPrefix(s string) bool {
	if s == "" || len(s) > 2*PieceHashSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Short 返回前 8 个字符，用于日志和 CLI 输出
func (h InfoHash) Short() string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

