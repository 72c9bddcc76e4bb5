package treebuilder

import (
	"crypto/sha1"
	"errors"

	"gentorrent/pkg/types"
)

// ErrNoPieces 表示没有任何 Piece 可供聚合 (空内容)
var ErrNoPieces = errors.New("no pieces to aggregate")

// Flatten 按顺序拼接所有 Piece 摘要，得到 info 中的 "pieces" 字段
func Flatten(hashes []types.PieceHash) []byte {
	out := make([]byte, 0, len(hashes)*types.PieceHashSize)
	for _, h := range hashes {
		out = append(out, h[:]...)
	}
	return out
}

// MerkleRoot 自底向上两两合并摘要，返回根摘要
// 某一层节点数为奇数时，在末尾补一个该层的填充节点：
// 第 0 层的填充是 20 个 0 字节，之后每上升一层，填充变为 sha1(pad || pad)。
// 只有一个输入时它本身就是根。
func MerkleRoot(hashes []types.PieceHash) (types.PieceHash, error) {
	if len(hashes) == 0 {
		return types.PieceHash{}, ErrNoPieces
	}

	// 在副本上操作，避免修改调用方的切片
	level := make([]types.PieceHash, len(hashes))
	copy(level, hashes)

	var padding types.PieceHash
	var combined [2 * types.PieceHashSize]byte

	for len(level) > 1 {
		// 1. 奇数个节点：补齐当前层的填充
		if len(level)%2 == 1 {
			level = append(level, padding)
		}

		// 2. 两两合并，结果写回前半部分
		for i := 0; i < len(level)/2; i++ {
			copy(combined[:types.PieceHashSize], level[2*i][:])
			copy(combined[types.PieceHashSize:], level[2*i+1][:])
			level[i] = sha1.Sum(combined[:])
		}
		level = level[:len(level)/2]

		// 3. 下一层的填充
		copy(combined[:types.PieceHashSize], padding[:])
		copy(combined[types.PieceHashSize:], padding[:])
		padding = sha1.Sum(combined[:])
	}

	return level[0], nil
}

// Aggregate 根据 merkle 开关生成 "pieces" 或 "root hash"，两者恰有一个非空
func Aggregate(hashes []types.PieceHash, merkle bool) (pieces []byte, root []byte, err error) {
	if len(hashes) == 0 {
		return nil, nil, ErrNoPieces
	}
	if !merkle {
		return Flatten(hashes), nil, nil
	}
	r, err := MerkleRoot(hashes)
	if err != nil {
		return nil, nil, err
	}
	return nil, r.Bytes(), nil
}
