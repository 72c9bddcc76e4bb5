package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"gentorrent/pkg/types"
)

// CalculateHash 计算节点的规范编码及其 SHA-1 (InfoHash)
func CalculateHash(v Value) (types.InfoHash, []byte, error) {
	data, err := Encode(v)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode object: %w", err)
	}

	sum := sha1.Sum(data)
	return types.InfoHash(hex.EncodeToString(sum[:])), data, nil
}

// HashPiece 计算原始数据块的摘要
func HashPiece(data []byte) types.PieceHash {
	return types.PieceHash(sha1.Sum(data))
}
