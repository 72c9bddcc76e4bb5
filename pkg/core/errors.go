package core

import "fmt"

// FormatError 表示解码时遇到了不合法的编码数据
type FormatError struct {
	Offset int    // 出错位置 (相对输入起点)
	Msg    string // 例如 "invalid integer"
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Msg, e.Offset)
}

// EncodingError 表示尝试编码一个不受支持的节点
type EncodingError struct {
	Kind Kind
	Path string // 出错节点在树中的位置，例如 "info.files[2].path"
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bencode: cannot encode %s value", e.Kind)
	}
	return fmt.Sprintf("bencode: cannot encode %s value at %s", e.Kind, e.Path)
}

// 解码错误信息
const (
	msgInvalidString    = "invalid length-prefixed string"
	msgInvalidInteger   = "invalid integer"
	msgUnterminated     = "unterminated container"
	msgInvalidEncoding  = "invalid encoding"
	msgNonStringKey     = "dictionary key must be a byte string"
	msgMissingValue     = "dictionary key without value"
	msgTooDeep          = "nesting too deep"
	msgTrailingData     = "trailing data"
	msgOffsetOutOfRange = "offset out of range"
)
