package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 辅助工具
// -----------------------------------------------------------------------------

// mustEncode 编码节点，如果失败直接终止测试
func mustEncode(t *testing.T, v Value, msgAndArgs ...any) []byte {
	t.Helper()
	b, err := Encode(v)
	require.NoError(t, err, msgAndArgs...)
	return b
}

// dictOf 按参数顺序构造字典: dictOf("a", x, "b", y)
func dictOf(t *testing.T, pairs ...any) Value {
	t.Helper()
	require.Equal(t, 0, len(pairs)%2, "dictOf needs key/value pairs")
	d := Dict()
	for i := 0; i < len(pairs); i += 2 {
		d.Set(pairs[i].(string), pairs[i+1].(Value))
	}
	return d
}

// requireFormatError 断言 err 是 *FormatError 且信息匹配
func requireFormatError(t *testing.T, err error, msg string) *FormatError {
	t.Helper()
	require.Error(t, err)
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "expected *FormatError, got %T: %v", err, err)
	require.Equal(t, msg, fe.Msg)
	return fe
}
