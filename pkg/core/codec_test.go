package core

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 1. 编码格式
// -----------------------------------------------------------------------------

func TestEncode_Formats(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"bytes", String("spam"), "4:spam"},
		{"empty bytes", Bytes(nil), "0:"},
		{"nested encoded text stays opaque", String("4:spam"), "6:4:spam"},
		{"zero", Int(0), "i0e"},
		{"positive", Int(3), "i3e"},
		{"negative", Int(-42), "i-42e"},
		{"list", List(String("spam"), String("eggs")), "l4:spam4:eggse"},
		{"empty list", List(), "le"},
		{"empty dict", Dict(), "de"},
		{"dict", dictOf(t, "cow", String("moo"), "spam", String("eggs")), "d3:cow3:moo4:spam4:eggse"},
		{"dict with list", dictOf(t, "spam", List(String("a"), String("b"))), "d4:spaml1:a1:bee"},
		{
			"keys sorted by bytes",
			dictOf(t,
				"publisher.location", String("home"),
				"publisher-webpage", String("www.example.com"),
				"publisher", String("bob"),
			),
			"d9:publisher3:bob17:publisher-webpage15:www.example.com18:publisher.location4:homee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(mustEncode(t, tt.in)))
		})
	}
}

func TestEncode_BigInteger(t *testing.T) {
	n, ok := new(big.Int).SetString("-123456789012345678901234567890", 10)
	require.True(t, ok)

	v := BigInt(n)
	assert.Equal(t, "i-123456789012345678901234567890e", string(mustEncode(t, v)))

	// 构造时复制，修改原值不影响节点
	n.SetInt64(1)
	assert.Equal(t, "i-123456789012345678901234567890e", string(mustEncode(t, v)))

	got, ok := v.AsBigInt()
	require.True(t, ok)
	_, fits := v.AsInt64()
	assert.False(t, fits)
	assert.Equal(t, 0, got.Cmp(mustBig(t, "-123456789012345678901234567890")))
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return n
}

func TestEncode_RejectsInvalidValue(t *testing.T) {
	// 零值节点不是由构造函数创建的
	_, err := Encode(Value{})
	var ee *EncodingError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, KindInvalid, ee.Kind)

	// 嵌套的非法节点要报告路径
	info := Dict()
	info.Set("files", List(String("ok"), Value{}))
	root := Dict()
	root.Set("info", info)

	_, err = Encode(root)
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "info.files[1]", ee.Path)
	assert.Contains(t, err.Error(), "info.files[1]")

	// BigInt(nil) 同样不可编码
	_, err = Encode(BigInt(nil))
	assert.Error(t, err)
}

func TestEncodeTo_MatchesEncode(t *testing.T) {
	v := dictOf(t, "b", Int(2), "a", List(Int(1), String("x")))

	var buf bytes.Buffer
	require.NoError(t, EncodeTo(&buf, v))
	assert.Equal(t, mustEncode(t, v), buf.Bytes())
}

// -----------------------------------------------------------------------------
// 2. 规范性 (Canonical Encoding)
// -----------------------------------------------------------------------------

func TestCanonical_InsertionOrderIrrelevant(t *testing.T) {
	keys := []string{"announce", "comment", "created by", "creation date", "info"}

	sorted := Dict()
	for _, k := range keys {
		sorted.Set(k, String(k))
	}

	reversed := Dict()
	for i := len(keys) - 1; i >= 0; i-- {
		reversed.Set(keys[i], String(keys[i]))
	}

	assert.Equal(t, mustEncode(t, sorted), mustEncode(t, reversed), "key 插入顺序不能影响编码结果")
}

func TestCanonical_RawByteOrder(t *testing.T) {
	// 大写字母 (0x41..) 排在小写 (0x61..) 之前，高位字节排在最后
	d := dictOf(t, "b", Int(1), "\xff", Int(2), "B", Int(3), "a", Int(4))
	assert.Equal(t, "d1:Bi3e1:ai4e1:bi1e1:\xffi2ee", string(mustEncode(t, d)))
}

func TestCalculateHash_Deterministic(t *testing.T) {
	v := dictOf(t, "name", String("demo"), "piece length", Int(262144))

	h1, b1, err := CalculateHash(v)
	require.NoError(t, err)

	decoded, err := DecodeAll(b1)
	require.NoError(t, err)

	h2, _, err := CalculateHash(decoded)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "同一个对象的哈希必须永远一致")
	assert.True(t, h1.IsValid())
}

// -----------------------------------------------------------------------------
// 3. Round-Trip
// -----------------------------------------------------------------------------

func TestRoundTrip(t *testing.T) {
	files := List(
		dictOf(t, "length", Int(10), "path", List(String("a"), String("b.txt"))),
		dictOf(t, "length", Int(0), "path", List(String("c"))),
	)
	cases := map[string]Value{
		"bytes":        String("hello"),
		"binary bytes": Bytes([]byte{0, 1, 2, 0xff, 'e', ':'}),
		"int":          Int(-7),
		"big":          BigInt(mustBig(t, "98765432109876543210")),
		"list":         List(Int(1), String("two"), List()),
		"nested":       dictOf(t, "info", dictOf(t, "files", files, "name", String("dir")), "nodes", List(List(String("127.0.0.1"), Int(6881)))),
	}

	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			encoded := mustEncode(t, v)
			decoded, n, err := Decode(encoded, 0)
			require.NoError(t, err)
			assert.Equal(t, len(encoded), n)
			assert.True(t, v.Equal(decoded), "decode(encode(v)) != v")
		})
	}
}

// -----------------------------------------------------------------------------
// 4. 解码
// -----------------------------------------------------------------------------

func TestDecode_Values(t *testing.T) {
	v, n, err := Decode([]byte("4:spam"), 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "spam", s)

	v, _, err = Decode([]byte("i3e"), 0)
	require.NoError(t, err)
	i, ok := v.AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(3), i)

	v, _, err = Decode([]byte("6:4:spam"), 0)
	require.NoError(t, err)
	s, _ = v.AsString()
	assert.Equal(t, "4:spam", s)

	v, _, err = Decode([]byte("d4:spaml1:a1:bee"), 0)
	require.NoError(t, err)
	spam, ok := v.Get("spam")
	require.True(t, ok)
	items, ok := spam.AsList()
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestDecode_Offset(t *testing.T) {
	data := []byte("xxi42e4:tail")

	v, n, err := Decode(data, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n, "只消耗 i42e")
	i, _ := v.AsInt64()
	assert.Equal(t, int64(42), i)

	v, n, err = Decode(data, 2+n)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	s, _ := v.AsString()
	assert.Equal(t, "tail", s)

	_, _, err = Decode(data, len(data)+1)
	requireFormatError(t, err, msgOffsetOutOfRange)
}

func TestDecode_Lenient(t *testing.T) {
	// 不校验 key 顺序
	v, err := DecodeAll([]byte("d1:bi1e1:ai2ee"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())

	// 重复 key: 最后一次生效
	v, err = DecodeAll([]byte("d1:ai1e1:ai2ee"))
	require.NoError(t, err)
	a, _ := v.Get("a")
	i, _ := a.AsInt64()
	assert.Equal(t, int64(2), i)
	assert.Equal(t, 1, v.Len())

	// 重新编码后变为规范形式
	assert.Equal(t, "d1:ai2ee", string(mustEncode(t, v)))
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		msg    string
		offset int
	}{
		{"truncated string", "3:ab", msgInvalidString, 0},
		{"missing separator", "3ab", msgInvalidString, 0},
		{"digits only", "12", msgInvalidString, 0},
		{"integer missing terminator", "i3x", msgInvalidInteger, 0},
		{"integer at eof", "i12", msgInvalidInteger, 0},
		{"empty integer", "ie", msgInvalidInteger, 0},
		{"sign only", "i-e", msgInvalidInteger, 0},
		{"dict key without value", "d3:keye", msgMissingValue, 6},
		{"dict key at eof", "d3:key", msgMissingValue, 6},
		{"dict non-string key", "di1ei2ee", msgNonStringKey, 1},
		{"unterminated list", "l4:spam", msgUnterminated, 0},
		{"unterminated dict", "d1:ai1e", msgUnterminated, 0},
		{"unknown marker", "x", msgInvalidEncoding, 0},
		{"empty input", "", msgInvalidEncoding, 0},
		{"nested truncation", "l5:abe", msgInvalidString, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.input), 0)
			fe := requireFormatError(t, err, tt.msg)
			assert.Equal(t, tt.offset, fe.Offset)
		})
	}
}

func TestDecodeAll_TrailingData(t *testing.T) {
	_, err := DecodeAll([]byte("i1ei2e"))
	fe := requireFormatError(t, err, msgTrailingData)
	assert.Equal(t, 3, fe.Offset)
}

func TestDecode_DepthLimit(t *testing.T) {
	deep := bytes.Repeat([]byte("l"), maxDepth+10)
	_, _, err := Decode(deep, 0)
	requireFormatError(t, err, msgTooDeep)
}
