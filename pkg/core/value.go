package core

import (
	"bytes"
	"math/big"
	"slices"
)

// Kind 标识 Value 携带的具体变体
type Kind uint8

const (
	KindInvalid Kind = iota // 零值，不可编码
	KindBytes               // 字节串
	KindInt                 // 任意精度整数
	KindList                // 有序列表
	KindDict                // 以字节串为 key 的字典
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value 是编码模型中的一个节点 (Tagged Union)
// 只能通过 Bytes/String/Int/BigInt/List/Dict 构造，零值会被 Encode 拒绝。
type Value struct {
	kind Kind
	str  []byte
	num  *big.Int
	list []Value
	dict map[string]Value // Go string 可以承载任意字节，排序即字节序
}

// Bytes 构造字节串节点 (会复制输入)
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, str: bytes.Clone(nonNil(b))}
}

// String 构造字节串节点。调用方负责文本的字节编码 (UTF-8)
func String(s string) Value {
	return Value{kind: KindBytes, str: []byte(s)}
}

func Int(n int64) Value {
	return Value{kind: KindInt, num: big.NewInt(n)}
}

// BigInt 构造任意精度整数节点 (会复制输入)
func BigInt(n *big.Int) Value {
	if n == nil {
		return Value{}
	}
	return Value{kind: KindInt, num: new(big.Int).Set(n)}
}

func List(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value{}, items...)}
}

// Dict 构造一个空字典，使用 Set 填充
func Dict() Value {
	return Value{kind: KindDict, dict: make(map[string]Value)}
}

func (v Value) Kind() Kind { return v.kind }

// IsValid 报告该节点是否由构造函数创建
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Set 写入字典项，重复 key 会被覆盖
// 对非字典节点调用会 panic，这是编程错误而非数据错误
func (v *Value) Set(key string, item Value) {
	if v.kind != KindDict {
		panic("core: Set called on " + v.kind.String() + " value")
	}
	v.dict[key] = item
}

// Append 追加列表元素
func (v *Value) Append(items ...Value) {
	if v.kind != KindList {
		panic("core: Append called on " + v.kind.String() + " value")
	}
	v.list = append(v.list, items...)
}

func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.str, true
}

// AsString 返回字节串的 string 视图
func (v Value) AsString() (string, bool) {
	b, ok := v.AsBytes()
	return string(b), ok
}

func (v Value) AsBigInt() (*big.Int, bool) {
	if v.kind != KindInt || v.num == nil {
		return nil, false
	}
	return new(big.Int).Set(v.num), true
}

// AsInt64 仅当整数可以放进 int64 时返回 true
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt || v.num == nil || !v.num.IsInt64() {
		return 0, false
	}
	return v.num.Int64(), true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

func (v Value) AsDict() (map[string]Value, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	return v.dict, true
}

// Get 读取字典项
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	item, ok := v.dict[key]
	return item, ok
}

// Keys 返回按字节序排序的字典 key
func (v Value) Keys() []string {
	if v.kind != KindDict {
		return nil
	}
	keys := make([]string, 0, len(v.dict))
	for k := range v.dict {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len 返回字节串长度、列表长度或字典项数
func (v Value) Len() int {
	switch v.kind {
	case KindBytes:
		return len(v.str)
	case KindList:
		return len(v.list)
	case KindDict:
		return len(v.dict)
	default:
		return 0
	}
}

// Equal 深度比较两个节点
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBytes:
		return bytes.Equal(v.str, other.str)
	case KindInt:
		if v.num == nil || other.num == nil {
			return v.num == other.num
		}
		return v.num.Cmp(other.num) == 0
	case KindList:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	case KindDict:
		if len(v.dict) != len(other.dict) {
			return false
		}
		for k, a := range v.dict {
			b, ok := other.dict[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
