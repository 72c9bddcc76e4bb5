package core

import (
	"math/big"
)

// maxDepth 限制容器嵌套深度，防止恶意构造的输入耗尽栈
const maxDepth = 512

// Decode 从 data[offset:] 解码一个节点
// 返回值:
//
//	Value: 解码结果
//	int:   本次消耗的字节数
//
// 解码是宽松的：不校验字典 key 顺序，重复 key 以最后一次为准。
func Decode(data []byte, offset int) (Value, int, error) {
	if offset < 0 || offset > len(data) {
		return Value{}, 0, &FormatError{Offset: offset, Msg: msgOffsetOutOfRange}
	}
	d := &decoder{data: data, pos: offset}
	v, err := d.value(0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, d.pos - offset, nil
}

// DecodeAll 解码完整输入，存在多余字节时报错
func DecodeAll(data []byte) (Value, error) {
	v, n, err := Decode(data, 0)
	if err != nil {
		return Value{}, err
	}
	if n != len(data) {
		return Value{}, &FormatError{Offset: n, Msg: msgTrailingData}
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) value(depth int) (Value, error) {
	if d.pos >= len(d.data) {
		return Value{}, &FormatError{Offset: d.pos, Msg: msgInvalidEncoding}
	}
	if depth > maxDepth {
		return Value{}, &FormatError{Offset: d.pos, Msg: msgTooDeep}
	}

	switch c := d.data[d.pos]; {
	case isDigit(c):
		return d.byteString()
	case c == 'i':
		return d.integer()
	case c == 'l':
		return d.list(depth)
	case c == 'd':
		return d.dict(depth)
	default:
		return Value{}, &FormatError{Offset: d.pos, Msg: msgInvalidEncoding}
	}
}

// byteString 解析 <length>:<bytes>
func (d *decoder) byteString() (Value, error) {
	start := d.pos
	n := 0
	for d.pos < len(d.data) && isDigit(d.data[d.pos]) {
		// 长度溢出等价于截断，不可能有这么多剩余字节
		if n > (len(d.data)+1)*10 {
			return Value{}, &FormatError{Offset: start, Msg: msgInvalidString}
		}
		n = n*10 + int(d.data[d.pos]-'0')
		d.pos++
	}
	if d.pos >= len(d.data) || d.data[d.pos] != ':' {
		return Value{}, &FormatError{Offset: start, Msg: msgInvalidString}
	}
	d.pos++ // 跳过 ':'

	if len(d.data)-d.pos < n {
		return Value{}, &FormatError{Offset: start, Msg: msgInvalidString}
	}
	v := Bytes(d.data[d.pos : d.pos+n])
	d.pos += n
	return v, nil
}

// integer 解析 i<digits>e
func (d *decoder) integer() (Value, error) {
	start := d.pos
	d.pos++ // 跳过 'i'

	digitsStart := d.pos
	if d.pos < len(d.data) && d.data[d.pos] == '-' {
		d.pos++
	}
	firstDigit := d.pos
	for d.pos < len(d.data) && isDigit(d.data[d.pos]) {
		d.pos++
	}
	if d.pos == firstDigit || d.pos >= len(d.data) || d.data[d.pos] != 'e' {
		return Value{}, &FormatError{Offset: start, Msg: msgInvalidInteger}
	}

	n, ok := new(big.Int).SetString(string(d.data[digitsStart:d.pos]), 10)
	if !ok {
		return Value{}, &FormatError{Offset: start, Msg: msgInvalidInteger}
	}
	d.pos++ // 跳过 'e'
	return Value{kind: KindInt, num: n}, nil
}

func (d *decoder) list(depth int) (Value, error) {
	start := d.pos
	d.pos++ // 跳过 'l'

	out := List()
	for {
		if d.pos >= len(d.data) {
			return Value{}, &FormatError{Offset: start, Msg: msgUnterminated}
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return out, nil
		}
		item, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		out.list = append(out.list, item)
	}
}

func (d *decoder) dict(depth int) (Value, error) {
	start := d.pos
	d.pos++ // 跳过 'd'

	out := Dict()
	for {
		if d.pos >= len(d.data) {
			return Value{}, &FormatError{Offset: start, Msg: msgUnterminated}
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return out, nil
		}

		// 1. key 必须是字节串
		if !isDigit(d.data[d.pos]) {
			return Value{}, &FormatError{Offset: d.pos, Msg: msgNonStringKey}
		}
		key, err := d.byteString()
		if err != nil {
			return Value{}, err
		}

		// 2. key 后面必须跟一个 value
		if d.pos >= len(d.data) || d.data[d.pos] == 'e' {
			return Value{}, &FormatError{Offset: d.pos, Msg: msgMissingValue}
		}
		item, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		out.dict[string(key.str)] = item // 重复 key: 最后一次生效
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
