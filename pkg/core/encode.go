package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Encode 将节点树序列化为规范编码
// 字典 key 始终按字节序输出，保证相同的树生成唯一的字节流
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo 将规范编码写入 w
func EncodeTo(w io.Writer, v Value) error {
	bw := bufio.NewWriter(w)
	if err := encodeValue(bw, v, ""); err != nil {
		return err
	}
	return bw.Flush()
}

// MustEncode 仅用于常量/测试数据，失败直接 panic
func MustEncode(v Value) []byte {
	b, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}

type byteWriter interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

func encodeValue(w byteWriter, v Value, path string) error {
	switch v.kind {
	case KindBytes:
		w.WriteString(strconv.Itoa(len(v.str)))
		w.WriteByte(':')
		_, err := w.Write(v.str)
		return err

	case KindInt:
		if v.num == nil {
			return &EncodingError{Kind: v.kind, Path: path}
		}
		w.WriteByte('i')
		// big.Int.String() 不会输出前导零，0 输出为 "0"，负数带 '-'
		w.WriteString(v.num.String())
		return w.WriteByte('e')

	case KindList:
		w.WriteByte('l')
		for i, item := range v.list {
			if err := encodeValue(w, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return w.WriteByte('e')

	case KindDict:
		w.WriteByte('d')
		for _, key := range v.Keys() {
			w.WriteString(strconv.Itoa(len(key)))
			w.WriteByte(':')
			w.WriteString(key)
			if err := encodeValue(w, v.dict[key], joinPath(path, key)); err != nil {
				return err
			}
		}
		return w.WriteByte('e')

	default:
		return &EncodingError{Kind: v.kind, Path: path}
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
