package exporter

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"gentorrent/pkg/core"
	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/types"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format 是 inspect 的输出格式
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text, json, yaml or cbor)", s)
	}
}

// 规范 CBOR：Map Key 排序、禁止不定长编码，保证同一个种子总是得到相同的输出
var cborEncOptions = cbor.EncOptions{
	Sort:          cbor.SortCanonical,
	ShortestFloat: cbor.ShortestFloatNone,
	IndefLength:   cbor.IndefLengthForbidden,
	BigIntConvert: cbor.BigIntConvertShortest,
}

var cborMode, _ = cborEncOptions.EncMode()

// Dump 将编码后的种子按指定格式写出
func Dump(w io.Writer, data []byte, f Format) error {
	if f == FormatText {
		b, err := metainfo.Parse(data)
		if err != nil {
			return err
		}
		return PrintBundle(w, b)
	}

	v, err := core.DecodeAll(data)
	if err != nil {
		return err
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ToGeneric(v, false))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ToGeneric(v, false)); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		out, err := cborMode.Marshal(ToGeneric(v, true))
		if err != nil {
			return fmt.Errorf("cbor encode: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// ToGeneric 将 Value 转换为 map/slice/标量，供通用序列化库使用
// 可打印的字节串转为 string；binary 为 true 时其余字节串保持 []byte，否则转为 hex。
// "pieces" 按 20 字节拆成 hex 列表，方便阅读。
func ToGeneric(v core.Value, binary bool) any {
	switch v.Kind() {
	case core.KindBytes:
		b, _ := v.AsBytes()
		if printable(b) {
			return string(b)
		}
		if binary {
			return b
		}
		return hex.EncodeToString(b)
	case core.KindInt:
		if n, ok := v.AsInt64(); ok {
			return n
		}
		n, _ := v.AsBigInt()
		if binary {
			return n
		}
		return n.String()
	case core.KindList:
		items, _ := v.AsList()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = ToGeneric(item, binary)
		}
		return out
	case core.KindDict:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			if k == "pieces" && !binary {
				if b, ok := item.AsBytes(); ok && len(b)%types.PieceHashSize == 0 {
					out[k] = splitPieces(b)
					continue
				}
			}
			out[k] = ToGeneric(item, binary)
		}
		return out
	default:
		return nil
	}
}

func splitPieces(b []byte) []string {
	out := make([]string, 0, len(b)/types.PieceHashSize)
	for i := 0; i < len(b); i += types.PieceHashSize {
		out = append(out, hex.EncodeToString(b[i:i+types.PieceHashSize]))
	}
	return out
}

func printable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
