package metainfo

import (
	"fmt"
	"time"

	"gentorrent/pkg/checksum"
	"gentorrent/pkg/core"
)

// Parse 将已有的种子文件解码为 Bundle
// 不校验 Piece 与本地文件是否一致；InfoHash 基于原始 info 字节计算。
func Parse(data []byte) (*Bundle, error) {
	root, err := core.DecodeAll(data)
	if err != nil {
		return nil, err
	}
	if root.Kind() != core.KindDict {
		return nil, invalid("metainfo", "top level is a %s, want dict", root.Kind())
	}

	infoVal, ok := root.Get("info")
	if !ok {
		return nil, invalid("info", "missing")
	}
	info, err := parseInfo(infoVal)
	if err != nil {
		return nil, err
	}

	raw, err := infoSpan(data)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Info: *info, rawInfo: raw}

	if v, ok := root.Get("announce-list"); ok {
		tiers, _ := v.AsList()
		for _, t := range tiers {
			if tier := stringsOf(t); len(tier) > 0 {
				b.Announce = append(b.Announce, tier)
			}
		}
	}
	if len(b.Announce) == 0 {
		if s, ok := getString(root, "announce"); ok && s != "" {
			b.Announce = [][]string{{s}}
		}
	}

	if v, ok := root.Get("nodes"); ok {
		items, _ := v.AsList()
		for _, item := range items {
			pair, _ := item.AsList()
			if len(pair) != 2 {
				return nil, invalid("nodes", "entry must be a [host, port] pair")
			}
			host, ok1 := pair[0].AsString()
			port, ok2 := pair[1].AsInt64()
			if !ok1 || !ok2 {
				return nil, invalid("nodes", "entry must be a [host, port] pair")
			}
			b.Nodes = append(b.Nodes, Node{Host: host, Port: int(port)})
		}
	}

	if v, ok := root.Get("httpseeds"); ok {
		b.HTTPSeeds = stringsOf(v)
	}
	if v, ok := root.Get("url-list"); ok {
		// 单个 URL 也可以直接以字符串出现
		if s, ok := v.AsString(); ok {
			b.URLList = []string{s}
		} else {
			b.URLList = stringsOf(v)
		}
	}
	if v, ok := root.Get("creation date"); ok {
		if ts, ok := v.AsInt64(); ok {
			b.CreationDate = time.Unix(ts, 0)
		}
	}
	b.Comment, _ = getString(root, "comment")
	b.CreatedBy, _ = getString(root, "created by")

	return b, nil
}

func parseInfo(v core.Value) (*Info, error) {
	if v.Kind() != core.KindDict {
		return nil, invalid("info", "is a %s, want dict", v.Kind())
	}

	info := &Info{}
	var ok bool

	if info.Name, ok = getString(v, "name"); !ok {
		return nil, invalid("info.name", "missing")
	}
	pl, ok := getInt(v, "piece length")
	if !ok || pl <= 0 {
		return nil, invalid("info.piece length", "missing or not positive")
	}
	info.PieceLength = int(pl)

	if p, ok := getInt(v, "private"); ok && p == 1 {
		info.Private = true
	}

	if pieces, ok := v.Get("pieces"); ok {
		info.Pieces, _ = pieces.AsBytes()
		if info.Pieces == nil {
			return nil, invalid("info.pieces", "must be a byte string")
		}
	}
	if root, ok := v.Get("root hash"); ok {
		info.RootHash, _ = root.AsBytes()
		if info.RootHash == nil {
			return nil, invalid("info.root hash", "must be a byte string")
		}
	}

	for _, key := range v.Keys() {
		if a, ok := checksum.FromKey(key); ok {
			info.Algorithm = a
		}
	}

	if files, ok := v.Get("files"); ok {
		items, ok := files.AsList()
		if !ok || len(items) == 0 {
			return nil, invalid("info.files", "must be a non-empty list")
		}
		for i, item := range items {
			entry, err := parseFile(item, info)
			if err != nil {
				return nil, fmt.Errorf("info.files[%d]: %w", i, err)
			}
			info.Files = append(info.Files, entry)
		}
	} else {
		if info.Length, ok = getInt(v, "length"); !ok {
			return nil, invalid("info.length", "missing for single-file torrent")
		}
		info.Checksum, _ = getString(v, info.Algorithm.Key())
	}

	if err := info.check(); err != nil {
		return nil, err
	}
	return info, nil
}

func parseFile(v core.Value, info *Info) (FileEntry, error) {
	var entry FileEntry
	if v.Kind() != core.KindDict {
		return entry, invalid("file", "is a %s, want dict", v.Kind())
	}

	length, ok := getInt(v, "length")
	if !ok || length < 0 {
		return entry, invalid("file.length", "missing or negative")
	}
	entry.Length = length

	path, ok := v.Get("path")
	if !ok {
		return entry, invalid("file.path", "missing")
	}
	entry.Path = stringsOf(path)
	if len(entry.Path) == 0 {
		return entry, invalid("file.path", "must be a non-empty list of strings")
	}

	for _, key := range v.Keys() {
		if a, ok := checksum.FromKey(key); ok {
			info.Algorithm = a
			entry.Checksum, _ = getString(v, key)
		}
	}
	return entry, nil
}

// infoSpan 返回顶层字典中 info 值的原始字节
func infoSpan(data []byte) ([]byte, error) {
	off := 1 // 跳过 'd'
	var span []byte
	for off < len(data) && data[off] != 'e' {
		key, n, err := core.Decode(data, off)
		if err != nil {
			return nil, err
		}
		off += n
		_, n, err = core.Decode(data, off)
		if err != nil {
			return nil, err
		}
		// 重复 key 以最后一个为准，与解码语义一致
		if k, _ := key.AsString(); k == "info" {
			span = data[off : off+n]
		}
		off += n
	}
	if span == nil {
		return nil, invalid("info", "missing")
	}
	return span, nil
}

func getString(v core.Value, key string) (string, bool) {
	item, ok := v.Get(key)
	if !ok {
		return "", false
	}
	return item.AsString()
}

func getInt(v core.Value, key string) (int64, bool) {
	item, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	return item.AsInt64()
}

func stringsOf(v core.Value) []string {
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}
