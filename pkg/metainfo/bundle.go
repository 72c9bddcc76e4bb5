package metainfo

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"

	"gentorrent/pkg/checksum"
	"gentorrent/pkg/core"
	"gentorrent/pkg/types"
)

// FileEntry 是多文件模式下的一个文件
type FileEntry struct {
	Path     []string // 相对路径段，不含分隔符
	Length   int64
	Checksum string // hex，未开启时为空
}

// Info 是内容描述 (info 字典)，InfoHash 只由它决定
type Info struct {
	Name        string
	PieceLength int
	Private     bool

	// 单文件模式
	Length   int64
	Checksum string

	// 多文件模式，非空即表示多文件
	Files []FileEntry

	// 逐文件校验和使用的算法，决定 md5sum / blake3sum 的 key
	Algorithm checksum.Algorithm

	// 二者有且只有一个非空
	Pieces   []byte
	RootHash []byte
}

func (i *Info) IsSingle() bool { return len(i.Files) == 0 }

// TotalLength 返回内容总字节数
func (i *Info) TotalLength() int64 {
	if i.IsSingle() {
		return i.Length
	}
	var total int64
	for _, f := range i.Files {
		total += f.Length
	}
	return total
}

// NumPieces 返回 Piece 数量；Merkle 模式下只保存根，按长度推算
func (i *Info) NumPieces() int {
	if i.Pieces != nil {
		return len(i.Pieces) / types.PieceHashSize
	}
	if i.PieceLength <= 0 {
		return 0
	}
	pl := int64(i.PieceLength)
	return int((i.TotalLength() + pl - 1) / pl)
}

func (i *Info) check() error {
	switch {
	case i.Pieces != nil && i.RootHash != nil:
		return invalid("info", "pieces and root hash are mutually exclusive")
	case i.Pieces == nil && i.RootHash == nil:
		return invalid("info", "neither pieces nor root hash is set")
	case i.Pieces != nil && len(i.Pieces)%types.PieceHashSize != 0:
		return invalid("info.pieces", "length %d is not a multiple of %d", len(i.Pieces), types.PieceHashSize)
	case i.RootHash != nil && len(i.RootHash) != types.PieceHashSize:
		return invalid("info.root hash", "length %d, want %d", len(i.RootHash), types.PieceHashSize)
	case i.PieceLength <= 0:
		return invalid("info.piece length", "must be positive, got %d", i.PieceLength)
	}
	return nil
}

// Value 构造 info 字典
func (i *Info) Value() core.Value {
	info := core.Dict()
	info.Set("name", core.String(i.Name))
	info.Set("piece length", core.Int(int64(i.PieceLength)))
	if i.RootHash != nil {
		info.Set("root hash", core.Bytes(i.RootHash))
	} else {
		info.Set("pieces", core.Bytes(i.Pieces))
	}
	if i.Private {
		info.Set("private", core.Int(1))
	}

	key := i.Algorithm.Key()
	if i.IsSingle() {
		info.Set("length", core.Int(i.Length))
		if key != "" && i.Checksum != "" {
			info.Set(key, core.String(i.Checksum))
		}
		return info
	}

	files := core.List()
	for _, f := range i.Files {
		entry := core.Dict()
		entry.Set("length", core.Int(f.Length))
		path := core.List()
		for _, seg := range f.Path {
			path.Append(core.String(seg))
		}
		entry.Set("path", path)
		if key != "" && f.Checksum != "" {
			entry.Set(key, core.String(f.Checksum))
		}
		files.Append(entry)
	}
	info.Set("files", files)
	return info
}

// Bundle 是完整的种子元数据
// 构建后不可变，InfoHash 在第一次访问时计算并缓存。
type Bundle struct {
	Announce     [][]string
	Nodes        []Node
	HTTPSeeds    []string
	URLList      []string
	CreationDate time.Time
	Comment      string
	CreatedBy    string
	Info         Info

	// 解析得到的 Bundle 保留原始 info 字节，保证 InfoHash 与来源一致
	rawInfo []byte

	hashOnce sync.Once
	infoHash types.InfoHash
	hashErr  error
}

// Trackers 按 tier 顺序展开所有 announce URL
func (b *Bundle) Trackers() []string {
	var out []string
	for _, tier := range b.Announce {
		out = append(out, tier...)
	}
	return out
}

// Value 构造顶层字典
func (b *Bundle) Value() core.Value {
	root := core.Dict()

	if trackers := b.Trackers(); len(trackers) > 0 {
		root.Set("announce", core.String(trackers[0]))
		if len(trackers) > 1 {
			tiers := core.List()
			for _, tier := range b.Announce {
				if len(tier) > 0 {
					tiers.Append(stringList(tier))
				}
			}
			root.Set("announce-list", tiers)
		}
	}

	if len(b.Nodes) > 0 {
		nodes := core.List()
		for _, n := range b.Nodes {
			nodes.Append(core.List(core.String(n.Host), core.Int(int64(n.Port))))
		}
		root.Set("nodes", nodes)
	}
	if len(b.HTTPSeeds) > 0 {
		root.Set("httpseeds", stringList(b.HTTPSeeds))
	}
	if len(b.URLList) > 0 {
		root.Set("url-list", stringList(b.URLList))
	}
	if !b.CreationDate.IsZero() {
		root.Set("creation date", core.Int(b.CreationDate.Unix()))
	}
	if b.Comment != "" {
		root.Set("comment", core.String(b.Comment))
	}
	if b.CreatedBy != "" {
		root.Set("created by", core.String(b.CreatedBy))
	}

	root.Set("info", b.Info.Value())
	return root
}

// Encode 返回整个 Bundle 的规范编码
func (b *Bundle) Encode() ([]byte, error) {
	if err := b.Info.check(); err != nil {
		return nil, err
	}
	return core.Encode(b.Value())
}

// InfoHash 返回 info 字典规范编码的 SHA-1 (hex)
// 修改 announce、comment 等顶层字段不会改变它。
func (b *Bundle) InfoHash() (types.InfoHash, error) {
	b.hashOnce.Do(func() {
		if b.rawInfo != nil {
			sum := sha1.Sum(b.rawInfo)
			b.infoHash = types.InfoHash(hex.EncodeToString(sum[:]))
			return
		}
		if err := b.Info.check(); err != nil {
			b.hashErr = err
			return
		}
		b.infoHash, _, b.hashErr = core.CalculateHash(b.Info.Value())
	})
	return b.infoHash, b.hashErr
}

func stringList(items []string) core.Value {
	l := core.List()
	for _, s := range items {
		l.Append(core.String(s))
	}
	return l
}
