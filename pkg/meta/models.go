package meta

import (
	"time"

	"gorm.io/datatypes"
)

// TorrentModel 是一次 create 的记录
// 用于 list 命令，以及按 InfoHash 找回已经生成的种子文件
type TorrentModel struct {
	// InfoHash 是主键 (40 位 hex)
	InfoHash string `gorm:"primaryKey;type:char(40)"`

	Name        string `gorm:"index;type:varchar(255)"`
	TotalSize   int64
	PieceLength int
	NumPieces   int
	NumFiles    int
	Private     bool
	Merkle      bool
	Comment     string `gorm:"type:text"`

	// Trackers: 按 tier 展开后的 announce URL 列表 ["url1", "url2"]
	Trackers datatypes.JSON

	// OutputPath 是最近一次写出的本地路径
	OutputPath string `gorm:"type:text"`
	Published  bool

	CreationDate int64 `gorm:"index"` // 种子里的 creation date

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 强制指定表名
func (TorrentModel) TableName() string {
	return "torrents"
}
