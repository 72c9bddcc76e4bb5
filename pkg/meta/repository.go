package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTorrentNotFound = errors.New("torrent not found in catalog")

// Repository 封装所有对 SQL 数据库的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Record 将 Bundle 投影到目录中
// 同一 InfoHash 重复生成时只刷新输出路径和更新时间。
func (r *Repository) Record(ctx context.Context, b *metainfo.Bundle, outputPath string) (*TorrentModel, error) {
	hash, err := b.InfoHash()
	if err != nil {
		return nil, err
	}

	trackers := b.Trackers()
	if trackers == nil {
		trackers = []string{}
	}
	trackersJSON, err := json.Marshal(trackers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trackers: %w", err)
	}

	numFiles := len(b.Info.Files)
	if b.Info.IsSingle() {
		numFiles = 1
	}

	model := TorrentModel{
		InfoHash:     hash.String(),
		Name:         b.Info.Name,
		TotalSize:    b.Info.TotalLength(),
		PieceLength:  b.Info.PieceLength,
		NumPieces:    b.Info.NumPieces(),
		NumFiles:     numFiles,
		Private:      b.Info.Private,
		Merkle:       b.Info.RootHash != nil,
		Comment:      b.Comment,
		Trackers:     datatypes.JSON(trackersJSON),
		OutputPath:   outputPath,
		CreationDate: b.CreationDate.Unix(),
	}

	err = r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "info_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"output_path", "comment", "trackers", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record torrent: %w", err)
	}
	return &model, nil
}

// MarkPublished 标记种子已经写入发布存储
func (r *Repository) MarkPublished(ctx context.Context, hash types.InfoHash) error {
	result := r.db.GetConn().WithContext(ctx).
		Model(&TorrentModel{}).
		Where("info_hash = ?", hash.String()).
		Updates(map[string]any{
			"published":  true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTorrentNotFound
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, hash types.InfoHash) (*TorrentModel, error) {
	var t TorrentModel
	err := r.db.GetConn().WithContext(ctx).
		Where("info_hash = ?", hash.String()).
		First(&t).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTorrentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List 按 creation date 倒序返回最近的记录，limit <= 0 表示不限制
func (r *Repository) List(ctx context.Context, limit int) ([]TorrentModel, error) {
	var torrents []TorrentModel
	q := r.db.GetConn().WithContext(ctx).Order("creation_date DESC, info_hash")
	err := limited(q, limit).Find(&torrents).Error
	return torrents, err
}

// FindByName 按名称子串查找
func (r *Repository) FindByName(ctx context.Context, pattern string, limit int) ([]TorrentModel, error) {
	var torrents []TorrentModel
	q := r.db.GetConn().WithContext(ctx).
		Where("name LIKE ?", "%"+pattern+"%").
		Order("creation_date DESC, info_hash")
	err := limited(q, limit).Find(&torrents).Error
	return torrents, err
}

func limited(q *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return q.Limit(limit)
	}
	return q
}
