package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
)

type StreamRepository struct {
	db *gorm.DB
}

func NewStreamRepository(db *gorm.DB) *StreamRepository {
	return &StreamRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *StreamRepository) WithTx(tx *gorm.DB) *StreamRepository {
	return &StreamRepository{db: tx}
}

func (r *StreamRepository) Create(stream *model.PlannedStream) error {
	return r.db.Create(stream).Error
}

func (r *StreamRepository) GetByID(id int64) (*model.PlannedStream, error) {
	var stream model.PlannedStream
	err := r.db.Where("id = ?", id).First(&stream).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

// GetByStreamer 按 ID 查询，且必须属于该主播
func (r *StreamRepository) GetByStreamer(streamerID, id int64) (*model.PlannedStream, error) {
	var stream model.PlannedStream
	err := r.db.Where("id = ? AND streamer_id = ?", id, streamerID).First(&stream).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *StreamRepository) Update(stream *model.PlannedStream) error {
	return r.db.Save(stream).Error
}

func (r *StreamRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.PlannedStream{}).Where("id = ?", id).Update("status", status).Error
}

func (r *StreamRepository) Delete(id int64) error {
	return r.db.Delete(&model.PlannedStream{}, id).Error
}

// ListByStreamer 主播全部直播，按计划开始时间倒序
func (r *StreamRepository) ListByStreamer(streamerID int64) ([]*model.PlannedStream, error) {
	var streams []*model.PlannedStream
	err := r.db.Where("streamer_id = ?", streamerID).
		Order("scheduled_start DESC").Order("id DESC").
		Find(&streams).Error
	return streams, err
}

// ListByStreamerStatus 按状态过滤，ID 升序
func (r *StreamRepository) ListByStreamerStatus(streamerID int64, statuses ...string) ([]*model.PlannedStream, error) {
	var streams []*model.PlannedStream
	err := r.db.Where("streamer_id = ? AND status IN ?", streamerID, statuses).
		Order("id ASC").
		Find(&streams).Error
	return streams, err
}

// FindLive 主播当前 live 的直播，排除 excludeID
func (r *StreamRepository) FindLive(streamerID, excludeID int64) (*model.PlannedStream, error) {
	var stream model.PlannedStream
	err := r.db.Where("streamer_id = ? AND status = ? AND id <> ?", streamerID, model.StreamStatusLive, excludeID).
		Order("id ASC").
		First(&stream).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}
