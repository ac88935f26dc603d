package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/boost_stream_server/internal/model"
)

type StreamerRepository struct {
	db *gorm.DB
}

func NewStreamerRepository(db *gorm.DB) *StreamerRepository {
	return &StreamerRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *StreamerRepository) WithTx(tx *gorm.DB) *StreamerRepository {
	return &StreamerRepository{db: tx}
}

func (r *StreamerRepository) Create(streamer *model.Streamer) error {
	return r.db.Create(streamer).Error
}

func (r *StreamerRepository) GetByID(id int64) (*model.Streamer, error) {
	var streamer model.Streamer
	err := r.db.Where("id = ?", id).First(&streamer).Error
	if err != nil {
		return nil, err
	}
	return &streamer, nil
}

func (r *StreamerRepository) GetByUserID(userID int64) (*model.Streamer, error) {
	var streamer model.Streamer
	err := r.db.Where("user_id = ?", userID).First(&streamer).Error
	if err != nil {
		return nil, err
	}
	return &streamer, nil
}

// LockByID 事务内对主播行加写锁，串行化同一主播的排期请求
func (r *StreamerRepository) LockByID(id int64) (*model.Streamer, error) {
	var streamer model.Streamer
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&streamer).Error
	if err != nil {
		return nil, err
	}
	return &streamer, nil
}

// SetCurrentStream 设置或清空当前直播指针
func (r *StreamerRepository) SetCurrentStream(id int64, streamID *int64) error {
	return r.db.Model(&model.Streamer{}).Where("id = ?", id).Update("current_stream_id", streamID).Error
}
