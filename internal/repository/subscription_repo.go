package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Omit("Plan").Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("Plan").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Omit("Plan").Save(sub).Error
}

// ListByStreamer 主播的全部订阅（含套餐），按结束时间倒序
func (r *SubscriptionRepository) ListByStreamer(streamerID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("Plan").
		Where("streamer_id = ?", streamerID).
		Order("end_date DESC").Order("id DESC").
		Find(&subs).Error
	return subs, err
}

// ListByStatus 指定状态的订阅，过期判断由调用方按时钟完成
func (r *SubscriptionRepository) ListByStatus(status string) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("Plan").Where("status = ?", status).Order("id ASC").Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) ListByPlan(planID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("plan_id = ?", planID).Order("id ASC").Find(&subs).Error
	return subs, err
}

// UpdateStatus 批量更新状态
func (r *SubscriptionRepository) UpdateStatus(ids []int64, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.Subscription{}).Where("id IN ?", ids).Update("status", status)
	return result.RowsAffected, result.Error
}
