package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *PlanRepository) WithTx(tx *gorm.DB) *PlanRepository {
	return &PlanRepository{db: tx}
}

func (r *PlanRepository) Create(plan *model.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int64) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Update(plan *model.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

func (r *PlanRepository) Delete(id int64) error {
	return r.db.Delete(&model.SubscriptionPlan{}, id).Error
}

// ListActive 上架套餐，按价格升序
func (r *PlanRepository) ListActive() ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	err := r.db.Where("is_active = ?", true).Order("price ASC").Order("id ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) ListAll() ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	err := r.db.Order("price ASC").Order("id ASC").Find(&plans).Error
	return plans, err
}

// ClearMostPopular 清除除 exceptID 以外所有套餐的最受欢迎标记
func (r *PlanRepository) ClearMostPopular(exceptID int64) error {
	return r.db.Model(&model.SubscriptionPlan{}).
		Where("is_most_popular = ? AND id <> ?", true, exceptID).
		Update("is_most_popular", false).Error
}

func (r *PlanRepository) CountMostPopular() (int64, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionPlan{}).Where("is_most_popular = ?", true).Count(&count).Error
	return count, err
}
