package service

import (
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
)

type PlanService struct {
	db       *gorm.DB
	planRepo *repository.PlanRepository
	subRepo  *repository.SubscriptionRepository
	clock    clockwork.Clock
}

func NewPlanService(
	db *gorm.DB,
	planRepo *repository.PlanRepository,
	subRepo *repository.SubscriptionRepository,
	clock clockwork.Clock,
) *PlanService {
	return &PlanService{
		db:       db,
		planRepo: planRepo,
		subRepo:  subRepo,
		clock:    clock,
	}
}

// ListActive 上架套餐，按价格升序
func (s *PlanService) ListActive() ([]*dto.PlanItem, error) {
	plans, err := s.planRepo.ListActive()
	if err != nil {
		return nil, err
	}
	return buildPlanItems(plans), nil
}

// ListAll 全部套餐（管理端）
func (s *PlanService) ListAll() ([]*dto.PlanItem, error) {
	plans, err := s.planRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return buildPlanItems(plans), nil
}

func (s *PlanService) Get(id int64) (*dto.PlanItem, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}
	return buildPlanItem(plan), nil
}

// Create 创建套餐，设为最受欢迎时在同一事务内清除其他套餐的标记
func (s *PlanService) Create(req *dto.CreatePlanRequest) (*dto.PlanItem, error) {
	plan := &model.SubscriptionPlan{
		Name:                  strings.TrimSpace(req.Name),
		Description:           req.Description,
		DurationDays:          req.DurationDays,
		ViewsDelivered:        req.ViewsDelivered,
		ChatMessagesDelivered: req.ChatMessagesDelivered,
		Features:              req.Features,
		IsActive:              true,
		IsMostPopular:         req.IsMostPopular,
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationHours != nil {
		plan.DurationHours = *req.DurationHours
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		plans := s.planRepo.WithTx(tx)
		if err := plans.Create(plan); err != nil {
			return err
		}
		if plan.IsMostPopular {
			return plans.ClearMostPopular(plan.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildPlanItem(plan), nil
}

// Update 更新套餐
func (s *PlanService) Update(id int64, req *dto.UpdatePlanRequest) (*dto.PlanItem, error) {
	var plan *model.SubscriptionPlan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		plans := s.planRepo.WithTx(tx)

		var err error
		plan, err = plans.GetByID(id)
		if err != nil {
			return notFound(err, ErrPlanNotFound)
		}

		if req.Name != nil {
			plan.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			plan.Description = *req.Description
		}
		if req.Price != nil {
			plan.Price = *req.Price
		}
		if req.DurationDays != nil {
			plan.DurationDays = *req.DurationDays
		}
		if req.DurationHours != nil {
			plan.DurationHours = *req.DurationHours
		}
		if req.ViewsDelivered != nil {
			plan.ViewsDelivered = *req.ViewsDelivered
		}
		if req.ChatMessagesDelivered != nil {
			plan.ChatMessagesDelivered = *req.ChatMessagesDelivered
		}
		if req.Features != nil {
			plan.Features = *req.Features
		}
		if req.IsActive != nil {
			plan.IsActive = *req.IsActive
		}
		if req.IsMostPopular != nil {
			plan.IsMostPopular = *req.IsMostPopular
		}

		if err := validatePlan(plan); err != nil {
			return err
		}
		if err := plans.Update(plan); err != nil {
			return err
		}
		if plan.IsMostPopular {
			return plans.ClearMostPopular(plan.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildPlanItem(plan), nil
}

// Toggle 切换上下架状态
func (s *PlanService) Toggle(id int64) (*dto.PlanItem, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}

	plan.IsActive = !plan.IsActive
	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return buildPlanItem(plan), nil
}

// Delete 存在有效订阅时拒绝删除
func (s *PlanService) Delete(id int64) error {
	now := s.clock.Now().UTC()

	return s.db.Transaction(func(tx *gorm.DB) error {
		plans := s.planRepo.WithTx(tx)
		if _, err := plans.GetByID(id); err != nil {
			return notFound(err, ErrPlanNotFound)
		}

		subs, err := s.subRepo.WithTx(tx).ListByPlan(id)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			if sub.IsActiveAt(now) {
				return ErrPlanInUse
			}
		}

		return plans.Delete(id)
	})
}

func validatePlan(plan *model.SubscriptionPlan) error {
	switch {
	case plan.Name == "":
		return fmt.Errorf("%w: 名称不能为空", ErrInvalidPlan)
	case plan.Price < 0:
		return fmt.Errorf("%w: 价格不能为负", ErrInvalidPlan)
	case plan.DurationDays < 1:
		return fmt.Errorf("%w: 有效期至少 1 天", ErrInvalidPlan)
	case plan.DurationHours < 0 || plan.DurationHours > 24:
		return fmt.Errorf("%w: 每日时长必须在 0 到 24 小时之间", ErrInvalidPlan)
	case plan.ViewsDelivered < 0 || plan.ChatMessagesDelivered < 0:
		return fmt.Errorf("%w: 交付数量不能为负", ErrInvalidPlan)
	}
	return nil
}

func buildPlanItems(plans []*model.SubscriptionPlan) []*dto.PlanItem {
	items := make([]*dto.PlanItem, 0, len(plans))
	for _, p := range plans {
		items = append(items, buildPlanItem(p))
	}
	return items
}
