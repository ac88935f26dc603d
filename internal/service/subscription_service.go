package service

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
)

type SubscriptionService struct {
	db           *gorm.DB
	subRepo      *repository.SubscriptionRepository
	planRepo     *repository.PlanRepository
	streamerRepo *repository.StreamerRepository
	clock        clockwork.Clock
}

func NewSubscriptionService(
	db *gorm.DB,
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	streamerRepo *repository.StreamerRepository,
	clock clockwork.Clock,
) *SubscriptionService {
	return &SubscriptionService{
		db:           db,
		subRepo:      subRepo,
		planRepo:     planRepo,
		streamerRepo: streamerRepo,
		clock:        clock,
	}
}

// SelectPlan 选择套餐或提交自定义套餐，生成待支付订阅。
// 暂定有效期从次日开始，支付完成激活时重新计算
func (s *SubscriptionService) SelectPlan(streamerID int64, req *dto.SelectPlanRequest) (*dto.SubscriptionItem, error) {
	if (req.PlanID == nil) == (req.Custom == nil) {
		return nil, fmt.Errorf("%w: plan_id 与 custom 必须且只能提供一个", ErrInvalidSubscription)
	}

	now := s.clock.Now().UTC()
	var sub *model.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		streamer, err := s.streamerRepo.WithTx(tx).GetByID(streamerID)
		if err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		plans := s.planRepo.WithTx(tx)
		var plan *model.SubscriptionPlan
		if req.PlanID != nil {
			plan, err = plans.GetByID(*req.PlanID)
			if err != nil {
				return notFound(err, ErrPlanNotFound)
			}
			if !plan.IsActive {
				return ErrPlanNotFound
			}
		} else {
			plan = &model.SubscriptionPlan{
				Name:                  "Custom Plan for " + streamer.Username,
				Description:           req.Custom.Description,
				Price:                 req.Custom.Price,
				DurationDays:          req.Custom.DurationDays,
				DurationHours:         req.Custom.DurationHours,
				ViewsDelivered:        req.Custom.ViewsDelivered,
				ChatMessagesDelivered: req.Custom.ChatMessagesDelivered,
				Features:              []string{},
			}
			if err := validatePlan(plan); err != nil {
				return err
			}
			if err := plans.Create(plan); err != nil {
				return err
			}
		}

		start := now.AddDate(0, 0, 1)
		sub = &model.Subscription{
			StreamerID: streamerID,
			PlanID:     plan.ID,
			Amount:     plan.Price,
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, plan.DurationDays),
			Status:     model.SubscriptionStatusPending,
			AutoRenew:  req.AutoRenew,
		}
		if err := s.subRepo.WithTx(tx).Create(sub); err != nil {
			return err
		}
		sub.Plan = plan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildSubscriptionItem(sub, now), nil
}

// List 主播的全部订阅
func (s *SubscriptionService) List(streamerID int64) ([]*dto.SubscriptionItem, error) {
	now := s.clock.Now().UTC()
	subs, err := s.subRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, buildSubscriptionItem(sub, now))
	}
	return items, nil
}

// Active 当前有效订阅，没有时返回 nil
func (s *SubscriptionService) Active(streamerID int64) (*dto.SubscriptionItem, error) {
	now := s.clock.Now().UTC()
	subs, err := s.subRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, err
	}

	active := ActiveSubscription(subs, now)
	if active == nil {
		return nil, nil
	}
	return buildSubscriptionItem(active, now), nil
}

func (s *SubscriptionService) Get(id int64) (*dto.SubscriptionItem, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}
	return buildSubscriptionItem(sub, s.clock.Now().UTC()), nil
}

// AdminUpdate 管理员修改订阅状态与有效期
func (s *SubscriptionService) AdminUpdate(id int64, req *dto.AdminUpdateSubscriptionRequest) (*dto.SubscriptionItem, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}

	if req.Status != nil {
		switch *req.Status {
		case model.SubscriptionStatusPending, model.SubscriptionStatusActive,
			model.SubscriptionStatusCanceled, model.SubscriptionStatusExpired:
			sub.Status = *req.Status
		default:
			return nil, fmt.Errorf("%w: 未知状态 %s", ErrInvalidSubscription, *req.Status)
		}
	}
	if req.StartDate != nil {
		sub.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		sub.EndDate = req.EndDate.UTC()
	}
	if req.AutoRenew != nil {
		sub.AutoRenew = *req.AutoRenew
	}
	if !sub.EndDate.After(sub.StartDate) {
		return nil, fmt.Errorf("%w: 结束时间必须晚于开始时间", ErrInvalidSubscription)
	}

	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}
	return buildSubscriptionItem(sub, s.clock.Now().UTC()), nil
}

// ExpireElapsed 将已到期的 active 订阅标记为 expired，返回处理数量
func (s *SubscriptionService) ExpireElapsed() (int64, error) {
	ids, err := s.ElapsedActiveIDs()
	if err != nil {
		return 0, err
	}
	return s.subRepo.UpdateStatus(ids, model.SubscriptionStatusExpired)
}

// ElapsedActiveIDs 状态仍为 active 但已过 endDate 的订阅
func (s *SubscriptionService) ElapsedActiveIDs() ([]int64, error) {
	now := s.clock.Now().UTC()
	subs, err := s.subRepo.ListByStatus(model.SubscriptionStatusActive)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0)
	for _, sub := range subs {
		if sub.IsExpiredAt(now) {
			ids = append(ids, sub.ID)
		}
	}
	return ids, nil
}
