package model

import (
	"time"
)

const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

type Subscription struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	StreamerID int64     `gorm:"not null;index" json:"streamer_id"`
	PlanID     int64     `gorm:"not null;index" json:"plan_id"`
	Amount     float64   `gorm:"type:decimal(10,2)" json:"amount"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null;index" json:"end_date"`
	Status     string    `gorm:"size:20;not null;index" json:"status"` // pending, active, canceled, expired
	AutoRenew  bool      `gorm:"not null" json:"auto_renew"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActiveAt 状态为 active 且未过期
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate.After(now)
}

// IsExpiredAt 结束时间已到
func (s *Subscription) IsExpiredAt(now time.Time) bool {
	return !s.EndDate.After(now)
}

// RemainingDays 剩余整天数
func (s *Subscription) RemainingDays(now time.Time) int {
	if s.IsExpiredAt(now) {
		return 0
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}
