package model

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionPlan 订阅套餐
type SubscriptionPlan struct {
	ID                    int64                       `gorm:"primaryKey" json:"id"`
	Name                  string                      `gorm:"size:255;not null" json:"name"`
	Description           string                      `gorm:"type:text" json:"description"`
	Price                 float64                     `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationDays          int                         `gorm:"not null" json:"duration_days"`                    // 有效期天数
	DurationHours         float64                     `gorm:"type:decimal(8,2);not null" json:"duration_hours"` // 每日可直播小时数
	ViewsDelivered        int                         `gorm:"not null" json:"views_delivered"`                  // 仅展示
	ChatMessagesDelivered int                         `gorm:"not null" json:"chat_messages_delivered"`          // 仅展示
	Features              datatypes.JSONSlice[string] `json:"features"`
	IsActive              bool                        `gorm:"not null;index" json:"is_active"`
	IsMostPopular         bool                        `gorm:"not null;index" json:"is_most_popular"` // 全局最多一个
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// TotalMinutes 整个订阅周期可用的分钟数
func (p *SubscriptionPlan) TotalMinutes() float64 {
	return float64(p.DurationDays) * p.DurationHours * 60
}
