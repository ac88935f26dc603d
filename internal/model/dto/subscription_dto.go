package dto

import "time"

// CustomPlanRequest 自定义套餐参数
type CustomPlanRequest struct {
	Price                 float64 `json:"price" binding:"min=0"`
	DurationDays          int     `json:"duration_days" binding:"required,min=1"`
	DurationHours         float64 `json:"duration_hours" binding:"required,gt=0,max=24"`
	ViewsDelivered        int     `json:"views_delivered" binding:"min=0"`
	ChatMessagesDelivered int     `json:"chat_messages_delivered" binding:"min=0"`
	Description           string  `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// SelectPlanRequest 选择套餐请求，plan_id 与 custom 二选一
type SelectPlanRequest struct {
	PlanID    *int64             `json:"plan_id,omitempty"`
	Custom    *CustomPlanRequest `json:"custom,omitempty"`
	AutoRenew bool               `json:"auto_renew"`
}

// AdminUpdateSubscriptionRequest 管理员修改订阅
type AdminUpdateSubscriptionRequest struct {
	Status    *string    `json:"status,omitempty" binding:"omitempty,oneof=pending active canceled expired"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	AutoRenew *bool      `json:"auto_renew,omitempty"`
}

// SubscriptionItem 订阅信息
type SubscriptionItem struct {
	ID            int64     `json:"id"`
	StreamerID    int64     `json:"streamer_id"`
	PlanID        int64     `json:"plan_id"`
	Amount        float64   `json:"amount"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Status        string    `json:"status"`
	AutoRenew     bool      `json:"auto_renew"`
	IsActive      bool      `json:"is_active"`
	RemainingDays int       `json:"remaining_days"`
	Plan          *PlanItem `json:"plan,omitempty"`
}
