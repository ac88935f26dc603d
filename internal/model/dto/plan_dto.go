package dto

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	Name                  string   `json:"name" binding:"required,max=255"`
	Description           string   `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price                 *float64 `json:"price" binding:"required,min=0"`
	DurationDays          int      `json:"duration_days" binding:"required,min=1"`
	DurationHours         *float64 `json:"duration_hours" binding:"required,min=0,max=24"`
	ViewsDelivered        int      `json:"views_delivered" binding:"min=0"`
	ChatMessagesDelivered int      `json:"chat_messages_delivered" binding:"min=0"`
	Features              []string `json:"features,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
	IsMostPopular         bool     `json:"is_most_popular"`
}

// UpdatePlanRequest 更新套餐请求
type UpdatePlanRequest struct {
	Name                  *string   `json:"name,omitempty" binding:"omitempty,max=255"`
	Description           *string   `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price                 *float64  `json:"price,omitempty" binding:"omitempty,min=0"`
	DurationDays          *int      `json:"duration_days,omitempty" binding:"omitempty,min=1"`
	DurationHours         *float64  `json:"duration_hours,omitempty" binding:"omitempty,min=0,max=24"`
	ViewsDelivered        *int      `json:"views_delivered,omitempty" binding:"omitempty,min=0"`
	ChatMessagesDelivered *int      `json:"chat_messages_delivered,omitempty" binding:"omitempty,min=0"`
	Features              *[]string `json:"features,omitempty"`
	IsActive              *bool     `json:"is_active,omitempty"`
	IsMostPopular         *bool     `json:"is_most_popular,omitempty"`
}

// PlanItem 套餐信息
type PlanItem struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Price                 float64  `json:"price"`
	DurationDays          int      `json:"duration_days"`
	DurationHours         float64  `json:"duration_hours"`
	TotalHours            float64  `json:"total_hours"`
	ViewsDelivered        int      `json:"views_delivered"`
	ChatMessagesDelivered int      `json:"chat_messages_delivered"`
	Features              []string `json:"features"`
	IsActive              bool     `json:"is_active"`
	IsMostPopular         bool     `json:"is_most_popular"`
}
