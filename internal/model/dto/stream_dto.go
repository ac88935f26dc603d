package dto

import "time"

// CreateStreamRequest 创建计划直播请求
type CreateStreamRequest struct {
	Title             string    `json:"title" binding:"required,max=255"`
	Description       *string   `json:"description,omitempty" binding:"omitempty,max=2000"`
	ScheduledStart    time.Time `json:"scheduled_start" binding:"required"`
	EstimatedDuration int       `json:"estimated_duration" binding:"required,min=1,max=480"` // 分钟
	WordlistID        *int64    `json:"wordlist_id,omitempty"`
}

// UpdateStreamRequest 更新计划直播请求，未传字段保持原值
type UpdateStreamRequest struct {
	Title             *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description       *string    `json:"description,omitempty" binding:"omitempty,max=2000"`
	ScheduledStart    *time.Time `json:"scheduled_start,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty" binding:"omitempty,min=1,max=480"`
	Status            *string    `json:"status,omitempty" binding:"omitempty,oneof=scheduled cancelled"`
	WordlistID        *int64     `json:"wordlist_id,omitempty"`
}

// StreamItem 直播信息
type StreamItem struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Description       *string `json:"description,omitempty"`
	ScheduledStart    string  `json:"scheduled_start"`
	ScheduledEnd      string  `json:"scheduled_end"`
	EstimatedDuration int     `json:"estimated_duration"`
	DurationHours     float64 `json:"duration_hours"`
	Status            string  `json:"status"`
	WordlistID        *int64  `json:"wordlist_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// StreamMutationResponse 创建/更新直播响应，附带配额使用情况
type StreamMutationResponse struct {
	Stream *StreamItem `json:"stream"`
	Quota  *QuotaUsage `json:"quota"`
}

// StreamListResponse 直播列表响应
type StreamListResponse struct {
	Streams               []*StreamItem `json:"streams"`
	DailyLimitHours       float64       `json:"daily_limit_hours"`
	HasActiveSubscription bool          `json:"has_active_subscription"`
	CurrentStreamID       *int64        `json:"current_stream_id"`
}
