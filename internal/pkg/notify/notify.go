package notify

import (
	"context"
	"time"
)

// StreamerInfo 通知中的主播信息
type StreamerInfo struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PlanInfo 通知中的套餐信息（每日额度）
type PlanInfo struct {
	Name        string  `json:"name"`
	ViewsPerDay int     `json:"views_per_day"`
	ChatsPerDay int     `json:"chats_per_day"`
	HoursPerDay float64 `json:"hours_per_day"`
}

// StreamInfo 通知中的计划直播
type StreamInfo struct {
	Title          string    `json:"title"`
	ScheduledStart time.Time `json:"scheduled_start"`
	DurationHours  float64   `json:"duration_hours"` // 保留一位小数
}

// Message 主播排期通知
type Message struct {
	ID        string       `json:"id"`
	Streamer  StreamerInfo `json:"streamer"`
	Plan      PlanInfo     `json:"plan"`
	Streams   []StreamInfo `json:"streams"`
	CreatedAt time.Time    `json:"created_at"`
}

// Notifier 通知投递，调用方不依赖投递结果
type Notifier interface {
	Notify(ctx context.Context, msg *Message) error
}

// NopNotifier 未配置通知渠道时使用
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, *Message) error {
	return nil
}
