package dto

import "time"

// QuotaUsage 某一核算窗口内的配额使用情况
type QuotaUsage struct {
	Policy         string  `json:"policy"`
	LimitHours     float64 `json:"limit_hours"`
	UsedHours      float64 `json:"used_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	WindowStart    string  `json:"window_start,omitempty"`
	WindowEnd      string  `json:"window_end,omitempty"`
}

// DailyStatsResponse 单日直播统计
type DailyStatsResponse struct {
	Date            string        `json:"date"`
	DailyLimitHours float64       `json:"daily_limit_hours"`
	UsedHours       float64       `json:"used_hours"`
	RemainingHours  float64       `json:"remaining_hours"`
	Streams         []*StreamItem `json:"streams"`
}

// RangeStatsResponse 区间直播统计
type RangeStatsResponse struct {
	From           string             `json:"from"`
	To             string             `json:"to"`
	TotalStreams   int                `json:"total_streams"`
	TotalHours     float64            `json:"total_hours"`
	CountsByStatus map[string]int     `json:"counts_by_status"`
	HoursByDate    map[string]float64 `json:"hours_by_date"`
}

// UnusedHoursResponse 订阅到期时未使用的时长
type UnusedHoursResponse struct {
	SubscriptionID *int64  `json:"subscription_id,omitempty"`
	Expired        bool    `json:"expired"`
	UnusedHours    float64 `json:"unused_hours"`
}

// QuotaOverviewResponse 配额总览
type QuotaOverviewResponse struct {
	HasActiveSubscription bool              `json:"has_active_subscription"`
	Policy                string            `json:"policy"`
	Subscription          *SubscriptionItem `json:"subscription,omitempty"`
	Today                 *QuotaUsage       `json:"today"`
	Period                *QuotaUsage       `json:"period"`
}

// QuotaCheckQuery 配额预检参数
type QuotaCheckQuery struct {
	Start    time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Duration int       `form:"duration" binding:"required,min=1,max=480"` // 分钟
}

// StatsQuery 统计查询参数，日期格式 2006-01-02
type StatsQuery struct {
	Date string `form:"date"`
	From string `form:"from"`
	To   string `form:"to"`
}
