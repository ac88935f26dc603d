package model

import (
	"time"
)

const (
	StreamStatusScheduled = "scheduled"
	StreamStatusLive      = "live"
	StreamStatusCompleted = "completed"
	StreamStatusCancelled = "cancelled"
)

// PlannedStream 计划直播
type PlannedStream struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	StreamerID        int64     `gorm:"not null;index" json:"streamer_id"`
	Title             string    `gorm:"size:255;not null" json:"title"`
	Description       *string   `gorm:"type:text" json:"description,omitempty"`
	ScheduledStart    time.Time `gorm:"not null;index" json:"scheduled_start"`
	EstimatedDuration int       `gorm:"not null" json:"estimated_duration"` // 分钟
	Status            string    `gorm:"size:20;not null;index" json:"status"`
	WordlistID        *int64    `json:"wordlist_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (PlannedStream) TableName() string {
	return "planned_streams"
}

func (p *PlannedStream) DurationHours() float64 {
	return float64(p.EstimatedDuration) / 60
}

// ScheduledEnd 预计结束时间
func (p *PlannedStream) ScheduledEnd() time.Time {
	return p.ScheduledStart.Add(time.Duration(p.EstimatedDuration) * time.Minute)
}

func (p *PlannedStream) IsScheduled() bool {
	return p.Status == StreamStatusScheduled
}

func (p *PlannedStream) IsLive() bool {
	return p.Status == StreamStatusLive
}

// CountsTowardQuota 取消的直播不占用配额
func (p *PlannedStream) CountsTowardQuota() bool {
	switch p.Status {
	case StreamStatusScheduled, StreamStatusLive, StreamStatusCompleted:
		return true
	}
	return false
}

// IsFrozen live 和 completed 状态不可修改
func (p *PlannedStream) IsFrozen() bool {
	return p.Status == StreamStatusLive || p.Status == StreamStatusCompleted
}

// CanBeStarted 允许提前 earlyStart 开播，对过去的直播不做限制
func (p *PlannedStream) CanBeStarted(now time.Time, earlyStart time.Duration) bool {
	return p.IsScheduled() && !p.ScheduledStart.After(now.Add(earlyStart))
}
