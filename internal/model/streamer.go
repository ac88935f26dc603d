package model

import (
	"time"
)

type Streamer struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	UserID          int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Username        string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	FullName        string    `gorm:"size:255;not null" json:"full_name"`
	CurrentStreamID *int64    `json:"current_stream_id"` // 弱引用，只能指向 live 直播或为空
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Streamer) TableName() string {
	return "streamers"
}
