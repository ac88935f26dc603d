package dto

// RegisterStreamerRequest 创建主播档案请求
type RegisterStreamerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

// StreamerProfile 主播档案
type StreamerProfile struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Username        string            `json:"username"`
	FullName        string            `json:"full_name"`
	CurrentStreamID *int64            `json:"current_stream_id"`
	Subscription    *SubscriptionItem `json:"subscription,omitempty"`
	CreatedAt       string            `json:"created_at"`
}
