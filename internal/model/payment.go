package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type Payment struct {
	ID             int64             `gorm:"primaryKey" json:"id"`
	SubscriptionID *int64            `gorm:"index" json:"subscription_id,omitempty"`
	PayeeID        int64             `gorm:"not null;index" json:"payee_id"` // 主播 ID
	Amount         float64           `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency       string            `gorm:"size:3" json:"currency"`
	PaymentMethod  string            `gorm:"size:50;not null" json:"payment_method"`
	TransactionID  string            `gorm:"size:255;not null;uniqueIndex" json:"transaction_id"`
	Status         string            `gorm:"size:20;not null;index" json:"status"`
	Description    string            `gorm:"type:text" json:"description,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
