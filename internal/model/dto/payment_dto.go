package dto

// RecordPaymentRequest 记录支付请求
type RecordPaymentRequest struct {
	SubscriptionID *int64                 `json:"subscription_id,omitempty"`
	PayeeID        int64                  `json:"payee_id" binding:"required"`
	Amount         float64                `json:"amount" binding:"required,gt=0"`
	Currency       string                 `json:"currency,omitempty" binding:"omitempty,len=3"`
	PaymentMethod  string                 `json:"payment_method" binding:"required,max=50"`
	TransactionID  string                 `json:"transaction_id" binding:"required,max=255"`
	Status         string                 `json:"status" binding:"required,oneof=pending completed failed"`
	Description    string                 `json:"description,omitempty" binding:"omitempty,max=2000"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// PaymentItem 支付信息
type PaymentItem struct {
	ID             int64                  `json:"id"`
	SubscriptionID *int64                 `json:"subscription_id,omitempty"`
	PayeeID        int64                  `json:"payee_id"`
	Amount         float64                `json:"amount"`
	Currency       string                 `json:"currency"`
	PaymentMethod  string                 `json:"payment_method"`
	TransactionID  string                 `json:"transaction_id"`
	Status         string                 `json:"status"`
	Description    string                 `json:"description,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CompletedAt    string                 `json:"completed_at,omitempty"`
	CreatedAt      string                 `json:"created_at"`
}

// RecordPaymentResponse 记录支付响应
type RecordPaymentResponse struct {
	Payment      *PaymentItem      `json:"payment"`
	Subscription *SubscriptionItem `json:"subscription,omitempty"`
	Activated    bool              `json:"activated"`
}
