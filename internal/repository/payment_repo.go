package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByTransactionID(transactionID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepository) ListBySubscription(subscriptionID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("id ASC").Find(&payments).Error
	return payments, err
}

// ListByPayee 主播的支付记录，最新在前
func (r *PaymentRepository) ListByPayee(payeeID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("payee_id = ?", payeeID).Order("created_at DESC").Order("id DESC").Find(&payments).Error
	return payments, err
}
