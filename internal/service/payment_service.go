package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
)

var ErrInvalidPaymentState = errors.New("支付状态不允许该操作")

// PaymentService 支付记录，完成的支付会触发订阅激活
type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	subRepo     *repository.SubscriptionRepository
	clock       clockwork.Clock
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	subRepo *repository.SubscriptionRepository,
	clock clockwork.Clock,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		clock:       clock,
	}
}

// Record 记录一笔支付
func (s *PaymentService) Record(req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	switch req.Status {
	case model.PaymentStatusPending, model.PaymentStatusCompleted, model.PaymentStatusFailed:
	default:
		return nil, fmt.Errorf("%w: 未知状态 %s", ErrInvalidPayment, req.Status)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: 金额必须大于 0", ErrInvalidPayment)
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return nil, fmt.Errorf("%w: 交易号不能为空", ErrInvalidPayment)
	}

	now := s.clock.Now().UTC()
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	payment := &model.Payment{
		SubscriptionID: req.SubscriptionID,
		PayeeID:        req.PayeeID,
		Amount:         req.Amount,
		Currency:       currency,
		PaymentMethod:  req.PaymentMethod,
		TransactionID:  req.TransactionID,
		Status:         req.Status,
		Description:    req.Description,
		Metadata:       req.Metadata,
	}
	if payment.IsCompleted() {
		payment.CompletedAt = &now
	}

	resp := &dto.RecordPaymentResponse{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)

		if _, err := payments.GetByTransactionID(payment.TransactionID); err == nil {
			return ErrDuplicatePayment
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if payment.SubscriptionID != nil {
			sub, err := s.subRepo.WithTx(tx).GetByID(*payment.SubscriptionID)
			if err != nil {
				return notFound(err, ErrSubscriptionNotFound)
			}
			if sub.StreamerID != payment.PayeeID {
				return fmt.Errorf("%w: 订阅不属于该付款人", ErrInvalidPayment)
			}
		}

		if err := payments.Create(payment); err != nil {
			return err
		}
		return s.activate(tx, payment, now, resp)
	})
	if err != nil {
		return nil, err
	}

	resp.Payment = buildPaymentItem(payment)
	return resp, nil
}

// Complete 将待处理支付标记为完成
func (s *PaymentService) Complete(id int64) (*dto.RecordPaymentResponse, error) {
	now := s.clock.Now().UTC()
	resp := &dto.RecordPaymentResponse{}

	var payment *model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)

		var err error
		payment, err = payments.GetByID(id)
		if err != nil {
			return notFound(err, ErrPaymentNotFound)
		}
		if payment.Status != model.PaymentStatusPending {
			return ErrInvalidPaymentState
		}

		payment.Status = model.PaymentStatusCompleted
		payment.CompletedAt = &now
		if err := payments.Update(payment); err != nil {
			return err
		}
		return s.activate(tx, payment, now, resp)
	})
	if err != nil {
		return nil, err
	}

	resp.Payment = buildPaymentItem(payment)
	return resp, nil
}

// Refund 已完成的支付退款，不影响订阅状态
func (s *PaymentService) Refund(id int64) (*dto.PaymentItem, error) {
	return s.transition(id, model.PaymentStatusCompleted, model.PaymentStatusRefunded)
}

// Retry 失败的支付重新置为待处理
func (s *PaymentService) Retry(id int64) (*dto.PaymentItem, error) {
	return s.transition(id, model.PaymentStatusFailed, model.PaymentStatusPending)
}

// ListByPayee 付款人的支付记录
func (s *PaymentService) ListByPayee(payeeID int64) ([]*dto.PaymentItem, error) {
	payments, err := s.paymentRepo.ListByPayee(payeeID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, buildPaymentItem(p))
	}
	return items, nil
}

func (s *PaymentService) transition(id int64, from, to string) (*dto.PaymentItem, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, ErrPaymentNotFound)
	}
	if payment.Status != from {
		return nil, ErrInvalidPaymentState
	}

	payment.Status = to
	if to == model.PaymentStatusPending {
		payment.CompletedAt = nil
	}
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return buildPaymentItem(payment), nil
}

// activate 支付完成后重新计算订阅状态
func (s *PaymentService) activate(tx *gorm.DB, payment *model.Payment, now time.Time, resp *dto.RecordPaymentResponse) error {
	if !payment.IsCompleted() || payment.SubscriptionID == nil {
		return nil
	}

	subs := s.subRepo.WithTx(tx)
	sub, err := subs.GetByID(*payment.SubscriptionID)
	if err != nil {
		return notFound(err, ErrSubscriptionNotFound)
	}

	history, err := s.paymentRepo.WithTx(tx).ListBySubscription(sub.ID)
	if err != nil {
		return err
	}

	next, activated := ReduceActivation(sub, sub.Plan, history, now)
	if activated {
		if err := subs.Update(next); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"subscription_id": next.ID,
			"streamer_id":     next.StreamerID,
			"payment_id":      payment.ID,
		}).Info("subscription activated")
	}

	resp.Activated = activated
	resp.Subscription = buildSubscriptionItem(next, now)
	return nil
}
