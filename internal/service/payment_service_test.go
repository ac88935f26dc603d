package service

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
	"github.com/qs3c/boost_stream_server/internal/testutil"
)

func setupPaymentService(t *testing.T) (*PaymentService, *gorm.DB, clockwork.FakeClock, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clock := clockwork.NewFakeClockAt(testNow)
	svc := NewPaymentService(db,
		repository.NewPaymentRepository(db),
		repository.NewSubscriptionRepository(db),
		clock,
	)
	return svc, db, clock, func() { testutil.CleanupTestDB(t, db) }
}

func paymentReq(payeeID int64, subID *int64, amount float64, txn, status string) *dto.RecordPaymentRequest {
	return &dto.RecordPaymentRequest{
		SubscriptionID: subID,
		PayeeID:        payeeID,
		Amount:         amount,
		PaymentMethod:  "card",
		TransactionID:  txn,
		Status:         status,
	}
}

func TestPaymentService_ActivatesAfterCumulativePayments(t *testing.T) {
	svc, db, clock, cleanup := setupPaymentService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db, testutil.WithPlanPrice(200), testutil.WithPlanDays(30))
	s := testutil.TestStreamer(t, db)
	sub := testutil.TestSubscription(t, db, s.ID, p, testNow,
		testutil.WithSubscriptionStatus(model.SubscriptionStatusPending))

	first, err := svc.Record(paymentReq(s.ID, &sub.ID, 100, "txn_1", model.PaymentStatusCompleted))
	require.NoError(t, err)
	assert.False(t, first.Activated)
	require.NotNil(t, first.Subscription)
	assert.Equal(t, model.SubscriptionStatusPending, first.Subscription.Status)
	assert.Equal(t, "USD", first.Payment.Currency)
	assert.NotEmpty(t, first.Payment.CompletedAt)

	clock.Advance(2 * time.Hour)
	activationTime := testNow.Add(2 * time.Hour)

	second, err := svc.Record(paymentReq(s.ID, &sub.ID, 100, "txn_2", model.PaymentStatusCompleted))
	require.NoError(t, err)
	assert.True(t, second.Activated)
	assert.Equal(t, model.SubscriptionStatusActive, second.Subscription.Status)

	stored, err := repository.NewSubscriptionRepository(db).GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, stored.Status)
	assert.True(t, stored.StartDate.Equal(activationTime))
	assert.True(t, stored.EndDate.Equal(activationTime.AddDate(0, 0, 30)))

	// 激活后再付款不改变有效期
	clock.Advance(time.Hour)
	third, err := svc.Record(paymentReq(s.ID, &sub.ID, 50, "txn_3", model.PaymentStatusCompleted))
	require.NoError(t, err)
	assert.False(t, third.Activated)

	stored, err = repository.NewSubscriptionRepository(db).GetByID(sub.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartDate.Equal(activationTime))
}

func TestPaymentService_PendingPaymentCompletesLater(t *testing.T) {
	svc, db, _, cleanup := setupPaymentService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db, testutil.WithPlanPrice(50))
	s := testutil.TestStreamer(t, db)
	sub := testutil.TestSubscription(t, db, s.ID, p, testNow,
		testutil.WithSubscriptionStatus(model.SubscriptionStatusPending))

	recorded, err := svc.Record(paymentReq(s.ID, &sub.ID, 50, "txn_pending", model.PaymentStatusPending))
	require.NoError(t, err)
	assert.False(t, recorded.Activated)
	assert.Nil(t, recorded.Subscription)
	assert.Empty(t, recorded.Payment.CompletedAt)

	completed, err := svc.Complete(recorded.Payment.ID)
	require.NoError(t, err)
	assert.True(t, completed.Activated)
	assert.Equal(t, model.PaymentStatusCompleted, completed.Payment.Status)

	_, err = svc.Complete(recorded.Payment.ID)
	assert.ErrorIs(t, err, ErrInvalidPaymentState)
}

func TestPaymentService_Record_Validation(t *testing.T) {
	svc, db, _, cleanup := setupPaymentService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db)
	owner := testutil.TestStreamer(t, db)
	other := testutil.TestStreamer(t, db)
	sub := testutil.TestSubscription(t, db, owner.ID, p, testNow)

	_, err := svc.Record(paymentReq(owner.ID, nil, 10, "dup", model.PaymentStatusCompleted))
	require.NoError(t, err)

	_, err = svc.Record(paymentReq(owner.ID, nil, 10, "dup", model.PaymentStatusCompleted))
	assert.ErrorIs(t, err, ErrDuplicatePayment)

	_, err = svc.Record(paymentReq(other.ID, &sub.ID, 10, "wrong_payee", model.PaymentStatusCompleted))
	assert.ErrorIs(t, err, ErrInvalidPayment)

	missing := int64(99999)
	_, err = svc.Record(paymentReq(owner.ID, &missing, 10, "missing_sub", model.PaymentStatusCompleted))
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	_, err = svc.Record(paymentReq(owner.ID, nil, 10, "refunded", model.PaymentStatusRefunded))
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = svc.Record(paymentReq(owner.ID, nil, 0, "zero", model.PaymentStatusCompleted))
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestPaymentService_RefundAndRetry(t *testing.T) {
	svc, db, _, cleanup := setupPaymentService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db, testutil.WithPlanPrice(10))
	s := testutil.TestStreamer(t, db)
	sub := testutil.TestSubscription(t, db, s.ID, p, testNow,
		testutil.WithSubscriptionStatus(model.SubscriptionStatusPending))

	paid, err := svc.Record(paymentReq(s.ID, &sub.ID, 10, "txn_paid", model.PaymentStatusCompleted))
	require.NoError(t, err)
	require.True(t, paid.Activated)

	refunded, err := svc.Refund(paid.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.Status)

	// 退款不回退订阅状态
	stored, err := repository.NewSubscriptionRepository(db).GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, stored.Status)

	_, err = svc.Refund(paid.Payment.ID)
	assert.ErrorIs(t, err, ErrInvalidPaymentState)

	failed, err := svc.Record(paymentReq(s.ID, nil, 10, "txn_failed", model.PaymentStatusFailed))
	require.NoError(t, err)

	retried, err := svc.Retry(failed.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, retried.Status)

	_, err = svc.Retry(99999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	items, err := svc.ListByPayee(s.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
