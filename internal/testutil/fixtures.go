package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestPlan 创建测试套餐（默认 Basic：每日 2 小时，30 天）
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.SubscriptionPlan)) *model.SubscriptionPlan {
	t.Helper()

	plan := &model.SubscriptionPlan{
		Name:                  fmt.Sprintf("Plan %d", nextSeq()),
		Description:           "test plan",
		Price:                 9.99,
		DurationDays:          30,
		DurationHours:         2,
		ViewsDelivered:        1000,
		ChatMessagesDelivered: 500,
		Features:              []string{"2 hours streaming per day"},
		IsActive:              true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanHours 设置每日小时数
func WithPlanHours(hours float64) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.DurationHours = hours
	}
}

// WithPlanDays 设置有效期天数
func WithPlanDays(days int) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.DurationDays = days
	}
}

// WithPlanPrice 设置价格
func WithPlanPrice(price float64) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.Price = price
	}
}

// WithPlanName 设置套餐名
func WithPlanName(name string) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.Name = name
	}
}

// WithMostPopular 设置最受欢迎标记
func WithMostPopular() func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.IsMostPopular = true
	}
}

// WithPlanInactive 设置为下架
func WithPlanInactive() func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.IsActive = false
	}
}

// TestStreamer 创建测试主播
func TestStreamer(t *testing.T, db *gorm.DB, opts ...func(*model.Streamer)) *model.Streamer {
	t.Helper()

	n := nextSeq()
	streamer := &model.Streamer{
		UserID:   n,
		Username: fmt.Sprintf("streamer_%d", n),
		FullName: fmt.Sprintf("Streamer %d", n),
	}

	for _, opt := range opts {
		opt(streamer)
	}

	if err := db.Create(streamer).Error; err != nil {
		t.Fatalf("Failed to create test streamer: %v", err)
	}

	return streamer
}

// WithUserID 设置关联的用户 ID
func WithUserID(userID int64) func(*model.Streamer) {
	return func(s *model.Streamer) {
		s.UserID = userID
	}
}

// WithStreamerUsername 设置用户名
func WithStreamerUsername(username string) func(*model.Streamer) {
	return func(s *model.Streamer) {
		s.Username = username
	}
}

// TestSubscription 创建测试订阅，默认从 now 前一天起生效
func TestSubscription(t *testing.T, db *gorm.DB, streamerID int64, plan *model.SubscriptionPlan, now time.Time, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	start := now.Add(-24 * time.Hour)
	sub := &model.Subscription{
		StreamerID: streamerID,
		PlanID:     plan.ID,
		Amount:     plan.Price,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, plan.DurationDays),
		Status:     model.SubscriptionStatusActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithSubscriptionStatus 设置订阅状态
func WithSubscriptionStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithWindow 设置订阅起止时间
func WithWindow(start, end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartDate = start
		s.EndDate = end
	}
}

// TestStream 创建测试直播
func TestStream(t *testing.T, db *gorm.DB, streamerID int64, start time.Time, minutes int, opts ...func(*model.PlannedStream)) *model.PlannedStream {
	t.Helper()

	stream := &model.PlannedStream{
		StreamerID:        streamerID,
		Title:             fmt.Sprintf("Stream %d", nextSeq()),
		ScheduledStart:    start.UTC(),
		EstimatedDuration: minutes,
		Status:            model.StreamStatusScheduled,
	}

	for _, opt := range opts {
		opt(stream)
	}

	if err := db.Create(stream).Error; err != nil {
		t.Fatalf("Failed to create test stream: %v", err)
	}

	return stream
}

// WithStreamStatus 设置直播状态
func WithStreamStatus(status string) func(*model.PlannedStream) {
	return func(s *model.PlannedStream) {
		s.Status = status
	}
}

// WithStreamTitle 设置直播标题
func WithStreamTitle(title string) func(*model.PlannedStream) {
	return func(s *model.PlannedStream) {
		s.Title = title
	}
}

// TestPayment 创建测试支付记录
func TestPayment(t *testing.T, db *gorm.DB, payeeID int64, subscriptionID *int64, amount float64, status string) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		SubscriptionID: subscriptionID,
		PayeeID:        payeeID,
		Amount:         amount,
		Currency:       "USD",
		PaymentMethod:  "card",
		TransactionID:  fmt.Sprintf("txn_%d", nextSeq()),
		Status:         status,
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}
