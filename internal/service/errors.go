package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoActiveSubscription   = errors.New("没有有效的订阅")
	ErrQuotaExceeded          = errors.New("直播时长配额不足")
	ErrSchedulingConflict     = errors.New("直播时间冲突")
	ErrInvalidStateTransition = errors.New("当前状态不允许该操作")

	ErrStreamNotFound       = errors.New("直播不存在")
	ErrStreamerNotFound     = errors.New("主播不存在")
	ErrPlanNotFound         = errors.New("套餐不存在")
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrPaymentNotFound      = errors.New("支付记录不存在")

	ErrInvalidStream       = errors.New("直播参数无效")
	ErrInvalidPlan         = errors.New("套餐参数无效")
	ErrInvalidSubscription = errors.New("订阅参数无效")
	ErrInvalidPayment      = errors.New("支付参数无效")
	ErrPlanInUse           = errors.New("套餐存在有效订阅，无法删除")
	ErrDuplicatePayment    = errors.New("交易号已存在")
)

// QuotaExceededError 配额不足的详细信息，单位为小时
type QuotaExceededError struct {
	Policy    string
	Limit     float64
	Used      float64
	Remaining float64
	Requested float64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: 上限 %.2f 小时，已用 %.2f 小时，剩余 %.2f 小时，申请 %.2f 小时",
		ErrQuotaExceeded.Error(), e.Limit, e.Used, e.Remaining, e.Requested)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// ConflictError 与已有直播冲突
type ConflictError struct {
	StreamID       int64
	Title          string
	ScheduledStart time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: 与直播 %q (%s) 冲突",
		ErrSchedulingConflict.Error(), e.Title, e.ScheduledStart.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return ErrSchedulingConflict
}

// StateError 非法状态迁移
type StateError struct {
	StreamID int64
	From     string
	Action   string
	Reason   string
}

func (e *StateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrInvalidStateTransition.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: 直播状态为 %s，无法%s", ErrInvalidStateTransition.Error(), e.From, e.Action)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidStateTransition
}
