package service

import (
	"time"

	"github.com/qs3c/boost_stream_server/internal/model"
)

// paymentEpsilon 金额比较容差
const paymentEpsilon = 1e-6

// CompletedTotal 已完成支付的合计金额
func CompletedTotal(payments []*model.Payment) float64 {
	total := 0.0
	for _, p := range payments {
		if p.IsCompleted() {
			total += p.Amount
		}
	}
	return total
}

// ReduceActivation 根据支付历史计算订阅的新状态。
// 已激活的订阅不变；已完成支付合计达到套餐价格时激活，有效期从 now 起算。
// 返回的订阅为副本，第二个返回值表示本次是否发生激活
func ReduceActivation(sub *model.Subscription, plan *model.SubscriptionPlan, payments []*model.Payment, now time.Time) (*model.Subscription, bool) {
	next := *sub
	if sub.Status == model.SubscriptionStatusActive || plan == nil {
		return &next, false
	}

	if CompletedTotal(payments)+paymentEpsilon < plan.Price {
		return &next, false
	}

	next.Status = model.SubscriptionStatusActive
	next.StartDate = now
	next.EndDate = now.AddDate(0, 0, plan.DurationDays)
	return &next, true
}
