package service

import (
	"time"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func buildStreamItem(s *model.PlannedStream) *dto.StreamItem {
	return &dto.StreamItem{
		ID:                s.ID,
		Title:             s.Title,
		Description:       s.Description,
		ScheduledStart:    formatTime(s.ScheduledStart),
		ScheduledEnd:      formatTime(s.ScheduledEnd()),
		EstimatedDuration: s.EstimatedDuration,
		DurationHours:     roundHours(s.DurationHours()),
		Status:            s.Status,
		WordlistID:        s.WordlistID,
		CreatedAt:         formatTime(s.CreatedAt),
		UpdatedAt:         formatTime(s.UpdatedAt),
	}
}

func buildStreamItems(streams []*model.PlannedStream) []*dto.StreamItem {
	items := make([]*dto.StreamItem, 0, len(streams))
	for _, s := range streams {
		items = append(items, buildStreamItem(s))
	}
	return items
}

func buildPlanItem(p *model.SubscriptionPlan) *dto.PlanItem {
	features := []string(p.Features)
	if features == nil {
		features = []string{}
	}
	return &dto.PlanItem{
		ID:                    p.ID,
		Name:                  p.Name,
		Description:           p.Description,
		Price:                 p.Price,
		DurationDays:          p.DurationDays,
		DurationHours:         p.DurationHours,
		TotalHours:            roundHours(p.TotalMinutes() / 60),
		ViewsDelivered:        p.ViewsDelivered,
		ChatMessagesDelivered: p.ChatMessagesDelivered,
		Features:              features,
		IsActive:              p.IsActive,
		IsMostPopular:         p.IsMostPopular,
	}
}

func buildSubscriptionItem(s *model.Subscription, now time.Time) *dto.SubscriptionItem {
	item := &dto.SubscriptionItem{
		ID:            s.ID,
		StreamerID:    s.StreamerID,
		PlanID:        s.PlanID,
		Amount:        s.Amount,
		StartDate:     formatTime(s.StartDate),
		EndDate:       formatTime(s.EndDate),
		Status:        s.Status,
		AutoRenew:     s.AutoRenew,
		IsActive:      s.IsActiveAt(now),
		RemainingDays: s.RemainingDays(now),
	}
	if s.Plan != nil {
		item.Plan = buildPlanItem(s.Plan)
	}
	return item
}

func buildPaymentItem(p *model.Payment) *dto.PaymentItem {
	item := &dto.PaymentItem{
		ID:             p.ID,
		SubscriptionID: p.SubscriptionID,
		PayeeID:        p.PayeeID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PaymentMethod:  p.PaymentMethod,
		TransactionID:  p.TransactionID,
		Status:         p.Status,
		Description:    p.Description,
		Metadata:       p.Metadata,
		CreatedAt:      formatTime(p.CreatedAt),
	}
	if p.CompletedAt != nil {
		item.CompletedAt = formatTime(*p.CompletedAt)
	}
	return item
}

func buildQuotaUsage(u QuotaUsage) *dto.QuotaUsage {
	item := &dto.QuotaUsage{
		Policy:         u.Policy,
		LimitHours:     u.LimitHours(),
		UsedHours:      u.UsedHours(),
		RemainingHours: u.RemainingHours(),
	}
	if !u.WindowStart.IsZero() {
		item.WindowStart = formatTime(u.WindowStart)
	}
	if !u.WindowEnd.IsZero() {
		item.WindowEnd = formatTime(u.WindowEnd)
	}
	return item
}
