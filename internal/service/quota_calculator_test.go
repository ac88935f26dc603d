package service

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/model"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func plan(hours float64, days int) *model.SubscriptionPlan {
	return &model.SubscriptionPlan{ID: 1, Name: "Test", DurationHours: hours, DurationDays: days}
}

func activeSub(p *model.SubscriptionPlan, start, end time.Time) *model.Subscription {
	return &model.Subscription{
		ID:        1,
		PlanID:    p.ID,
		StartDate: start,
		EndDate:   end,
		Status:    model.SubscriptionStatusActive,
		Plan:      p,
	}
}

func stream(id int64, start time.Time, minutes int, status string) *model.PlannedStream {
	return &model.PlannedStream{
		ID:                id,
		Title:             "stream",
		ScheduledStart:    start,
		EstimatedDuration: minutes,
		Status:            status,
	}
}

func TestNewQuotaCalculator_Defaults(t *testing.T) {
	c := NewQuotaCalculator(&config.QuotaConfig{Policy: "weekly", Timezone: "Not/AZone"})

	assert.Equal(t, config.QuotaPolicyDaily, c.Policy())
	assert.Equal(t, time.UTC, c.Location())

	c = NewQuotaCalculator(&config.QuotaConfig{Policy: config.QuotaPolicyPeriod})
	assert.Equal(t, config.QuotaPolicyPeriod, c.Policy())
}

func TestActiveSubscription(t *testing.T) {
	p := plan(2, 30)

	t.Run("latest end date wins", func(t *testing.T) {
		a := activeSub(p, testNow.AddDate(0, 0, -5), testNow.AddDate(0, 0, 5))
		b := activeSub(p, testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 20))
		b.ID = 2

		got := ActiveSubscription([]*model.Subscription{a, b}, testNow)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.ID)
	})

	t.Run("pending and elapsed are ignored", func(t *testing.T) {
		pending := activeSub(p, testNow, testNow.AddDate(0, 0, 30))
		pending.Status = model.SubscriptionStatusPending
		elapsed := activeSub(p, testNow.AddDate(0, 0, -30), testNow)

		assert.Nil(t, ActiveSubscription([]*model.Subscription{pending, elapsed}, testNow))
	})

	t.Run("no subscription means zero limit", func(t *testing.T) {
		assert.Equal(t, 0.0, DailyLimitHours(nil))
	})
}

func TestQuotaCalculator_DailyUsage(t *testing.T) {
	c := NewQuotaCalculator(&config.QuotaConfig{Policy: config.QuotaPolicyDaily, Timezone: "UTC"})
	sub := activeSub(plan(5, 30), testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 29))
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	streams := []*model.PlannedStream{
		stream(1, day.Add(10*time.Hour), 120, model.StreamStatusScheduled),
		stream(2, day.Add(14*time.Hour), 60, model.StreamStatusCompleted),
		stream(3, day.Add(16*time.Hour), 90, model.StreamStatusCancelled),
		stream(4, day.Add(24*time.Hour), 60, model.StreamStatusScheduled), // 次日 00:00
		stream(5, day.Add(-time.Minute), 60, model.StreamStatusScheduled),
	}

	usage := c.DailyUsage(sub, streams, day.Add(9*time.Hour), 0)
	assert.Equal(t, config.QuotaPolicyDaily, usage.Policy)
	assert.Equal(t, 300.0, usage.LimitMinutes)
	assert.Equal(t, 180, usage.UsedMinutes)
	assert.Equal(t, 2.0, usage.RemainingHours())
	assert.True(t, usage.WindowStart.Equal(day))
	assert.True(t, usage.WindowEnd.Equal(day.Add(24*time.Hour)))

	excluded := c.DailyUsage(sub, streams, day, 1)
	assert.Equal(t, 60, excluded.UsedMinutes)
}

func TestQuotaCalculator_DailyUsage_Timezone(t *testing.T) {
	c := NewQuotaCalculator(&config.QuotaConfig{Timezone: "Asia/Tokyo"})
	sub := activeSub(plan(2, 30), testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 29))

	// 2026-03-10 16:00 UTC 为东京时间 3 月 11 日 01:00
	streams := []*model.PlannedStream{
		stream(1, time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC), 60, model.StreamStatusScheduled),
	}

	onEleventh := c.DailyUsage(sub, streams, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, 60, onEleventh.UsedMinutes)
	assert.True(t, onEleventh.WindowStart.Equal(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)))

	onTenth := c.DailyUsage(sub, streams, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, 0, onTenth.UsedMinutes)
}

func TestQuotaCalculator_PeriodUsage(t *testing.T) {
	c := NewQuotaCalculator(&config.QuotaConfig{Policy: config.QuotaPolicyPeriod})
	start := testNow.AddDate(0, 0, -1)
	end := testNow.AddDate(0, 0, 1)
	sub := activeSub(plan(1, 2), start, end)

	streams := []*model.PlannedStream{
		stream(1, start, 30, model.StreamStatusCompleted),
		stream(2, end, 30, model.StreamStatusScheduled),
		stream(3, testNow, 30, model.StreamStatusCancelled),
		stream(4, end.Add(time.Minute), 30, model.StreamStatusScheduled),
	}

	usage := c.Usage(sub, streams, testNow, 0)
	assert.Equal(t, config.QuotaPolicyPeriod, usage.Policy)
	assert.Equal(t, 120.0, usage.LimitMinutes)
	assert.Equal(t, 60, usage.UsedMinutes)
	assert.Equal(t, 1.0, usage.RemainingHours())

	none := c.PeriodUsage(nil, streams, 0)
	assert.Equal(t, 0.0, none.LimitMinutes)
	assert.False(t, none.Admits(1))
}

func TestQuotaUsage_Admits(t *testing.T) {
	u := QuotaUsage{LimitMinutes: 120, UsedMinutes: 60}

	assert.True(t, u.Admits(60))
	assert.False(t, u.Admits(61))

	// 0.1 小时 * 60 存在浮点误差
	fractional := QuotaUsage{LimitMinutes: 0.1 * 60}
	assert.True(t, fractional.Admits(6))
}

func TestQuotaUsage_RoundsForDisplay(t *testing.T) {
	u := QuotaUsage{LimitMinutes: 100, UsedMinutes: 20}

	assert.Equal(t, 1.67, u.LimitHours())
	assert.Equal(t, 0.33, u.UsedHours())
	assert.Equal(t, 1.33, u.RemainingHours())

	over := QuotaUsage{LimitMinutes: 60, UsedMinutes: 90}
	assert.Equal(t, 0.0, over.RemainingHours())
}

func TestQuotaCalculator_Check(t *testing.T) {
	c := NewQuotaCalculator(&config.QuotaConfig{})
	sub := activeSub(plan(2, 30), testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 29))
	day := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	streams := []*model.PlannedStream{stream(1, day, 60, model.StreamStatusScheduled)}

	_, err := c.Check(sub, streams, day.Add(3*time.Hour), 60, 0)
	require.NoError(t, err)

	_, err = c.Check(sub, streams, day.Add(3*time.Hour), 90, 0)
	var qe *QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.Equal(t, 2.0, qe.Limit)
	assert.Equal(t, 1.0, qe.Used)
	assert.Equal(t, 1.0, qe.Remaining)
	assert.Equal(t, 1.5, qe.Requested)

	_, err = c.Check(nil, nil, day, 1, 0)
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 0.0, qe.Limit)
}
