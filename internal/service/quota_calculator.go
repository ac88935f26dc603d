package service

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/model"
)

// quotaEpsilon 浮点比较容差（套餐小时数为两位小数）
const quotaEpsilon = 1e-6

// QuotaUsage 某个核算窗口内的配额使用情况，单位为分钟
type QuotaUsage struct {
	Policy       string
	LimitMinutes float64
	UsedMinutes  int
	WindowStart  time.Time
	WindowEnd    time.Time
}

func (u QuotaUsage) RemainingMinutes() float64 {
	return math.Max(0, u.LimitMinutes-float64(u.UsedMinutes))
}

// Admits 判断追加 minutes 分钟后是否仍在限额内，不做舍入
func (u QuotaUsage) Admits(minutes int) bool {
	return float64(u.UsedMinutes+minutes) <= u.LimitMinutes+quotaEpsilon
}

func (u QuotaUsage) LimitHours() float64 {
	return roundHours(u.LimitMinutes / 60)
}

func (u QuotaUsage) UsedHours() float64 {
	return roundHours(float64(u.UsedMinutes) / 60)
}

func (u QuotaUsage) RemainingHours() float64 {
	return roundHours(u.RemainingMinutes() / 60)
}

// Exceeded 构造配额不足错误
func (u QuotaUsage) Exceeded(requestedMinutes int) *QuotaExceededError {
	return &QuotaExceededError{
		Policy:    u.Policy,
		Limit:     u.LimitHours(),
		Used:      u.UsedHours(),
		Remaining: u.RemainingHours(),
		Requested: roundHours(float64(requestedMinutes) / 60),
	}
}

// roundHours 保留两位小数，仅用于展示
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// QuotaCalculator 配额计算，按配置选择每日重置或整期总池策略
type QuotaCalculator struct {
	policy string
	loc    *time.Location
}

func NewQuotaCalculator(cfg *config.QuotaConfig) *QuotaCalculator {
	policy := cfg.Policy
	if policy != config.QuotaPolicyPeriod {
		policy = config.QuotaPolicyDaily
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.WithError(err).Warnf("invalid quota timezone %q, falling back to UTC", cfg.Timezone)
		} else {
			loc = l
		}
	}

	return &QuotaCalculator{policy: policy, loc: loc}
}

func (c *QuotaCalculator) Policy() string {
	return c.policy
}

func (c *QuotaCalculator) Location() *time.Location {
	return c.loc
}

// ActiveSubscription 返回 status=active 且 endDate>now 的订阅，多个时取 endDate 最晚的
func ActiveSubscription(subs []*model.Subscription, now time.Time) *model.Subscription {
	var active *model.Subscription
	for _, sub := range subs {
		if !sub.IsActiveAt(now) {
			continue
		}
		if active == nil || sub.EndDate.After(active.EndDate) ||
			(sub.EndDate.Equal(active.EndDate) && sub.ID > active.ID) {
			active = sub
		}
	}
	return active
}

// DailyLimitHours 无有效订阅时返回 0
func DailyLimitHours(sub *model.Subscription) float64 {
	if sub == nil || sub.Plan == nil {
		return 0
	}
	return sub.Plan.DurationHours
}

// DayWindow 返回 t 所在日期在配置时区内的 [00:00, 24:00)
func (c *QuotaCalculator) DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(c.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// DailyUsage 每日重置策略下 day 所在日期的使用情况
func (c *QuotaCalculator) DailyUsage(sub *model.Subscription, streams []*model.PlannedStream, day time.Time, excludeID int64) QuotaUsage {
	start, end := c.DayWindow(day)
	used := sumMinutes(streams, excludeID, func(t time.Time) bool {
		return !t.Before(start) && t.Before(end)
	})
	return QuotaUsage{
		Policy:       config.QuotaPolicyDaily,
		LimitMinutes: DailyLimitHours(sub) * 60,
		UsedMinutes:  used,
		WindowStart:  start,
		WindowEnd:    end,
	}
}

// PeriodUsage 整期总池策略下订阅窗口 [startDate, endDate] 的使用情况
func (c *QuotaCalculator) PeriodUsage(sub *model.Subscription, streams []*model.PlannedStream, excludeID int64) QuotaUsage {
	if sub == nil || sub.Plan == nil {
		return QuotaUsage{Policy: config.QuotaPolicyPeriod}
	}
	used := sumMinutes(streams, excludeID, func(t time.Time) bool {
		return !t.Before(sub.StartDate) && !t.After(sub.EndDate)
	})
	return QuotaUsage{
		Policy:       config.QuotaPolicyPeriod,
		LimitMinutes: sub.Plan.TotalMinutes(),
		UsedMinutes:  used,
		WindowStart:  sub.StartDate,
		WindowEnd:    sub.EndDate,
	}
}

// Usage 按配置的策略计算候选开始时间 at 对应窗口的使用情况
func (c *QuotaCalculator) Usage(sub *model.Subscription, streams []*model.PlannedStream, at time.Time, excludeID int64) QuotaUsage {
	if c.policy == config.QuotaPolicyPeriod {
		return c.PeriodUsage(sub, streams, excludeID)
	}
	return c.DailyUsage(sub, streams, at, excludeID)
}

// Check 校验候选直播是否在配额内
func (c *QuotaCalculator) Check(sub *model.Subscription, streams []*model.PlannedStream, start time.Time, minutes int, excludeID int64) (QuotaUsage, error) {
	usage := c.Usage(sub, streams, start, excludeID)
	if !usage.Admits(minutes) {
		return usage, usage.Exceeded(minutes)
	}
	return usage, nil
}

// sumMinutes 统计落在窗口内且计入配额的直播分钟数
func sumMinutes(streams []*model.PlannedStream, excludeID int64, inWindow func(time.Time) bool) int {
	total := 0
	for _, s := range streams {
		if s.ID == excludeID || !s.CountsTowardQuota() {
			continue
		}
		if inWindow(s.ScheduledStart) {
			total += s.EstimatedDuration
		}
	}
	return total
}
