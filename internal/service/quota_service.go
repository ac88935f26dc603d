package service

import (
	"errors"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
)

var ErrInvalidRange = errors.New("日期范围无效")

const dateLayout = "2006-01-02"

// QuotaService 配额查询与直播统计，只读
type QuotaService struct {
	streamRepo *repository.StreamRepository
	subRepo    *repository.SubscriptionRepository
	quota      *QuotaCalculator
	clock      clockwork.Clock
}

func NewQuotaService(
	streamRepo *repository.StreamRepository,
	subRepo *repository.SubscriptionRepository,
	quota *QuotaCalculator,
	clock clockwork.Clock,
) *QuotaService {
	return &QuotaService{
		streamRepo: streamRepo,
		subRepo:    subRepo,
		quota:      quota,
		clock:      clock,
	}
}

// Check 预检：按当前策略判断能否在 start 追加 minutes 分钟
func (s *QuotaService) Check(streamerID int64, start time.Time, minutes int) (*dto.QuotaUsage, error) {
	now := s.clock.Now().UTC()
	active, streams, err := s.load(streamerID, now)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveSubscription
	}

	usage, err := s.quota.Check(active, streams, start.UTC(), minutes, 0)
	if err != nil {
		return nil, err
	}
	return buildQuotaUsage(usage), nil
}

// DailyStats 单日统计，date 格式为 2006-01-02，为空时取今天
func (s *QuotaService) DailyStats(streamerID int64, date string) (*dto.DailyStatsResponse, error) {
	now := s.clock.Now().UTC()
	day := now
	if date != "" {
		d, err := s.parseDate(date)
		if err != nil {
			return nil, err
		}
		day = d
	}

	active, streams, err := s.load(streamerID, now)
	if err != nil {
		return nil, err
	}

	usage := s.quota.DailyUsage(active, streams, day, 0)

	onDay := make([]*model.PlannedStream, 0)
	for _, st := range streams {
		if !st.ScheduledStart.Before(usage.WindowStart) && st.ScheduledStart.Before(usage.WindowEnd) {
			onDay = append(onDay, st)
		}
	}
	sort.Slice(onDay, func(i, j int) bool { return onDay[i].ScheduledStart.Before(onDay[j].ScheduledStart) })

	return &dto.DailyStatsResponse{
		Date:            usage.WindowStart.In(s.quota.Location()).Format(dateLayout),
		DailyLimitHours: usage.LimitHours(),
		UsedHours:       usage.UsedHours(),
		RemainingHours:  usage.RemainingHours(),
		Streams:         buildStreamItems(onDay),
	}, nil
}

// RangeStats 区间统计，两端按整天计；未指定时取当月
func (s *QuotaService) RangeStats(streamerID int64, from, to string) (*dto.RangeStatsResponse, error) {
	now := s.clock.Now().UTC()
	loc := s.quota.Location()

	local := now.In(loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	start, end := monthStart.UTC(), monthStart.AddDate(0, 1, 0).UTC()
	if from != "" {
		d, err := s.parseDate(from)
		if err != nil {
			return nil, err
		}
		start, _ = s.quota.DayWindow(d)
	}
	if to != "" {
		d, err := s.parseDate(to)
		if err != nil {
			return nil, err
		}
		_, end = s.quota.DayWindow(d)
	}
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	streams, err := s.streamRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.RangeStatsResponse{
		From: start.In(loc).Format(dateLayout),
		To:   end.Add(-time.Nanosecond).In(loc).Format(dateLayout),
		CountsByStatus: map[string]int{
			model.StreamStatusScheduled: 0,
			model.StreamStatusLive:      0,
			model.StreamStatusCompleted: 0,
			model.StreamStatusCancelled: 0,
		},
		HoursByDate: map[string]float64{},
	}

	minutesByDate := map[string]int{}
	totalMinutes := 0
	for _, st := range streams {
		if st.ScheduledStart.Before(start) || !st.ScheduledStart.Before(end) {
			continue
		}
		resp.TotalStreams++
		resp.CountsByStatus[st.Status]++
		if !st.CountsTowardQuota() {
			continue
		}
		totalMinutes += st.EstimatedDuration
		minutesByDate[st.ScheduledStart.In(loc).Format(dateLayout)] += st.EstimatedDuration
	}

	resp.TotalHours = roundHours(float64(totalMinutes) / 60)
	for date, minutes := range minutesByDate {
		resp.HoursByDate[date] = roundHours(float64(minutes) / 60)
	}
	return resp, nil
}

// UnusedHoursOnExpiration 最近一个订阅到期后剩余的总池时长，未到期时为 0
func (s *QuotaService) UnusedHoursOnExpiration(streamerID int64) (*dto.UnusedHoursResponse, error) {
	now := s.clock.Now().UTC()

	subs, err := s.subRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, err
	}

	var latest *model.Subscription
	for _, sub := range subs {
		if sub.Status != model.SubscriptionStatusActive && sub.Status != model.SubscriptionStatusExpired {
			continue
		}
		if latest == nil || sub.EndDate.After(latest.EndDate) {
			latest = sub
		}
	}
	if latest == nil {
		return &dto.UnusedHoursResponse{}, nil
	}

	resp := &dto.UnusedHoursResponse{SubscriptionID: &latest.ID}
	if !latest.IsExpiredAt(now) {
		return resp, nil
	}

	streams, err := s.streamRepo.ListByStreamerStatus(streamerID, countedStatuses...)
	if err != nil {
		return nil, err
	}

	resp.Expired = true
	resp.UnusedHours = s.quota.PeriodUsage(latest, streams, 0).RemainingHours()
	return resp, nil
}

// Overview 当前订阅及两种策略下的用量，生效策略由配置决定
func (s *QuotaService) Overview(streamerID int64) (*dto.QuotaOverviewResponse, error) {
	now := s.clock.Now().UTC()
	active, streams, err := s.load(streamerID, now)
	if err != nil {
		return nil, err
	}

	resp := &dto.QuotaOverviewResponse{
		HasActiveSubscription: active != nil,
		Policy:                s.quota.Policy(),
		Today:                 buildQuotaUsage(s.quota.DailyUsage(active, streams, now, 0)),
		Period:                buildQuotaUsage(s.quota.PeriodUsage(active, streams, 0)),
	}
	if active != nil {
		resp.Subscription = buildSubscriptionItem(active, now)
	}
	return resp, nil
}

// parseDate 按配置时区解析日期
func (s *QuotaService) parseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, s.quota.Location())
	if err != nil {
		return time.Time{}, ErrInvalidRange
	}
	return d, nil
}

func (s *QuotaService) load(streamerID int64, now time.Time) (*model.Subscription, []*model.PlannedStream, error) {
	subs, err := s.subRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, nil, err
	}
	streams, err := s.streamRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, nil, err
	}
	return ActiveSubscription(subs, now), streams, nil
}
