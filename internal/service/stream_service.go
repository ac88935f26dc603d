package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
	"github.com/qs3c/boost_stream_server/internal/repository"
)

// StreamService 计划直播的排期与状态流转。
// 同一主播的写操作在事务内先锁主播行，配额与冲突检查都基于锁后的读取
type StreamService struct {
	db           *gorm.DB
	streamRepo   *repository.StreamRepository
	streamerRepo *repository.StreamerRepository
	subRepo      *repository.SubscriptionRepository
	quota        *QuotaCalculator
	conflicts    *ConflictDetector
	notifier     notify.Notifier
	clock        clockwork.Clock
	cfg          *config.Config
}

func NewStreamService(
	db *gorm.DB,
	streamRepo *repository.StreamRepository,
	streamerRepo *repository.StreamerRepository,
	subRepo *repository.SubscriptionRepository,
	quota *QuotaCalculator,
	notifier notify.Notifier,
	clock clockwork.Clock,
	cfg *config.Config,
) *StreamService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &StreamService{
		db:           db,
		streamRepo:   streamRepo,
		streamerRepo: streamerRepo,
		subRepo:      subRepo,
		quota:        quota,
		conflicts:    NewConflictDetector(time.Duration(cfg.Quota.ConflictBufferMinutes) * time.Minute),
		notifier:     notifier,
		clock:        clock,
		cfg:          cfg,
	}
}

// countedStatuses 计入配额的直播状态
var countedStatuses = []string{
	model.StreamStatusScheduled,
	model.StreamStatusLive,
	model.StreamStatusCompleted,
}

// Add 新增计划直播
func (s *StreamService) Add(streamerID int64, req *dto.CreateStreamRequest) (*dto.StreamMutationResponse, error) {
	now := s.clock.Now().UTC()
	start := req.ScheduledStart.UTC()

	if err := s.validateStream(req.Title, start, req.EstimatedDuration, now); err != nil {
		return nil, err
	}

	var (
		stream   *model.PlannedStream
		streamer *model.Streamer
		plan     *model.SubscriptionPlan
		usage    QuotaUsage
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		streamer, err = s.streamerRepo.WithTx(tx).LockByID(streamerID)
		if err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		active, err := s.activeSubscription(tx, streamerID, now)
		if err != nil {
			return err
		}
		if active == nil {
			return ErrNoActiveSubscription
		}
		plan = active.Plan

		streams, err := s.streamRepo.WithTx(tx).ListByStreamerStatus(streamerID, countedStatuses...)
		if err != nil {
			return err
		}

		usage, err = s.quota.Check(active, streams, start, req.EstimatedDuration, 0)
		if err != nil {
			return err
		}
		if err := s.conflicts.Check(streams, start, req.EstimatedDuration, 0); err != nil {
			return err
		}

		stream = &model.PlannedStream{
			StreamerID:        streamerID,
			Title:             strings.TrimSpace(req.Title),
			Description:       req.Description,
			ScheduledStart:    start,
			EstimatedDuration: req.EstimatedDuration,
			Status:            model.StreamStatusScheduled,
			WordlistID:        req.WordlistID,
		}
		if err := s.streamRepo.WithTx(tx).Create(stream); err != nil {
			return err
		}

		usage = s.quota.Usage(active, append(streams, stream), start, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyScheduled(streamer, plan, stream)

	return &dto.StreamMutationResponse{
		Stream: buildStreamItem(stream),
		Quota:  buildQuotaUsage(usage),
	}, nil
}

// Update 修改计划直播，未传字段保持原值
func (s *StreamService) Update(streamerID, streamID int64, req *dto.UpdateStreamRequest) (*dto.StreamMutationResponse, error) {
	now := s.clock.Now().UTC()

	var (
		stream *model.PlannedStream
		usage  QuotaUsage
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.streamerRepo.WithTx(tx).LockByID(streamerID); err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		current, err := s.streamRepo.WithTx(tx).GetByStreamer(streamerID, streamID)
		if err != nil {
			return notFound(err, ErrStreamNotFound)
		}
		if current.IsFrozen() {
			return &StateError{StreamID: current.ID, From: current.Status, Action: "修改"}
		}
		if current.Status == model.StreamStatusCancelled && req.Status != nil && *req.Status == model.StreamStatusScheduled {
			return &StateError{StreamID: current.ID, From: current.Status, Reason: "已取消的直播无法恢复"}
		}

		next := *current
		timingChanged := false
		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				return fmt.Errorf("%w: 标题不能为空", ErrInvalidStream)
			}
			next.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			next.Description = req.Description
		}
		if req.WordlistID != nil {
			next.WordlistID = req.WordlistID
		}
		if req.Status != nil {
			next.Status = *req.Status
		}
		if req.ScheduledStart != nil {
			if !req.ScheduledStart.After(now) {
				return fmt.Errorf("%w: 开始时间必须晚于当前时间", ErrInvalidStream)
			}
			next.ScheduledStart = req.ScheduledStart.UTC()
			timingChanged = true
		}
		if req.EstimatedDuration != nil {
			if err := s.validateDuration(*req.EstimatedDuration); err != nil {
				return err
			}
			next.EstimatedDuration = *req.EstimatedDuration
			timingChanged = true
		}

		active, err := s.activeSubscription(tx, streamerID, now)
		if err != nil {
			return err
		}
		streams, err := s.streamRepo.WithTx(tx).ListByStreamerStatus(streamerID, countedStatuses...)
		if err != nil {
			return err
		}

		if timingChanged {
			if _, err := s.quota.Check(active, streams, next.ScheduledStart, next.EstimatedDuration, next.ID); err != nil {
				return err
			}
			if err := s.conflicts.Check(streams, next.ScheduledStart, next.EstimatedDuration, next.ID); err != nil {
				return err
			}
		}

		if err := s.streamRepo.WithTx(tx).Update(&next); err != nil {
			return err
		}
		stream = &next

		usage = s.quota.Usage(active, replaceStream(streams, stream), stream.ScheduledStart, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.StreamMutationResponse{
		Stream: buildStreamItem(stream),
		Quota:  buildQuotaUsage(usage),
	}, nil
}

// Start 开播，最早可提前 early_start_minutes 分钟
func (s *StreamService) Start(streamerID, streamID int64) (*dto.StreamItem, error) {
	now := s.clock.Now().UTC()
	earlyStart := time.Duration(s.cfg.Quota.EarlyStartMinutes) * time.Minute

	var stream *model.PlannedStream
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.streamerRepo.WithTx(tx).LockByID(streamerID); err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		var err error
		stream, err = s.streamRepo.WithTx(tx).GetByStreamer(streamerID, streamID)
		if err != nil {
			return notFound(err, ErrStreamNotFound)
		}
		if !stream.CanBeStarted(now, earlyStart) {
			if stream.IsScheduled() {
				return &StateError{StreamID: stream.ID, From: stream.Status, Reason: "尚未到可开播时间"}
			}
			return &StateError{StreamID: stream.ID, From: stream.Status, Action: "开播"}
		}

		live, err := s.streamRepo.WithTx(tx).FindLive(streamerID, stream.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if live != nil {
			return &StateError{StreamID: stream.ID, From: stream.Status, Reason: fmt.Sprintf("直播 %d 正在进行，请先结束", live.ID)}
		}

		if err := s.streamRepo.WithTx(tx).UpdateStatus(stream.ID, model.StreamStatusLive); err != nil {
			return err
		}
		stream.Status = model.StreamStatusLive
		return s.streamerRepo.WithTx(tx).SetCurrentStream(streamerID, &stream.ID)
	})
	if err != nil {
		return nil, err
	}

	return buildStreamItem(stream), nil
}

// End 结束直播
func (s *StreamService) End(streamerID, streamID int64) (*dto.StreamItem, error) {
	var stream *model.PlannedStream
	err := s.db.Transaction(func(tx *gorm.DB) error {
		streamer, err := s.streamerRepo.WithTx(tx).LockByID(streamerID)
		if err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		stream, err = s.streamRepo.WithTx(tx).GetByStreamer(streamerID, streamID)
		if err != nil {
			return notFound(err, ErrStreamNotFound)
		}
		if !stream.IsLive() {
			return &StateError{StreamID: stream.ID, From: stream.Status, Action: "结束"}
		}

		if err := s.streamRepo.WithTx(tx).UpdateStatus(stream.ID, model.StreamStatusCompleted); err != nil {
			return err
		}
		stream.Status = model.StreamStatusCompleted

		if streamer.CurrentStreamID != nil && *streamer.CurrentStreamID == stream.ID {
			return s.streamerRepo.WithTx(tx).SetCurrentStream(streamerID, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildStreamItem(stream), nil
}

// Cancel 取消已排期的直播，取消后不再占用配额
func (s *StreamService) Cancel(streamerID, streamID int64) (*dto.StreamItem, error) {
	var stream *model.PlannedStream
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.streamerRepo.WithTx(tx).LockByID(streamerID); err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		var err error
		stream, err = s.streamRepo.WithTx(tx).GetByStreamer(streamerID, streamID)
		if err != nil {
			return notFound(err, ErrStreamNotFound)
		}
		if !stream.IsScheduled() {
			return &StateError{StreamID: stream.ID, From: stream.Status, Action: "取消"}
		}

		stream.Status = model.StreamStatusCancelled
		return s.streamRepo.WithTx(tx).UpdateStatus(stream.ID, model.StreamStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	return buildStreamItem(stream), nil
}

// Delete 删除直播，live 状态不可删除
func (s *StreamService) Delete(streamerID, streamID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		streamer, err := s.streamerRepo.WithTx(tx).LockByID(streamerID)
		if err != nil {
			return notFound(err, ErrStreamerNotFound)
		}

		stream, err := s.streamRepo.WithTx(tx).GetByStreamer(streamerID, streamID)
		if err != nil {
			return notFound(err, ErrStreamNotFound)
		}
		if stream.IsLive() {
			return &StateError{StreamID: stream.ID, From: stream.Status, Action: "删除"}
		}

		if streamer.CurrentStreamID != nil && *streamer.CurrentStreamID == stream.ID {
			if err := s.streamerRepo.WithTx(tx).SetCurrentStream(streamerID, nil); err != nil {
				return err
			}
		}
		return s.streamRepo.WithTx(tx).Delete(stream.ID)
	})
}

// Get 获取单个直播
func (s *StreamService) Get(streamerID, streamID int64) (*dto.StreamItem, error) {
	stream, err := s.streamRepo.GetByStreamer(streamerID, streamID)
	if err != nil {
		return nil, notFound(err, ErrStreamNotFound)
	}
	return buildStreamItem(stream), nil
}

// List 主播全部直播，按开始时间倒序
func (s *StreamService) List(streamerID int64) (*dto.StreamListResponse, error) {
	now := s.clock.Now().UTC()

	streamer, err := s.streamerRepo.GetByID(streamerID)
	if err != nil {
		return nil, notFound(err, ErrStreamerNotFound)
	}

	streams, err := s.streamRepo.ListByStreamer(streamerID)
	if err != nil {
		return nil, err
	}

	active, err := s.activeSubscription(s.db, streamerID, now)
	if err != nil {
		return nil, err
	}

	return &dto.StreamListResponse{
		Streams:               buildStreamItems(streams),
		DailyLimitHours:       DailyLimitHours(active),
		HasActiveSubscription: active != nil,
		CurrentStreamID:       s.currentStreamID(streamer, streams),
	}, nil
}

// currentStreamID 校验弱引用，指向的直播不存在或不是 live 时清空
func (s *StreamService) currentStreamID(streamer *model.Streamer, streams []*model.PlannedStream) *int64 {
	if streamer.CurrentStreamID == nil {
		return nil
	}
	for _, st := range streams {
		if st.ID == *streamer.CurrentStreamID && st.IsLive() {
			return streamer.CurrentStreamID
		}
	}

	log.WithFields(log.Fields{
		"streamer_id": streamer.ID,
		"stream_id":   *streamer.CurrentStreamID,
	}).Warn("clearing stale current stream pointer")
	if err := s.streamerRepo.SetCurrentStream(streamer.ID, nil); err != nil {
		log.WithError(err).WithField("streamer_id", streamer.ID).Error("failed to clear current stream pointer")
	}
	return nil
}

func (s *StreamService) activeSubscription(db *gorm.DB, streamerID int64, now time.Time) (*model.Subscription, error) {
	subs, err := s.subRepo.WithTx(db).ListByStreamer(streamerID)
	if err != nil {
		return nil, err
	}
	return ActiveSubscription(subs, now), nil
}

func (s *StreamService) validateStream(title string, start time.Time, minutes int, now time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: 标题不能为空", ErrInvalidStream)
	}
	if !start.After(now) {
		return fmt.Errorf("%w: 开始时间必须晚于当前时间", ErrInvalidStream)
	}
	return s.validateDuration(minutes)
}

func (s *StreamService) validateDuration(minutes int) error {
	if minutes < 1 || minutes > s.cfg.Quota.MaxDurationMinutes {
		return fmt.Errorf("%w: 时长必须在 1 到 %d 分钟之间", ErrInvalidStream, s.cfg.Quota.MaxDurationMinutes)
	}
	return nil
}

// notifyScheduled 事务提交后异步发送通知，失败只记录日志
func (s *StreamService) notifyScheduled(streamer *model.Streamer, plan *model.SubscriptionPlan, stream *model.PlannedStream) {
	if plan == nil {
		return
	}

	msg := &notify.Message{
		Streamer: notify.StreamerInfo{Name: streamer.FullName, Username: streamer.Username},
		Plan: notify.PlanInfo{
			Name:        plan.Name,
			ViewsPerDay: plan.ViewsDelivered,
			ChatsPerDay: plan.ChatMessagesDelivered,
			HoursPerDay: plan.DurationHours,
		},
		Streams: []notify.StreamInfo{{
			Title:          stream.Title,
			ScheduledStart: stream.ScheduledStart,
			DurationHours:  math.Round(stream.DurationHours()*10) / 10,
		}},
		CreatedAt: s.clock.Now().UTC(),
	}
	timeout := time.Duration(s.cfg.Notify.TimeoutSeconds) * time.Second

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("stream notification panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, msg); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"streamer_id": streamer.ID,
				"stream_id":   stream.ID,
			}).Warn("failed to send stream notification")
		}
	}()
}

// replaceStream 用更新后的直播替换列表中的旧值
func replaceStream(streams []*model.PlannedStream, updated *model.PlannedStream) []*model.PlannedStream {
	out := make([]*model.PlannedStream, 0, len(streams)+1)
	for _, st := range streams {
		if st.ID != updated.ID {
			out = append(out, st)
		}
	}
	return append(out, updated)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
