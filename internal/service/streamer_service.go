package service

import (
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
)

var ErrStreamerExists = errors.New("主播档案已存在")

type StreamerService struct {
	streamerRepo *repository.StreamerRepository
	subRepo      *repository.SubscriptionRepository
	clock        clockwork.Clock
}

func NewStreamerService(
	streamerRepo *repository.StreamerRepository,
	subRepo *repository.SubscriptionRepository,
	clock clockwork.Clock,
) *StreamerService {
	return &StreamerService{
		streamerRepo: streamerRepo,
		subRepo:      subRepo,
		clock:        clock,
	}
}

// Register 为用户创建主播档案
func (s *StreamerService) Register(userID int64, req *dto.RegisterStreamerRequest) (*dto.StreamerProfile, error) {
	if _, err := s.streamerRepo.GetByUserID(userID); err == nil {
		return nil, ErrStreamerExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	streamer := &model.Streamer{
		UserID:   userID,
		Username: strings.TrimSpace(req.Username),
		FullName: strings.TrimSpace(req.FullName),
	}
	if err := s.streamerRepo.Create(streamer); err != nil {
		return nil, err
	}

	return s.buildProfile(streamer, nil), nil
}

// GetByUserID 根据登录用户查找主播
func (s *StreamerService) GetByUserID(userID int64) (*model.Streamer, error) {
	streamer, err := s.streamerRepo.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, ErrStreamerNotFound)
	}
	return streamer, nil
}

// Profile 主播档案及当前有效订阅
func (s *StreamerService) Profile(userID int64) (*dto.StreamerProfile, error) {
	streamer, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListByStreamer(streamer.ID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(streamer, ActiveSubscription(subs, s.clock.Now().UTC())), nil
}

func (s *StreamerService) buildProfile(streamer *model.Streamer, active *model.Subscription) *dto.StreamerProfile {
	profile := &dto.StreamerProfile{
		ID:              streamer.ID,
		UserID:          streamer.UserID,
		Username:        streamer.Username,
		FullName:        streamer.FullName,
		CurrentStreamID: streamer.CurrentStreamID,
		CreatedAt:       formatTime(streamer.CreatedAt),
	}
	if active != nil {
		profile.Subscription = buildSubscriptionItem(active, s.clock.Now().UTC())
	}
	return profile
}
