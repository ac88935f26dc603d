package cron

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Expirer 批量处理到期订阅
type Expirer interface {
	ExpireElapsed() (int64, error)
}

// Service 进程内定时任务：周期性把已到期的 active 订阅标记为 expired。
// 读路径始终按 endDate 惰性判断，这里只做状态整理
type Service struct {
	expirer  Expirer
	clock    clockwork.Clock
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

func NewService(expirer Expirer, clock clockwork.Clock, interval time.Duration) *Service {
	return &Service{
		expirer:  expirer,
		clock:    clock,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	ticker := s.clock.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.Chan():
				s.RunOnce()
			}
		}
	}()
	log.WithField("interval", s.interval.String()).Info("subscription expiry job started")
}

// Stop 停止定时任务并等待当前轮次结束
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	if !s.started.Load() {
		return
	}
	<-s.done
	log.Info("subscription expiry job stopped")
}

// RunOnce 执行一轮到期整理
func (s *Service) RunOnce() {
	n, err := s.expirer.ExpireElapsed()
	if err != nil {
		log.WithError(err).Error("failed to expire subscriptions")
		return
	}
	if n > 0 {
		log.WithField("count", n).Info("subscriptions marked expired")
	}
}
