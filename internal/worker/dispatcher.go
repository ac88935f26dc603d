package worker

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
)

// Source 通知来源，超时无消息时返回 nil, nil
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*notify.Message, error)
}

// Dispatcher 从队列取出通知并投递到下游渠道
type Dispatcher struct {
	source      Source
	sink        notify.Notifier
	sendTimeout time.Duration
	popTimeout  time.Duration
}

func NewDispatcher(source Source, sink notify.Notifier, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		source:      source,
		sink:        sink,
		sendTimeout: sendTimeout,
		popTimeout:  5 * time.Second,
	}
}

// ProcessOne 处理一条通知，队列为空时返回 false
func (d *Dispatcher) ProcessOne(ctx context.Context) (bool, error) {
	msg, err := d.source.Pop(ctx, d.popTimeout)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	entry := log.WithFields(log.Fields{
		"message_id": msg.ID,
		"streamer":   msg.Streamer.Username,
	})
	if err := d.sink.Notify(sendCtx, msg); err != nil {
		// 投递失败只记录，不重新入队
		entry.WithError(err).Warn("failed to deliver notification")
		return true, nil
	}
	entry.Info("notification delivered")
	return true, nil
}

// Run 启动 workers 个循环直到 ctx 取消
func (d *Dispatcher) Run(ctx context.Context, workers int) {
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					log.WithField("worker", workerID).Info("worker shutting down")
					return
				}
				if _, err := d.ProcessOne(ctx); err != nil {
					if ctx.Err() != nil {
						continue
					}
					log.WithError(err).WithField("worker", workerID).Error("failed to pop notification")
					time.Sleep(time.Second)
				}
			}
		}(i)
	}
	wg.Wait()
}
