package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
)

// Queue 基于 Redis 列表的通知队列
type Queue struct {
	client    *redis.Client
	queueName string
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将通知加入队列，未设置 ID 时自动生成
func (q *Queue) Push(ctx context.Context, msg *notify.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取通知（阻塞）
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*notify.Message, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无消息
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg notify.Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}

// Notify 入队，由 worker 异步投递
func (q *Queue) Notify(ctx context.Context, msg *notify.Message) error {
	return q.Push(ctx, msg)
}
