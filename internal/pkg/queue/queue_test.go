package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func message(username string) *notify.Message {
	return &notify.Message{
		Streamer: notify.StreamerInfo{Name: "Test " + username, Username: username},
		Plan:     notify.PlanInfo{Name: "Pro", ViewsPerDay: 1000, ChatsPerDay: 200, HoursPerDay: 5},
		Streams: []notify.StreamInfo{{
			Title:          "Evening stream",
			ScheduledStart: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
			DurationHours:  2,
		}},
	}
}

func TestQueue_Push(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")
	ctx := context.Background()

	t.Run("push assigns id", func(t *testing.T) {
		msg := message("alice")

		err := q.Push(ctx, msg)
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)

		length, err := q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), length)
	})

	t.Run("push keeps existing id", func(t *testing.T) {
		msg := message("bob")
		msg.ID = "fixed-id"

		require.NoError(t, q.Push(ctx, msg))
		assert.Equal(t, "fixed-id", msg.ID)
	})
}

func TestQueue_Pop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("pop returns pushed message", func(t *testing.T) {
		q := NewQueue(client, "test_pop_queue")

		msg := message("carol")
		require.NoError(t, q.Push(ctx, msg))

		result, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, msg.ID, result.ID)
		assert.Equal(t, "carol", result.Streamer.Username)
		assert.Equal(t, 5.0, result.Plan.HoursPerDay)
		require.Len(t, result.Streams, 1)
		assert.True(t, result.Streams[0].ScheduledStart.Equal(msg.Streams[0].ScheduledStart))
	})

	t.Run("pop FIFO order", func(t *testing.T) {
		q := NewQueue(client, "test_fifo_queue")

		for _, name := range []string{"a", "b", "c"} {
			require.NoError(t, q.Push(ctx, message(name)))
		}

		for _, name := range []string{"a", "b", "c"} {
			result, err := q.Pop(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, name, result.Streamer.Username)
		}
	})

	t.Run("pop from empty queue times out", func(t *testing.T) {
		q := NewQueue(client, "test_empty_queue")

		result, err := q.Pop(ctx, 10*time.Millisecond)

		// miniredis 对 BRPop 超时支持有限，只在无错误时检查结果
		if err == nil {
			assert.Nil(t, result)
		}
	})
}

func TestQueue_Notify(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	var n notify.Notifier = NewQueue(client, "test_notify")

	require.NoError(t, n.Notify(ctx, message("dave")))

	length, err := n.(*Queue).Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}

func TestQueue_MultipleQueues(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	q1 := NewQueue(client, "queue_1")
	q2 := NewQueue(client, "queue_2")

	require.NoError(t, q1.Push(ctx, message("one")))
	require.NoError(t, q2.Push(ctx, message("two")))

	len1, _ := q1.Length(ctx)
	len2, _ := q2.Length(ctx)
	assert.Equal(t, int64(1), len1)
	assert.Equal(t, int64(1), len2)

	result1, _ := q1.Pop(ctx, time.Second)
	result2, _ := q2.Pop(ctx, time.Second)

	assert.Equal(t, "one", result1.Streamer.Username)
	assert.Equal(t, "two", result2.Streamer.Username)
}
