package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a Redis-list backed notification queue. Producers LPUSH
// JSON descriptors; the delivery worker BRPOPs them.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue wraps the given client and list key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes the message onto the list.
func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	if q.client == nil {
		return errors.New("redis client not configured")
	}
	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = time.Now()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Dequeue blocks up to timeout for the next message. A nil message with a
// nil error means the wait timed out.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Message, error) {
	if q.client == nil {
		return nil, errors.New("redis client not configured")
	}
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) < 2 {
		return nil, nil
	}
	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
