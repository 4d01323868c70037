package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue is the transport between emitters and the delivery worker.
type Queue interface {
	Publish(ctx context.Context, n Note) error
	Consume(ctx context.Context) (<-chan Note, error)
	Depth(ctx context.Context) (int64, error)
}

// InMemory is a bounded channel-backed queue for dev and tests.
type InMemory struct {
	ch chan Note
}

func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Note, size)}
}

func (q *InMemory) Publish(ctx context.Context, n Note) error {
	select {
	case q.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemory) Consume(ctx context.Context) (<-chan Note, error) {
	out := make(chan Note)
	go func() {
		defer close(out)
		for {
			select {
			case n := <-q.ch:
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (q *InMemory) Depth(context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}

// RedisQueue is a Redis list with LPUSH/BRPOP semantics and JSON payloads.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "sgov:notifications"
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Publish(ctx context.Context, n Note) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, body).Err()
}

func (q *RedisQueue) Consume(ctx context.Context) (<-chan Note, error) {
	out := make(chan Note)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) != 2 {
				continue
			}
			var n Note
			if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
