package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list enrichment jobs are pushed to.
const DefaultKey = "linkhive:enrich:jobs"

// dequeueBlock bounds how long one Dequeue call waits for a job so the
// consumer loop can observe context cancellation.
const dequeueBlock = 5 * time.Second

// RedisQueue implements Queue on a Redis list. Producers LPUSH JSON
// payloads; consumers BRPOP them, so jobs survive process restarts and
// are delivered at least once.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a Redis-backed queue. Key may be empty to use
// DefaultKey.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes a job onto the list.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Dequeue pops the oldest job, blocking for a bounded interval. Returns
// (nil, nil) when the wait timed out with nothing queued.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	values, err := q.client.BRPop(ctx, dequeueBlock, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected brpop reply of %d values", len(values))
	}

	var job Job
	if err := json.Unmarshal([]byte(values[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

// Len reports how many jobs are currently queued.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
