package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cpugauge/internal/domain"
)

// Registry appends gauge snapshots to a capped redis stream.
type Registry struct {
	redis  redis.Cmdable
	stream string
	maxLen int64
}

func NewRegistry(r redis.Cmdable, stream string, maxLen int64) *Registry {
	return &Registry{redis: r, stream: stream, maxLen: maxLen}
}

func (r *Registry) Name() string {
	return "redis"
}

func (r *Registry) Push(ctx context.Context, s domain.Snapshot) error {
	_, err := r.Append(ctx, s)
	return err
}

func (r *Registry) Append(ctx context.Context, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("registry marshal failed: %w", err)
	}

	id, err := r.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"data": data,
		},
		MaxLen: r.maxLen,
		Approx: true,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("registry xadd failed: %w", err)
	}

	return id, nil
}

// Latest decodes the newest snapshot on the stream. ok is false when the
// stream is empty.
func (r *Registry) Latest(ctx context.Context) (s domain.Snapshot, ok bool, err error) {
	msgs, err := r.redis.XRevRangeN(ctx, r.stream, "+", "-", 1).Result()
	if err != nil {
		return s, false, fmt.Errorf("registry xrevrange failed: %w", err)
	}

	if len(msgs) == 0 {
		return s, false, nil
	}

	raw, ok := msgs[0].Values["data"].(string)
	if !ok {
		return s, false, fmt.Errorf("registry message %s has no data field", msgs[0].ID)
	}

	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return s, false, fmt.Errorf("registry unmarshal failed: %w", err)
	}

	return s, true, nil
}
