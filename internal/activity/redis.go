package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "activity:recent"

// RedisFeed stores entries as JSON in a capped Redis list, newest at the head.
type RedisFeed struct {
	client redis.Cmdable
	key    string
	size   int
}

func NewRedisFeed(client redis.Cmdable, size int) *RedisFeed {
	if size <= 0 {
		size = DefaultCapacity
	}
	return &RedisFeed{client: client, key: DefaultRedisKey, size: size}
}

func (f *RedisFeed) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding activity: %w", err)
	}

	_, err = f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, f.key, data)
		pipe.LTrim(ctx, f.key, 0, int64(f.size-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("pushing activity: %w", err)
	}
	return nil
}

func (f *RedisFeed) Recent(ctx context.Context, limit int) ([]Entry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := f.client.LRange(ctx, f.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("reading activity: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decoding activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
