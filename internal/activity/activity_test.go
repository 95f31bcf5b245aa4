package activity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(i int) Entry {
	return Entry{
		Type:      TypeUserLogin,
		Message:   fmt.Sprintf("event %d", i),
		Timestamp: time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
	}
}

func TestStaticFeed(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	f := &StaticFeed{now: func() time.Time { return fixed }}
	ctx := context.Background()

	t.Run("returns two fixed entries", func(t *testing.T) {
		entries, err := f.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, TypeUserRegistered, entries[0].Type)
		assert.Equal(t, TypeStoreCreated, entries[1].Type)
		assert.Equal(t, fixed.Add(-time.Hour), entries[0].Timestamp)
	})

	t.Run("ignores writes", func(t *testing.T) {
		require.NoError(t, f.Record(ctx, entry(1)))
		entries, err := f.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("honours limit", func(t *testing.T) {
		entries, err := f.Recent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestMemoryFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		f := NewMemoryFeed(10)
		for i := 0; i < 3; i++ {
			require.NoError(t, f.Record(ctx, entry(i)))
		}

		entries, err := f.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "event 2", entries[0].Message)
		assert.Equal(t, "event 0", entries[2].Message)
	})

	t.Run("drops oldest beyond capacity", func(t *testing.T) {
		f := NewMemoryFeed(3)
		for i := 0; i < 5; i++ {
			require.NoError(t, f.Record(ctx, entry(i)))
		}

		entries, err := f.Recent(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "event 4", entries[0].Message)
		assert.Equal(t, "event 2", entries[2].Message)
	})

	t.Run("limit", func(t *testing.T) {
		f := NewMemoryFeed(0)
		for i := 0; i < 5; i++ {
			require.NoError(t, f.Record(ctx, entry(i)))
		}
		entries, err := f.Recent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips entries newest first", func(t *testing.T) {
		_, client := newTestRedis(t)
		f := NewRedisFeed(client, 10)

		for i := 0; i < 3; i++ {
			require.NoError(t, f.Record(ctx, entry(i)))
		}

		entries, err := f.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "event 2", entries[0].Message)
		assert.Equal(t, TypeUserLogin, entries[0].Type)
		assert.True(t, entry(2).Timestamp.Equal(entries[0].Timestamp))
	})

	t.Run("trims to capacity", func(t *testing.T) {
		mr, client := newTestRedis(t)
		f := NewRedisFeed(client, 2)

		for i := 0; i < 5; i++ {
			require.NoError(t, f.Record(ctx, entry(i)))
		}

		items, err := mr.List(DefaultRedisKey)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("empty list", func(t *testing.T) {
		_, client := newTestRedis(t)
		entries, err := NewRedisFeed(client, 0).Recent(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		mr, client := newTestRedis(t)
		_, err := mr.Lpush(DefaultRedisKey, "{not json")
		require.NoError(t, err)

		_, err = NewRedisFeed(client, 10).Recent(ctx, 5)
		assert.Error(t, err)
	})

	t.Run("server down", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer client.Close()
		mr.Close()

		assert.Error(t, NewRedisFeed(client, 10).Record(ctx, entry(0)))
	})
}

type failingFeed struct{}

func (failingFeed) Record(context.Context, Entry) error { return errors.New("down") }
func (failingFeed) Recent(context.Context, int) ([]Entry, error) {
	return nil, errors.New("down")
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps entries", func(t *testing.T) {
		fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		feed := NewMemoryFeed(5)
		r := NewRecorder(feed, nil)
		r.now = func() time.Time { return fixed }

		r.Record(ctx, TypeAdminLogin, "Admin root signed in")

		entries, _ := feed.Recent(ctx, 1)
		require.Len(t, entries, 1)
		assert.Equal(t, fixed, entries[0].Timestamp)
		assert.Equal(t, TypeAdminLogin, entries[0].Type)
	})

	t.Run("logs and swallows failures", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRecorder(failingFeed{}, slog.New(slog.NewTextHandler(&buf, nil)))

		r.Record(ctx, TypeAdminLogin, "x")
		assert.Contains(t, buf.String(), "failed to record activity")
	})

	t.Run("nil recorder is a no-op", func(t *testing.T) {
		var r *Recorder
		assert.NotPanics(t, func() { r.Record(ctx, TypeAdminLogin, "x") })
	})
}
