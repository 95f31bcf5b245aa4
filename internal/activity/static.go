package activity

import (
	"context"
	"time"
)

// StaticFeed always returns the same two placeholder entries, stamped
// relative to the time of the call. Writes are discarded.
type StaticFeed struct {
	now func() time.Time
}

func NewStaticFeed() *StaticFeed {
	return &StaticFeed{now: time.Now}
}

func (f *StaticFeed) Record(context.Context, Entry) error {
	return nil
}

func (f *StaticFeed) Recent(_ context.Context, limit int) ([]Entry, error) {
	now := f.now().UTC()
	entries := []Entry{
		{Type: TypeUserRegistered, Message: "New store owner registered", Timestamp: now.Add(-1 * time.Hour)},
		{Type: TypeStoreCreated, Message: "New store created", Timestamp: now.Add(-2 * time.Hour)},
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}
