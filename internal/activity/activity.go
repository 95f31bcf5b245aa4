// Package activity records and lists the short event messages shown on the
// admin dashboard.
package activity

import (
	"context"
	"log/slog"
	"time"
)

type Type string

const (
	TypeUserRegistered     Type = "user_registered"
	TypeUserLogin          Type = "user_login"
	TypeStoreCreated       Type = "store_created"
	TypeAdminLogin         Type = "admin_login"
	TypeAdminCreated       Type = "admin_created"
	TypeInvitationsExpired Type = "invitations_expired"
)

type Entry struct {
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed is a source of recent activity. Recent returns newest first.
type Feed interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Recorder writes to a Feed on behalf of request paths. Failures are logged
// and swallowed so that a feed outage never fails the caller.
type Recorder struct {
	feed   Feed
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(feed Feed, logger *slog.Logger) *Recorder {
	return &Recorder{feed: feed, logger: logger, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, typ Type, message string) {
	if r == nil || r.feed == nil {
		return
	}
	e := Entry{Type: typ, Message: message, Timestamp: r.now().UTC()}
	if err := r.feed.Record(ctx, e); err != nil && r.logger != nil {
		r.logger.Warn("failed to record activity", "type", typ, "error", err)
	}
}
