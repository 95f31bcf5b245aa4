package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/database/models"
	"gorm.io/gorm"
)

type Handler struct {
	db       *gorm.DB
	logger   *slog.Logger
	recorder *activity.Recorder
	now      func() time.Time
}

// NewHandler wires the task handlers. recorder may be nil.
func NewHandler(db *gorm.DB, logger *slog.Logger, recorder *activity.Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:       db,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInvitationExpireSweep, h.HandleInvitationExpireSweep)
}

func (h *Handler) HandleInvitationExpireSweep(ctx context.Context, t *asynq.Task) error {
	start := h.now()

	expired, err := h.ExpireInvitations(ctx)
	if err != nil {
		h.logger.Error("invitation sweep failed", "error", err)
		return err
	}

	h.logger.Info("invitation sweep completed",
		"expired", expired,
		"duration", time.Since(start),
	)

	if expired > 0 {
		h.recorder.Record(ctx, activity.TypeInvitationsExpired, fmt.Sprintf("%d invitation(s) expired", expired))
	}
	return nil
}

// ExpireInvitations moves every open invitation whose expiry has passed to
// expired and returns how many rows changed.
func (h *Handler) ExpireInvitations(ctx context.Context) (int64, error) {
	now := h.now().UTC()

	result := h.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("status IN ?", []models.InvitationStatus{models.InvitationStatusPending, models.InvitationStatusSent}).
		Where("expires_at < ?", now).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("expiring invitations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
