package usecase

import (
	"context"
	"log/slog"
	"time"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"
)

// ActivityRecorder appends dashboard activity outside of a transaction.
// A failed append is logged and otherwise ignored.
type ActivityRecorder struct {
	activities repo.ActivityRepository
	logger     *slog.Logger
}

func NewActivityRecorder(activities repo.ActivityRepository, logger *slog.Logger) *ActivityRecorder {
	return &ActivityRecorder{activities: activities, logger: logger}
}

func (r *ActivityRecorder) Record(ctx context.Context, a model.Activity) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if err := r.activities.Create(ctx, a); err != nil {
		r.logger.WarnContext(ctx, "activity append failed",
			slog.String("type", string(a.Type)),
			slog.Any("error", err),
		)
	}
}
