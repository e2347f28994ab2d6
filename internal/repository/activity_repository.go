package repository

import (
	"context"

	"shopease/internal/domain/model"
)

type ActivityFilter struct {
	Type   *model.ActivityType
	UserID *int64
	Limit  int
}

type ActivityRepository interface {
	Create(ctx context.Context, activity model.Activity) error
	// ListRecent returns newest first with the referenced user, product and order preloaded.
	ListRecent(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
}
