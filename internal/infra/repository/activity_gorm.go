package repository

import (
	"context"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"gorm.io/gorm"
)

type activityGormRepository struct {
	db *gorm.DB
}

func NewActivityGormRepository(db *gorm.DB) repo.ActivityRepository {
	return &activityGormRepository{db: db}
}

func (r *activityGormRepository) Create(ctx context.Context, activity model.Activity) error {
	return r.db.WithContext(ctx).Omit("User", "Product", "Order").Create(&activity).Error
}

func (r *activityGormRepository) ListRecent(ctx context.Context, filter repo.ActivityFilter) ([]model.Activity, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Preload("User").
		// soft-deleted products still have a name worth showing
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Order")

	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 10
	}

	var list []model.Activity
	if err := q.Order("created_at desc").Order("id desc").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
