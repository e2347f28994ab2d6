package repository

import (
	"context"
	"time"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := withItems(r.db.WithContext(ctx)).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	// items go through OrderItemRepository
	order.Items = nil
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, translate(err)
	}
	return order.ID, nil
}

// UpdateFlags writes only the supplied flag columns, so concurrent toggles of
// isPaid and isDelivered do not overwrite each other. A timestamp is stamped
// when its flag turns true and kept when the flag was already set.
func (r *OrderGormRepository) UpdateFlags(ctx context.Context, orderID int64, patch repo.OrderFlagsPatch, now time.Time) error {
	updates := map[string]any{}
	if patch.IsPaid != nil {
		updates["is_paid"] = *patch.IsPaid
		updates["paid_at"] = flagStamp("is_paid", "paid_at", *patch.IsPaid, now)
	}
	if patch.IsDelivered != nil {
		updates["is_delivered"] = *patch.IsDelivered
		updates["delivered_at"] = flagStamp("is_delivered", "delivered_at", *patch.IsDelivered, now)
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID)
	if len(updates) == 0 {
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repo.ErrNotFound
		}
		return nil
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// flagStamp reads the pre-update flag, as SET expressions see the old row.
func flagStamp(flagCol, atCol string, on bool, now time.Time) any {
	if !on {
		return nil
	}
	return gorm.Expr("CASE WHEN "+flagCol+" THEN "+atCol+" ELSE ? END", now)
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	var o model.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&o).Error

	if err != nil {
		if translate(err) == repo.ErrNotFound {
			return model.Order{}, false, nil
		}
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}
	if f.IsDelivered != nil {
		q = q.Where("is_delivered = ?", *f.IsDelivered)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := withItems(q).Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}

func (r *OrderGormRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
