package repository

import (
	"context"
	"time"

	"shopease/internal/domain/model"

	"github.com/shopspring/decimal"
)

type AdminOrderListFilter struct {
	Page        int
	Limit       int
	UserID      *int64
	IsPaid      *bool
	IsDelivered *bool
	From        *time.Time
	To          *time.Time
}

// OrderFlagsPatch carries only the flags to change; nil leaves the column untouched.
type OrderFlagsPatch struct {
	IsPaid      *bool
	IsDelivered *bool
}

type OrderRepository interface {
	// FindByID loads the order with its items.
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateFlags(ctx context.Context, orderID int64, patch OrderFlagsPatch, now time.Time) error

	// same key returns the same order
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)

	Count(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
