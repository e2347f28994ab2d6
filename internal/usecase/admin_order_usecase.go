package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	repo "shopease/internal/repository"
)

// AdminOrderUsecase backs both GET /api/orders and the /api/admin/orders routes.
type AdminOrderUsecase struct {
	orders repo.OrderRepository
	now    func() time.Time
}

func NewAdminOrderUsecase(orders repo.OrderRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, now: time.Now}
}

type AdminOrderListInput struct {
	Page        int
	Limit       int
	UserID      *int64
	IsPaid      *bool
	IsDelivered *bool
	From        string
	To          string
}

type OrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
	Total  int64         `json:"total"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (OrderListOutput, error) {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = 50
	}
	if in.Page < 1 {
		return OrderListOutput{}, ErrValidation("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, ErrValidation("invalid limit")
	}

	f := repo.AdminOrderListFilter{
		Page:        in.Page,
		Limit:       in.Limit,
		UserID:      in.UserID,
		IsPaid:      in.IsPaid,
		IsDelivered: in.IsDelivered,
	}
	var ok bool
	if f.From, ok = parseDateTimeRFC3339(in.From); !ok {
		return OrderListOutput{}, ErrValidation("from must be RFC3339")
	}
	if f.To, ok = parseDateTimeRFC3339(in.To); !ok {
		return OrderListOutput{}, ErrValidation("to must be RFC3339")
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, ErrInternal(err)
	}

	out := OrderListOutput{
		Orders: make([]OrderOutput, 0, len(orders)),
		Page:   in.Page,
		Limit:  in.Limit,
		Total:  total,
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, toOrderOutput(o, o.Items))
	}
	return out, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, ErrValidation("invalid order id")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrNotFound("Order not found")
	}
	if err != nil {
		return OrderOutput{}, ErrInternal(err)
	}
	return toOrderOutput(o, o.Items), nil
}

type UpdateOrderFlagsInput struct {
	IsPaid      *bool
	IsDelivered *bool
}

// UpdateFlags touches only the flags that were sent.
func (u *AdminOrderUsecase) UpdateFlags(ctx context.Context, orderID int64, in UpdateOrderFlagsInput) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, ErrValidation("invalid order id")
	}
	if in.IsPaid == nil && in.IsDelivered == nil {
		return OrderOutput{}, ErrValidation("nothing to update")
	}

	err := u.orders.UpdateFlags(ctx, orderID, repo.OrderFlagsPatch{IsPaid: in.IsPaid, IsDelivered: in.IsDelivered}, u.now())
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrNotFound("Order not found")
	}
	if err != nil {
		return OrderOutput{}, ErrInternal(err)
	}
	return u.Get(ctx, orderID)
}

// empty input is "no bound", reported as ok
func parseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return nil, false
	}
	return &t, true
}
