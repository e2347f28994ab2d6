package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"github.com/shopspring/decimal"
)

const recentActivityLimit = 10

// AdminUsecase serves the dashboard and user moderation under /api/admin.
type AdminUsecase struct {
	users      repo.UserRepository
	products   repo.ProductRepository
	orders     repo.OrderRepository
	activities repo.ActivityRepository
	store      repo.ObjectStore
	logger     *slog.Logger
}

func NewAdminUsecase(
	users repo.UserRepository,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	activities repo.ActivityRepository,
	store repo.ObjectStore,
	logger *slog.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		users:      users,
		products:   products,
		orders:     orders,
		activities: activities,
		store:      store,
		logger:     logger,
	}
}

type StatsOutput struct {
	TotalUsers         int64           `json:"totalUsers"`
	TotalProducts      int64           `json:"totalProducts"`
	TotalOrders        int64           `json:"totalOrders"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	PendingShopkeepers int64           `json:"pendingShopkeepers"`
}

func (u *AdminUsecase) Stats(ctx context.Context) (StatsOutput, error) {
	var (
		out StatsOutput
		err error
	)
	if out.TotalUsers, err = u.users.Count(ctx); err != nil {
		return StatsOutput{}, ErrInternal(err)
	}
	if out.TotalProducts, err = u.products.Count(ctx); err != nil {
		return StatsOutput{}, ErrInternal(err)
	}
	if out.TotalOrders, err = u.orders.Count(ctx); err != nil {
		return StatsOutput{}, ErrInternal(err)
	}
	revenue, err := u.orders.SumRevenue(ctx)
	if err != nil {
		return StatsOutput{}, ErrInternal(err)
	}
	out.TotalRevenue = model.Money(revenue)
	if out.PendingShopkeepers, err = u.users.CountByShopkeeperStatus(ctx, model.ShopkeeperPending); err != nil {
		return StatsOutput{}, ErrInternal(err)
	}
	return out, nil
}

func (u *AdminUsecase) RecentActivity(ctx context.Context) ([]ActivityOutput, error) {
	list, err := u.activities.ListRecent(ctx, repo.ActivityFilter{Limit: recentActivityLimit})
	if err != nil {
		return nil, ErrInternal(err)
	}
	out := make([]ActivityOutput, 0, len(list))
	for _, a := range list {
		out = append(out, toActivityOutput(a))
	}
	return out, nil
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]UserOutput, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return toUserOutputs(users), nil
}

// DeleteUser keeps at least one admin. Stored documents of the user are
// released afterwards and only warn.
func (u *AdminUsecase) DeleteUser(ctx context.Context, userID int64) (MutationOutput, error) {
	if userID <= 0 {
		return MutationOutput{}, ErrValidation("invalid user id")
	}

	docs, err := u.users.Delete(ctx, userID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return MutationOutput{}, ErrNotFound("User not found")
	case errors.Is(err, repo.ErrLastAdmin):
		return MutationOutput{}, ErrConflict("Cannot delete the last admin user")
	case err != nil:
		return MutationOutput{}, ErrInternal(err)
	}

	return MutationOutput{
		Message:  "User deleted successfully",
		Warnings: releaseObjects(ctx, u.store, u.logger, "user deleted", documentKeys(docs)...),
	}, nil
}

func (u *AdminUsecase) SetUserStatus(ctx context.Context, caller model.Identity, userID int64, status string) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, ErrValidation("invalid user id")
	}
	s := model.UserStatus(strings.TrimSpace(status))
	if s != model.UserStatusActive && s != model.UserStatusInactive {
		return UserOutput{}, ErrValidation("Invalid status")
	}
	if s == model.UserStatusInactive && caller.UserID == userID {
		return UserOutput{}, ErrValidation("You cannot deactivate your own account")
	}

	if err := u.users.UpdateStatus(ctx, userID, s); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserOutput{}, ErrNotFound("User not found")
		}
		return UserOutput{}, ErrInternal(err)
	}
	return u.reloadUser(ctx, userID)
}

// SetUserRole switches between user and admin. The shopkeeper role is only
// reachable through an approved application.
func (u *AdminUsecase) SetUserRole(ctx context.Context, userID int64, role string) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, ErrValidation("invalid user id")
	}
	r := model.Role(strings.TrimSpace(role))
	if r != model.RoleUser && r != model.RoleAdmin {
		return UserOutput{}, ErrValidation("Invalid role")
	}

	err := u.users.ChangeRole(ctx, userID, r)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return UserOutput{}, ErrNotFound("User not found")
	case errors.Is(err, repo.ErrLastAdmin):
		return UserOutput{}, ErrConflict("Cannot demote the last admin user")
	case errors.Is(err, repo.ErrStateChanged):
		return UserOutput{}, ErrConflict("Decide the pending shopkeeper application first")
	case err != nil:
		return UserOutput{}, ErrInternal(err)
	}
	return u.reloadUser(ctx, userID)
}

func (u *AdminUsecase) reloadUser(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.users.FindWithDocuments(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, ErrNotFound("User not found")
	}
	if err != nil {
		return UserOutput{}, ErrInternal(err)
	}
	return ToUserOutput(user), nil
}
