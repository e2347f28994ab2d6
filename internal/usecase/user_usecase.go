package usecase

import (
	"context"
	"errors"
	"strings"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"
)

type UserUsecase struct {
	users repo.UserRepository
}

func NewUserUsecase(users repo.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// GetUser is open to the user themself and to admins.
func (u *UserUsecase) GetUser(ctx context.Context, caller model.Identity, userID int64) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, ErrValidation("invalid user id")
	}
	if !caller.IsOwnerOrAdmin(userID) {
		return UserOutput{}, ErrForbidden("Not authorized to view this user")
	}

	user, err := u.users.FindWithDocuments(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, ErrNotFound("User not found")
	}
	if err != nil {
		return UserOutput{}, ErrInternal(err)
	}
	return ToUserOutput(user), nil
}

type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateProfile is self-service only; role and status never change here.
func (u *UserUsecase) UpdateProfile(ctx context.Context, caller model.Identity, userID int64, in UpdateProfileInput) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, ErrValidation("invalid user id")
	}
	if caller.UserID != userID {
		return UserOutput{}, ErrForbidden("Not authorized to update this user")
	}

	patch := repo.UserProfilePatch{Phone: trimmedPtr(in.Phone), Address: trimmedPtr(in.Address)}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return UserOutput{}, ErrValidation("name cannot be empty")
		}
		patch.Name = &name
	}

	if err := u.users.UpdateProfile(ctx, userID, patch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserOutput{}, ErrNotFound("User not found")
		}
		return UserOutput{}, ErrInternal(err)
	}
	return u.GetUser(ctx, caller, userID)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
