package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"shopease/internal/domain/model"
	"shopease/internal/repository"
)

type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUserUsecase creates plain `user` accounts. Elevated roles are
// reachable only through approval or the admin bootstrap.
type RegisterUserUsecase struct {
	userRepo   repository.UserRepository
	hasher     PasswordHasher
	clock      Clock
	activities ActivityRecorder
}

func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
	activities ActivityRecorder,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:   userRepo,
		hasher:     hasher,
		clock:      clock,
		activities: activities,
	}
}

func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email, ok := normalizeEmail(in.Email)
	if !ok {
		return nil, ErrInvalidEmailFormat
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// lost a race against the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	uid := user.ID
	u.activities.Record(ctx, model.Activity{
		Type:        model.ActivityUserRegistered,
		Description: fmt.Sprintf("New user registered: %s", user.Name),
		UserID:      &uid,
		CreatedAt:   now,
	})
	return user, nil
}

func normalizeEmail(email string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", false
	}
	return trimmed, true
}
