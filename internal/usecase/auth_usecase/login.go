package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/repository"
)

type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries what the handler needs to set the session cookie.
type LoginOutput struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
	admin    *AdminBootstrap
	clock    Clock
	logger   *slog.Logger
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	admin *AdminBootstrap,
	clock Clock,
	logger *slog.Logger,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		admin:    admin,
		clock:    clock,
		logger:   logger,
	}
}

func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	user, err := u.authenticate(ctx, in)
	if err != nil {
		return out, err
	}

	if !user.IsActive() {
		return out, ErrUserInactive
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return out, err
	}

	if err := u.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		u.logger.WarnContext(ctx, "update last login failed", slog.Int64("userID", user.ID), slog.Any("error", err))
	} else {
		user.LastLoginAt = &now
	}

	out.User = user
	out.Token = token
	out.ExpiresAt = expiresAt
	return out, nil
}

func (u *LoginUsecase) authenticate(ctx context.Context, in LoginInput) (*model.User, error) {
	if u.admin != nil && u.admin.Matches(in.Email, in.Password) {
		return u.admin.Ensure(ctx)
	}

	email, ok := normalizeEmail(in.Email)
	if !ok || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
