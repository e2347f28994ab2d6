package auth

import (
	"context"
	"errors"
	"strings"

	"shopease/internal/domain/model"
	"shopease/internal/repository"
)

// AdminBootstrap owns the configured admin account. It is used by login and
// by the seed-admin command.
type AdminBootstrap struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	clock    Clock
	email    string
	password string
}

func NewAdminBootstrap(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	clock Clock,
	email string,
	password string,
) *AdminBootstrap {
	return &AdminBootstrap{
		userRepo: userRepo,
		hasher:   hasher,
		verifier: verifier,
		clock:    clock,
		email:    strings.ToLower(strings.TrimSpace(email)),
		password: password,
	}
}

// Matches reports whether the credentials are the configured admin pair.
func (b *AdminBootstrap) Matches(email, password string) bool {
	return b.email != "" && b.password != "" &&
		strings.ToLower(strings.TrimSpace(email)) == b.email &&
		password == b.password
}

// Ensure creates the admin account, or promotes and re-keys the existing
// account with that email. Calling it repeatedly is a no-op once settled.
func (b *AdminBootstrap) Ensure(ctx context.Context) (*model.User, error) {
	user, err := b.userRepo.FindByEmail(ctx, b.email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err != nil {
		hashed, err := b.hasher.Hash(b.password)
		if err != nil {
			return nil, err
		}
		now := b.clock.Now()
		user = &model.User{
			Name:         "Admin",
			Email:        b.email,
			PasswordHash: hashed,
			Role:         model.RoleAdmin,
			Status:       model.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := b.userRepo.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, err
			}
			// created concurrently; settle the existing row instead
			return b.Ensure(ctx)
		}
		return user, nil
	}

	passwordOK := b.verifier.Verify(b.password, user.PasswordHash)
	if user.Role == model.RoleAdmin && user.IsActive() && passwordOK {
		return user, nil
	}

	if !passwordOK {
		hashed, err := b.hasher.Hash(b.password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	user.Role = model.RoleAdmin
	user.Status = model.UserStatusActive
	user.UpdatedAt = b.clock.Now()
	if err := b.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
