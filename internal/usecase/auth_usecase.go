package usecase

import (
	"context"
	"errors"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/repository"
)

type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// SessionResult is a user together with a freshly signed session token.
type SessionResult struct {
	User      UserOutput
	Token     string
	ExpiresAt time.Time
}

// SessionUsecase serves the authenticated half of /api/auth.
type SessionUsecase struct {
	users  repository.UserRepository
	issuer TokenIssuer
}

func NewSessionUsecase(users repository.UserRepository, issuer TokenIssuer) *SessionUsecase {
	return &SessionUsecase{users: users, issuer: issuer}
}

func (u *SessionUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.load(ctx, userID)
	if err != nil {
		return UserOutput{}, err
	}
	return ToUserOutput(user), nil
}

// Refresh re-signs the session with the role currently stored for the user.
func (u *SessionUsecase) Refresh(ctx context.Context, userID int64) (SessionResult, error) {
	user, err := u.load(ctx, userID)
	if err != nil {
		return SessionResult{}, err
	}
	token, exp, err := u.issuer.Issue(user.ID, user.Role, time.Now())
	if err != nil {
		return SessionResult{}, ErrInternal(err)
	}
	return SessionResult{User: ToUserOutput(user), Token: token, ExpiresAt: exp}, nil
}

func (u *SessionUsecase) load(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated("Not authorized, no token")
	}
	user, err := u.users.FindWithDocuments(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated("Not authorized, user not found")
	}
	if err != nil {
		return nil, ErrInternal(err)
	}
	return user, nil
}
