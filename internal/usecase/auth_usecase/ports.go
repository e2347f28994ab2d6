package auth

import (
	"context"
	"errors"
	"time"

	"shopease/internal/domain/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	// input errors (400)
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")

	// 400 "User already exists"
	ErrEmailAlreadyExists = errors.New("user already exists")

	// 400: unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// 403
	ErrUserInactive = errors.New("account is inactive")
)

const minPasswordLen = 6

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// TokenIssuer signs a session token for the user's current role.
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

type Clock interface {
	Now() time.Time
}

// ActivityRecorder appends a dashboard activity; failures are the recorder's business.
type ActivityRecorder interface {
	Record(ctx context.Context, a model.Activity)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
