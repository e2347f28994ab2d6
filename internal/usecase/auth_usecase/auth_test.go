package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/repository"
	"shopease/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Fakes
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	args := m.Called(userID, role, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type recordedActivities struct {
	list []model.Activity
}

func (r *recordedActivities) Record(ctx context.Context, a model.Activity) {
	r.list = append(r.list, a)
}

// =====================
// Helper
// =====================

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLoginUC(users *mocks.UserRepository, issuer *MockTokenIssuer) *LoginUsecase {
	clock := fixedClock{testNow}
	admin := NewAdminBootstrap(users, NewBcryptPasswordHasher(bcrypt.MinCost), NewBcryptPasswordVerifier(), clock, "Admin@Shop.test", "admin-secret")
	return NewLoginUsecase(users, NewBcryptPasswordVerifier(), issuer, admin, clock, discardLogger())
}

// =====================
// Register
// =====================

func TestRegister_Success(t *testing.T) {
	users := new(mocks.UserRepository)
	acts := &recordedActivities{}

	users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "jane@example.com" && u.Role == model.RoleUser && u.PasswordHash != "secret1" && u.ShopkeeperStatus == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 7
	}).Return(nil)

	uc := NewRegisterUserUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost), fixedClock{testNow}, acts)
	user, err := uc.Execute(context.Background(), RegisterUserInput{Name: " Jane ", Email: " Jane@Example.com ", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Jane", user.Name)
	require.Len(t, acts.list, 1)
	assert.Equal(t, model.ActivityUserRegistered, acts.list[0].Type)
	assert.Equal(t, int64(7), *acts.list[0].UserID)
	users.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   RegisterUserInput
		want error
	}{
		{"missing name", RegisterUserInput{Email: "a@b.co", Password: "secret1"}, ErrNameRequired},
		{"bad email", RegisterUserInput{Name: "A", Email: "nope", Password: "secret1"}, ErrInvalidEmailFormat},
		{"display name email", RegisterUserInput{Name: "A", Email: "A <a@b.co>", Password: "secret1"}, ErrInvalidEmailFormat},
		{"short password", RegisterUserInput{Name: "A", Email: "a@b.co", Password: "12345"}, ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewRegisterUserUsecase(new(mocks.UserRepository), NewBcryptPasswordHasher(bcrypt.MinCost), fixedClock{testNow}, &recordedActivities{})
			_, err := uc.Execute(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByEmail", mock.Anything, "a@b.co").Return(&model.User{ID: 1}, nil)

	uc := NewRegisterUserUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost), fixedClock{testNow}, &recordedActivities{})
	_, err := uc.Execute(context.Background(), RegisterUserInput{Name: "A", Email: "a@b.co", Password: "secret1"})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateRace(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByEmail", mock.Anything, "a@b.co").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	acts := &recordedActivities{}
	uc := NewRegisterUserUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost), fixedClock{testNow}, acts)
	_, err := uc.Execute(context.Background(), RegisterUserInput{Name: "A", Email: "a@b.co", Password: "secret1"})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Empty(t, acts.list)
}

// =====================
// Login
// =====================

func TestLogin_Success(t *testing.T) {
	users := new(mocks.UserRepository)
	issuer := new(MockTokenIssuer)

	users.On("FindByEmail", mock.Anything, "user@test.com").Return(&model.User{
		ID:           3,
		Email:        "user@test.com",
		PasswordHash: mustHash(t, "CorrectPW"),
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}, nil)
	users.On("TouchLastLogin", mock.Anything, int64(3), testNow).Return(nil)
	issuer.On("Issue", int64(3), model.RoleUser, testNow).Return("signed", testNow.Add(time.Hour), nil)

	out, err := newLoginUC(users, issuer).Execute(context.Background(), LoginInput{Email: "USER@test.com", Password: "CorrectPW"})

	require.NoError(t, err)
	assert.Equal(t, "signed", out.Token)
	assert.Equal(t, testNow.Add(time.Hour), out.ExpiresAt)
	require.NotNil(t, out.User.LastLoginAt)
	users.AssertExpectations(t)
	issuer.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mocks.UserRepository)
	issuer := new(MockTokenIssuer)
	users.On("FindByEmail", mock.Anything, "user@test.com").Return(&model.User{
		ID: 3, PasswordHash: mustHash(t, "CorrectPW"), Role: model.RoleUser, Status: model.UserStatusActive,
	}, nil)

	_, err := newLoginUC(users, issuer).Execute(context.Background(), LoginInput{Email: "user@test.com", Password: "nope"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByEmail", mock.Anything, "ghost@test.com").Return(nil, repository.ErrNotFound)

	_, err := newLoginUC(users, new(MockTokenIssuer)).Execute(context.Background(), LoginInput{Email: "ghost@test.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Inactive(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByEmail", mock.Anything, "user@test.com").Return(&model.User{
		ID: 3, PasswordHash: mustHash(t, "CorrectPW"), Role: model.RoleUser, Status: model.UserStatusInactive,
	}, nil)

	_, err := newLoginUC(users, new(MockTokenIssuer)).Execute(context.Background(), LoginInput{Email: "user@test.com", Password: "CorrectPW"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	users := new(mocks.UserRepository)
	boom := errors.New("db down")
	users.On("FindByEmail", mock.Anything, "user@test.com").Return(nil, boom)

	_, err := newLoginUC(users, new(MockTokenIssuer)).Execute(context.Background(), LoginInput{Email: "user@test.com", Password: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestLogin_LastLoginFailureDoesNotBlock(t *testing.T) {
	users := new(mocks.UserRepository)
	issuer := new(MockTokenIssuer)
	users.On("FindByEmail", mock.Anything, "user@test.com").Return(&model.User{
		ID: 3, PasswordHash: mustHash(t, "CorrectPW"), Role: model.RoleUser, Status: model.UserStatusActive,
	}, nil)
	users.On("TouchLastLogin", mock.Anything, int64(3), testNow).Return(errors.New("timeout"))
	issuer.On("Issue", int64(3), model.RoleUser, testNow).Return("signed", testNow.Add(time.Hour), nil)

	out, err := newLoginUC(users, issuer).Execute(context.Background(), LoginInput{Email: "user@test.com", Password: "CorrectPW"})
	require.NoError(t, err)
	assert.Nil(t, out.User.LastLoginAt)
}

// =====================
// Admin bootstrap
// =====================

func TestLogin_AdminBootstrapCreatesAccount(t *testing.T) {
	users := new(mocks.UserRepository)
	issuer := new(MockTokenIssuer)

	users.On("FindByEmail", mock.Anything, "admin@shop.test").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleAdmin && u.Email == "admin@shop.test"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil)
	users.On("TouchLastLogin", mock.Anything, int64(1), testNow).Return(nil)
	issuer.On("Issue", int64(1), model.RoleAdmin, testNow).Return("admin-token", testNow.Add(time.Hour), nil)

	out, err := newLoginUC(users, issuer).Execute(context.Background(), LoginInput{Email: "admin@shop.test", Password: "admin-secret"})

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, out.User.Role)
	users.AssertExpectations(t)
}

func TestLogin_AdminBootstrapPromotesExisting(t *testing.T) {
	users := new(mocks.UserRepository)
	issuer := new(MockTokenIssuer)

	existing := &model.User{ID: 5, Email: "admin@shop.test", PasswordHash: mustHash(t, "old"), Role: model.RoleUser, Status: model.UserStatusActive}
	users.On("FindByEmail", mock.Anything, "admin@shop.test").Return(existing, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == 5 && u.Role == model.RoleAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("admin-secret")) == nil
	})).Return(nil)
	users.On("TouchLastLogin", mock.Anything, int64(5), testNow).Return(nil)
	issuer.On("Issue", int64(5), model.RoleAdmin, testNow).Return("t", testNow.Add(time.Hour), nil)

	_, err := newLoginUC(users, issuer).Execute(context.Background(), LoginInput{Email: "Admin@Shop.test", Password: "admin-secret"})

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestAdminBootstrap_EnsureIsIdempotent(t *testing.T) {
	users := new(mocks.UserRepository)
	settled := &model.User{ID: 1, Email: "admin@shop.test", PasswordHash: mustHash(t, "admin-secret"), Role: model.RoleAdmin, Status: model.UserStatusActive}
	users.On("FindByEmail", mock.Anything, "admin@shop.test").Return(settled, nil)

	b := NewAdminBootstrap(users, NewBcryptPasswordHasher(bcrypt.MinCost), NewBcryptPasswordVerifier(), fixedClock{testNow}, "admin@shop.test", "admin-secret")
	u, err := b.Ensure(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminBootstrap_Matches(t *testing.T) {
	b := NewAdminBootstrap(nil, nil, nil, fixedClock{testNow}, "admin@shop.test", "admin-secret")
	assert.True(t, b.Matches(" ADMIN@shop.test", "admin-secret"))
	assert.False(t, b.Matches("admin@shop.test", "Admin-secret"))
	assert.False(t, b.Matches("other@shop.test", "admin-secret"))
}

func TestBcrypt_HashVerify(t *testing.T) {
	h := NewBcryptPasswordHasher(bcrypt.MinCost)
	hashed, err := h.Hash("pw-123456")
	require.NoError(t, err)

	v := NewBcryptPasswordVerifier()
	assert.True(t, v.Verify("pw-123456", hashed))
	assert.False(t, v.Verify("pw-1234567", hashed))
}
