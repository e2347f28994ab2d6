package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shopease/internal/domain/model"
	"shopease/internal/infra/token"
	"shopease/internal/middleware"
	repo "shopease/internal/repository"
	"shopease/internal/repository/mocks"
	"shopease/internal/usecase"
	auth "shopease/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	*testServer
	activities *mocks.ActivityRepository
}

func newAuthFixture() *authFixture {
	s := newTestServer()
	activities := new(mocks.ActivityRepository)
	recorder := usecase.NewActivityRecorder(activities, discardLogger())

	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	verifier := auth.NewBcryptPasswordVerifier()
	bootstrap := auth.NewAdminBootstrap(s.users, hasher, verifier, auth.SystemClock{}, "root@example.com", "root-secret")

	h := NewAuthHandler(
		auth.NewRegisterUserUsecase(s.users, hasher, auth.SystemClock{}, recorder),
		auth.NewLoginUsecase(s.users, verifier, s.issuer, bootstrap, auth.SystemClock{}, discardLogger()),
		usecase.NewSessionUsecase(s.users, s.issuer),
		middleware.CookieOptions{},
	)
	h.RegisterRoutes(s.api(), s.guards())
	return &authFixture{testServer: s, activities: activities}
}

func sessionCookieOf(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == token.CookieName {
			return c
		}
	}
	return nil
}

// =====================
// Register
// =====================

func TestRegister_Created(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repo.ErrNotFound)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleUser && u.PasswordHash != "secret1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil)
	f.activities.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/register", nil, map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "secret1",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[userResponse](t, rec)
	assert.Equal(t, int64(1), got.User.ID)
	assert.Equal(t, model.RoleUser, got.User.Role)
	assert.NotContains(t, rec.Body.String(), "secret1")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(plainUser(1), nil)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/register", nil, map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", messageOf(t, rec))
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newAuthFixture()

	rec := f.doJSON(t, http.MethodPost, "/api/auth/register", nil, map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "123",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", messageOf(t, rec))
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Login / Logout
// =====================

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := newAuthFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := plainUser(3)
	u.PasswordHash = string(hash)
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(u, nil)
	f.users.On("TouchLastLogin", mock.Anything, int64(3), mock.Anything).Return(nil)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "alice@example.com", "password": "secret1",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookieOf(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	claims, err := f.issuer.Verify(cookie.Value)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := plainUser(3)
	u.PasswordHash = string(hash)
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(u, nil)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "alice@example.com", "password": "nope-nope",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", messageOf(t, rec))
	assert.Nil(t, sessionCookieOf(rec))
}

func TestLogin_MissingFields(t *testing.T) {
	f := newAuthFixture()

	rec := f.doJSON(t, http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "alice@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password is required", messageOf(t, rec))
}

func TestLogin_InactiveAccount(t *testing.T) {
	f := newAuthFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := plainUser(3)
	u.PasswordHash = string(hash)
	u.Status = model.UserStatusInactive
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(u, nil)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "alice@example.com", "password": "secret1",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	f := newAuthFixture()

	rec := f.doJSON(t, http.MethodPost, "/api/auth/logout", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookieOf(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

// =====================
// Me / Refresh
// =====================

func TestMe_WithoutSession(t *testing.T) {
	f := newAuthFixture()

	rec := f.doJSON(t, http.MethodGet, "/api/auth/me", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", messageOf(t, rec))
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	f := newAuthFixture()
	cookie := f.signIn(t, shopkeeperUser(4))

	rec := f.doJSON(t, http.MethodGet, "/api/auth/me", cookie, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[userResponse](t, rec)
	assert.Equal(t, model.RoleShopkeeper, got.User.Role)
	require.NotNil(t, got.User.ShopkeeperStatus)
	assert.Equal(t, model.ShopkeeperApproved, *got.User.ShopkeeperStatus)
}

func TestRefresh_ReissuesCookie(t *testing.T) {
	f := newAuthFixture()
	cookie := f.signIn(t, plainUser(3))

	rec := f.doJSON(t, http.MethodPost, "/api/auth/refresh", cookie, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, sessionCookieOf(rec))
}
