package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/infra/token"
	repo "shopease/internal/repository"
	"shopease/internal/repository/mocks"
	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// =====================
// Helper
// =====================

func newIssuer() *token.JWTIssuer {
	return token.NewJWTIssuer(testSecret, time.Hour)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionCookie(t *testing.T, userID int64, role model.Role) *http.Cookie {
	t.Helper()
	raw, _, err := newIssuer().Issue(userID, role, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: token.CookieName, Value: raw}
}

// serve runs one request through the gate plus extra middlewares and
// reports the identity the final handler saw.
func serve(t *testing.T, users *mocks.UserRepository, cookie *http.Cookie, extra ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *model.Identity) {
	t.Helper()
	e := echo.New()
	var seen *model.Identity

	chain := append([]echo.MiddlewareFunc{Authenticate(newIssuer(), users, CookieOptions{}, discardLogger())}, extra...)
	e.GET("/p", func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if ok {
			seen = &id
		}
		return c.NoContent(http.StatusOK)
	}, chain...)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func approved() *model.ShopkeeperStatus {
	s := model.ShopkeeperApproved
	return &s
}

// =====================
// Authenticate
// =====================

func TestAuthenticate_NoCookie(t *testing.T) {
	rec, seen := serve(t, new(mocks.UserRepository), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", message(t, rec))
	assert.Nil(t, seen)
}

func TestAuthenticate_BadToken(t *testing.T) {
	rec, _ := serve(t, new(mocks.UserRepository), &http.Cookie{Name: token.CookieName, Value: "garbage"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", message(t, rec))
}

func TestAuthenticate_ForeignSecret(t *testing.T) {
	raw, _, err := token.NewJWTIssuer("another-secret-another-secret-xx", time.Hour).Issue(5, model.RoleUser, time.Now())
	require.NoError(t, err)

	rec, _ := serve(t, new(mocks.UserRepository), &http.Cookie{Name: token.CookieName, Value: raw})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByID", mock.Anything, int64(5)).Return(nil, repo.ErrNotFound)

	rec, _ := serve(t, users, sessionCookie(t, 5, model.RoleUser))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, user not found", message(t, rec))
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser, Status: model.UserStatusInactive}, nil)

	rec, _ := serve(t, users, sessionCookie(t, 5, model.RoleUser))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticate_StoreFailureIsInternal(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByID", mock.Anything, int64(5)).Return(nil, errors.New("conn reset"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.AddCookie(sessionCookie(t, 5, model.RoleUser))
	c := e.NewContext(req, httptest.NewRecorder())

	err := Authenticate(newIssuer(), users, CookieOptions{}, discardLogger())(func(echo.Context) error { return nil })(c)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

func TestAuthenticate_AttachesStoredIdentity(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser, Status: model.UserStatusActive}, nil)

	rec, seen := serve(t, users, sessionCookie(t, 5, model.RoleUser))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(5), seen.UserID)
	assert.Equal(t, model.RoleUser, seen.Role)
	assert.Empty(t, rec.Result().Cookies(), "matching role must not re-issue")
}

func TestAuthenticate_RoleDriftReissuesCookie(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{
		ID: 5, Role: model.RoleShopkeeper, Status: model.UserStatusActive, ShopkeeperStatus: approved(),
	}, nil)

	// token still says "user" from before the approval
	rec, seen := serve(t, users, sessionCookie(t, 5, model.RoleUser), RequireAdminOrApprovedShopkeeper())

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.True(t, seen.IsApprovedShopkeeper())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, token.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := newIssuer().Verify(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleShopkeeper, claims.Role)
}

// =====================
// Guards
// =====================

func TestGuards(t *testing.T) {
	cases := []struct {
		name   string
		user   model.User
		guard  echo.MiddlewareFunc
		status int
	}{
		{"admin passes admin guard", model.User{ID: 1, Role: model.RoleAdmin}, RequireAdmin(), http.StatusOK},
		{"user fails admin guard", model.User{ID: 1, Role: model.RoleUser}, RequireAdmin(), http.StatusForbidden},
		{"shopkeeper fails admin guard", model.User{ID: 1, Role: model.RoleShopkeeper, ShopkeeperStatus: approved()}, RequireAdmin(), http.StatusForbidden},
		{"approved shopkeeper passes", model.User{ID: 1, Role: model.RoleShopkeeper, ShopkeeperStatus: approved()}, RequireApprovedShopkeeper(), http.StatusOK},
		{"shopkeeper role without approval fails", model.User{ID: 1, Role: model.RoleShopkeeper}, RequireApprovedShopkeeper(), http.StatusForbidden},
		{"admin can sell", model.User{ID: 1, Role: model.RoleAdmin}, RequireAdminOrApprovedShopkeeper(), http.StatusOK},
		{"user cannot sell", model.User{ID: 1, Role: model.RoleUser}, RequireAdminOrApprovedShopkeeper(), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mocks.UserRepository)
			u := tc.user
			users.On("FindByID", mock.Anything, u.ID).Return(&u, nil)

			rec, _ := serve(t, users, sessionCookie(t, u.ID, u.Role), tc.guard)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestGuard_UnauthenticatedBeatsForbidden(t *testing.T) {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAdmin())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// Cookies
// =====================

func TestClearSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	ClearSessionCookie(c, CookieOptions{Secure: true})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}
