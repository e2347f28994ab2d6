package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/infra/token"
	"shopease/internal/middleware"
	"shopease/internal/repository/mocks"
	"shopease/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// =====================
// Helper
// =====================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testServer is an echo instance wired with the real gate, backed by a
// mocked user store.
type testServer struct {
	e      *echo.Echo
	users  *mocks.UserRepository
	issuer *token.JWTIssuer
}

func newTestServer() *testServer {
	e := echo.New()
	e.Validator = validator.New()
	return &testServer{
		e:      e,
		users:  new(mocks.UserRepository),
		issuer: token.NewJWTIssuer(testSecret, time.Hour),
	}
}

func (s *testServer) guards() Guards {
	return Guards{
		Auth:      middleware.Authenticate(s.issuer, s.users, middleware.CookieOptions{}, discardLogger()),
		Admin:     middleware.RequireAdmin(),
		Seller:    middleware.RequireAdminOrApprovedShopkeeper(),
		RateLimit: middleware.IPRateLimit(1000),
	}
}

func (s *testServer) api() *echo.Group {
	return s.e.Group("/api")
}

// signIn makes u loadable by the gate and returns a session cookie for it.
func (s *testServer) signIn(t *testing.T, u *model.User) *http.Cookie {
	t.Helper()
	s.users.On("FindByID", mock.Anything, u.ID).Return(u, nil).Maybe()
	s.users.On("FindWithDocuments", mock.Anything, u.ID).Return(u, nil).Maybe()
	raw, _, err := s.issuer.Issue(u.ID, u.Role, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: token.CookieName, Value: raw}
}

func (s *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path string, cookie *http.Cookie, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return s.do(req, cookie)
}

func (s *testServer) doJSONWithHeader(t *testing.T, method, path string, cookie *http.Cookie, body any, key, value string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(key, value)
	return s.do(req, cookie)
}

type formFileField struct {
	field, name string
	body        []byte
}

func (s *testServer) doMultipart(t *testing.T, method, path string, cookie *http.Cookie, values map[string]string, files ...formFileField) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return s.do(req, cookie)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body=%s", rec.Body.String())
	return v
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Message
}

func plainUser(id int64) *model.User {
	return &model.User{ID: id, Name: "Alice", Email: "alice@example.com", Role: model.RoleUser, Status: model.UserStatusActive}
}

func adminUser(id int64) *model.User {
	return &model.User{ID: id, Name: "Root", Email: "root@example.com", Role: model.RoleAdmin, Status: model.UserStatusActive}
}

func shopkeeperUser(id int64) *model.User {
	s := model.ShopkeeperApproved
	return &model.User{ID: id, Name: "Bob", Email: "bob@example.com", Role: model.RoleShopkeeper, Status: model.UserStatusActive, ShopkeeperStatus: &s}
}
