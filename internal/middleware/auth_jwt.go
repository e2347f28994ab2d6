package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/infra/token"
	repo "shopease/internal/repository"
	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

const ctxIdentityKey = "identity" // model.Identity

// SessionTokens is what the gate needs from the token package.
type SessionTokens interface {
	Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error)
	Verify(raw string) (token.Claims, error)
}

// UserLoader is the slice of UserRepository the gate reads.
type UserLoader interface {
	FindByID(ctx context.Context, userID int64) (*model.User, error)
}

// Authenticate resolves the caller from the session cookie once per request
// and stores a model.Identity snapshot in the echo context.
//
// A token whose role claim no longer matches the stored role (for example
// right after a shopkeeper approval) is re-issued in place.
func Authenticate(tokens SessionTokens, users UserLoader, cookies CookieOptions, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(token.CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, messageJSON("Not authorized, no token"))
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, messageJSON("Not authorized, token failed"))
			}
			userID, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, messageJSON("Not authorized, token failed"))
			}

			ctx := c.Request().Context()
			user, err := users.FindByID(ctx, userID)
			if errors.Is(err, repo.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, messageJSON("Not authorized, user not found"))
			}
			if err != nil {
				return usecase.ErrInternal(err)
			}
			if !user.IsActive() {
				return c.JSON(http.StatusForbidden, messageJSON("Account is inactive"))
			}

			if claims.Role != user.Role {
				raw, expiresAt, err := tokens.Issue(user.ID, user.Role, time.Now())
				if err != nil {
					logger.WarnContext(ctx, "session re-issue failed",
						slog.Int64("userID", user.ID),
						slog.Any("error", err),
					)
				} else {
					SetSessionCookie(c, cookies, raw, expiresAt)
				}
			}

			c.Set(ctxIdentityKey, model.IdentityOf(user))
			return next(c)
		}
	}
}

// IdentityFrom returns the snapshot stored by Authenticate.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(ctxIdentityKey).(model.Identity)
	if !ok || id.UserID <= 0 {
		return model.Identity{}, false
	}
	return id, true
}

type messageResponse struct {
	Message string `json:"message"`
}

func messageJSON(msg string) messageResponse {
	return messageResponse{Message: msg}
}
