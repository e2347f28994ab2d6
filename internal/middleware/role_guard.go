package middleware

import (
	"net/http"

	"shopease/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// requireCapability runs after Authenticate. A missing identity means the
// gate was not mounted in front, which is reported as 401.
func requireCapability(allowed func(model.Identity) bool, denied string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, messageJSON("Not authorized, no token"))
			}
			if !allowed(id) {
				return c.JSON(http.StatusForbidden, messageJSON(denied))
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return requireCapability(model.Identity.IsAdmin, "Not authorized as an admin")
}

func RequireApprovedShopkeeper() echo.MiddlewareFunc {
	return requireCapability(model.Identity.IsApprovedShopkeeper, "Not authorized as an approved shopkeeper")
}

// RequireAdminOrApprovedShopkeeper guards catalog writes.
func RequireAdminOrApprovedShopkeeper() echo.MiddlewareFunc {
	return requireCapability(model.Identity.CanSell, "Not authorized to manage products")
}
