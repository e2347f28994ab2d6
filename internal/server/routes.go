package server

import (
	"shopease/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Cart    *handler.CartHandler
	Address *handler.AddressHandler
	Admin   *handler.AdminHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, g handler.Guards) {
	api := e.Group("/api")

	h.Auth.RegisterRoutes(api, g)
	h.User.RegisterRoutes(api, g)
	h.Product.RegisterRoutes(api, g)
	h.Order.RegisterRoutes(api, g)
	h.Cart.RegisterRoutes(api, g)
	h.Address.RegisterRoutes(api, g)
	h.Admin.RegisterRoutes(api, g)

	h.Product.RegisterImageRoutes(e)
}
