package handler

import (
	"net/http"
	"strconv"

	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin
type AdminHandler struct {
	admin    *usecase.AdminUsecase
	orders   *usecase.AdminOrderUsecase
	products *usecase.ProductUsecase
}

func NewAdminHandler(admin *usecase.AdminUsecase, orders *usecase.AdminOrderUsecase, products *usecase.ProductUsecase) *AdminHandler {
	return &AdminHandler{admin: admin, orders: orders, products: products}
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group, g Guards) {
	a := api.Group("/admin", g.Auth, g.Admin)

	a.GET("/stats", h.stats)
	a.GET("/recent-activity", h.recentActivity)

	a.GET("/users", h.listUsers)
	a.DELETE("/users/:id", h.deleteUser)
	a.PUT("/users/:id/status", h.setUserStatus)
	a.PUT("/users/:id/role", h.setUserRole)

	a.GET("/orders", h.listOrders)
	a.GET("/orders/:id", h.getOrder)
	a.PUT("/orders/:id", h.updateOrder)

	a.PUT("/products/:id/approval", h.setProductApproval)
}

func (h *AdminHandler) stats(c echo.Context) error {
	out, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) recentActivity(c echo.Context) error {
	out, err := h.admin.RecentActivity(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	out, err := h.admin.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteUser(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.admin.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type userStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *AdminHandler) setUserStatus(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req userStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.admin.SetUserStatus(c.Request().Context(), caller, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: out})
}

type userRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *AdminHandler) setUserRole(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req userRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.admin.SetUserRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: out})
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	in, err := adminOrderListInput(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// adminOrderListInput reads ?page&limit&userId&isPaid&isDelivered&from&to.
func adminOrderListInput(c echo.Context) (usecase.AdminOrderListInput, error) {
	in := usecase.AdminOrderListInput{
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	}
	var err error
	if in.Page, err = queryInt(c, "page"); err != nil {
		return in, err
	}
	if in.Limit, err = queryInt(c, "limit"); err != nil {
		return in, err
	}
	if v := c.QueryParam("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return in, usecase.ErrValidation("invalid userId")
		}
		in.UserID = &id
	}
	if in.IsPaid, err = queryBool(c, "isPaid"); err != nil {
		return in, err
	}
	if in.IsDelivered, err = queryBool(c, "isDelivered"); err != nil {
		return in, err
	}
	return in, nil
}

func (h *AdminHandler) getOrder(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type orderFlagsRequest struct {
	IsPaid      *bool `json:"isPaid"`
	IsDelivered *bool `json:"isDelivered"`
}

func (h *AdminHandler) updateOrder(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req orderFlagsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.UpdateFlags(c.Request().Context(), id, usecase.UpdateOrderFlagsInput{
		IsPaid:      req.IsPaid,
		IsDelivered: req.IsDelivered,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type productApprovalRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejectionReason" validate:"max=500"`
}

func (h *AdminHandler) setProductApproval(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req productApprovalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.products.SetApproval(c.Request().Context(), id, usecase.ApprovalInput{
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
