package handler

import (
	"net/http"

	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/addresses
type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

func (h *AddressHandler) RegisterRoutes(api *echo.Group, g Guards) {
	a := api.Group("/addresses", g.Auth)

	a.GET("", h.list)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.remove)
	a.PUT("/:id/default", h.setDefault)
}

type addressRequest struct {
	FullName   string `json:"fullName" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"max=30"`
}

func (r addressRequest) input() usecase.AddressInput {
	return usecase.AddressInput{
		FullName:   r.FullName,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Phone:      r.Phone,
	}
}

func (h *AddressHandler) list(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.List(c.Request().Context(), caller.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHandler) create(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), caller.UserID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AddressHandler) update(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Update(c.Request().Context(), caller.UserID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHandler) remove(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), caller.UserID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Address removed"})
}

func (h *AddressHandler) setDefault(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.SetDefault(c.Request().Context(), caller.UserID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
