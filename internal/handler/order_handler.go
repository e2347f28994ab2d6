package handler

import (
	"net/http"

	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const headerIdempotencyKey = "X-Idempotency-Key"

// /api/orders
type OrderHandler struct {
	orders *usecase.OrderUsecase
	admin  *usecase.AdminOrderUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase, admin *usecase.AdminOrderUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, admin: admin}
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, g Guards) {
	o := api.Group("/orders", g.Auth)

	o.POST("", h.create)
	o.GET("/my-orders", h.mine)
	o.GET("/:id", h.detail)
	o.GET("", h.all, g.Admin)
}

type orderLineRequest struct {
	Product  int64 `json:"product" validate:"gt=0"`
	Quantity int64 `json:"quantity" validate:"gt=0,lte=10000"`
}

type shippingRequest struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type createOrderRequest struct {
	Items           []orderLineRequest `json:"items" validate:"dive"`
	ShippingAddress *shippingRequest   `json:"shippingAddress"`
	AddressID       int64              `json:"addressId"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalPrice      *decimal.Decimal   `json:"totalPrice"`
}

func (r createOrderRequest) input(key string) usecase.CreateOrderInput {
	in := usecase.CreateOrderInput{
		AddressID:      r.AddressID,
		PaymentMethod:  r.PaymentMethod,
		TotalPrice:     r.TotalPrice,
		IdempotencyKey: key,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, usecase.OrderLineInput{ProductID: it.Product, Quantity: it.Quantity})
	}
	if s := r.ShippingAddress; s != nil {
		in.ShippingAddress = &usecase.ShippingInput{
			FullName:   s.FullName,
			Address:    s.Address,
			City:       s.City,
			State:      s.State,
			PostalCode: s.PostalCode,
			Country:    s.Country,
			Phone:      s.Phone,
		}
	}
	return in
}

type orderResponse struct {
	Order usecase.OrderOutput `json:"order"`
}

// create answers 201 for a new order and 200 when the idempotency key replays
// an earlier one.
func (h *OrderHandler) create(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	key := c.Request().Header.Get(headerIdempotencyKey)
	out, created, err := h.orders.Create(c.Request().Context(), caller.UserID, req.input(key))
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, orderResponse{Order: out})
}

func (h *OrderHandler) mine(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.orders.ListMine(c.Request().Context(), caller.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.orders.Get(c.Request().Context(), caller, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) all(c echo.Context) error {
	in, err := adminOrderListInput(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.admin.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
