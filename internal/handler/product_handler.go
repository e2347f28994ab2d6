package handler

import (
	"net/http"

	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/products and the public /images route.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(api *echo.Group, g Guards) {
	p := api.Group("/products")

	p.GET("", h.list)
	p.GET("/shopkeeper/:shopkeeperId", h.listByShopkeeper)
	p.GET("/:id", h.detail)

	p.POST("", h.create, g.Auth, g.Seller)
	p.PUT("/:id", h.update, g.Auth, g.Seller)
	p.DELETE("/:id", h.remove, g.Auth, g.Seller)
}

// RegisterImageRoutes serves stored product images under usecase.ImageURLPrefix.
func (h *ProductHandler) RegisterImageRoutes(e *echo.Echo) {
	e.GET(usecase.ImageURLPrefix+"*", h.image)
}

func (h *ProductHandler) list(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listByShopkeeper(c echo.Context) error {
	ownerID, ok := parseIDParam(c, "shopkeeperId")
	if !ok {
		return badRequest(c, "invalid shopkeeper id")
	}
	in, err := listInput(c)
	if err != nil {
		return writeError(c, err)
	}
	in.ShopkeeperID = &ownerID

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func listInput(c echo.Context) (usecase.ListProductsInput, error) {
	in := usecase.ListProductsInput{
		Search:         c.QueryParam("search"),
		Category:       c.QueryParam("category"),
		MinPrice:       c.QueryParam("minPrice"),
		MaxPrice:       c.QueryParam("maxPrice"),
		Sort:           c.QueryParam("sort"),
		ApprovalStatus: c.QueryParam("approvalStatus"),
	}
	var err error
	if in.Page, err = queryInt(c, "page"); err != nil {
		return in, err
	}
	if in.Limit, err = queryInt(c, "limit"); err != nil {
		return in, err
	}
	return in, nil
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func productFields(c echo.Context) usecase.ProductFields {
	return usecase.ProductFields{
		Name:        formValue(c, "name"),
		Description: formValue(c, "description"),
		Price:       formValue(c, "price"),
		Stock:       formValue(c, "stock"),
		Category:    formValue(c, "category"),
	}
}

func (h *ProductHandler) create(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		return badRequest(c, "invalid multipart form")
	}
	defer closeImage()

	p, err := h.uc.Create(c.Request().Context(), caller, productFields(c), image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) update(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		return badRequest(c, "invalid multipart form")
	}
	defer closeImage()

	out, err := h.uc.Update(c.Request().Context(), caller, id, productFields(c), image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) remove(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.Delete(c.Request().Context(), caller, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) image(c echo.Context) error {
	file, err := h.uc.OpenImage(c.Request().Context(), c.Param("*"))
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return streamFile(c, file, "")
}
