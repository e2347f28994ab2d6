package handler

import (
	"net/http"

	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/users: profile and the shopkeeper application workflow.
type UserHandler struct {
	userUC       *usecase.UserUsecase
	shopkeeperUC *usecase.ShopkeeperUsecase
}

func NewUserHandler(userUC *usecase.UserUsecase, shopkeeperUC *usecase.ShopkeeperUsecase) *UserHandler {
	return &UserHandler{userUC: userUC, shopkeeperUC: shopkeeperUC}
}

type updateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type decideRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejectionReason" validate:"max=1000"`
}

func (h *UserHandler) RegisterRoutes(api *echo.Group, g Guards) {
	u := api.Group("/users", g.Auth)

	// static segments win over :id in echo's router
	u.GET("/shopkeeper/requests", h.listRequests, g.Admin)
	u.PUT("/shopkeeper/:id/status", h.decide, g.Admin)
	u.GET("/shopkeeper/:id/documents/:docId", h.document, g.Admin)

	u.GET("/:id", h.get)
	u.PUT("/:id", h.update)
	u.POST("/:id/become-shopkeeper", h.apply)
}

func (h *UserHandler) get(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.userUC.GetUser(c.Request().Context(), caller, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: out})
}

func (h *UserHandler) update(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.userUC.UpdateProfile(c.Request().Context(), caller, id, usecase.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: out})
}

// apply takes multipart business fields plus one or more "documents" files.
func (h *UserHandler) apply(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	docs, closeDocs, err := formFiles(c, "documents")
	if err != nil {
		return badRequest(c, "invalid multipart form")
	}
	defer closeDocs()

	out, err := h.shopkeeperUC.Apply(c.Request().Context(), caller, id, usecase.ApplyInput{
		BusinessName:    c.FormValue("businessName"),
		BusinessType:    c.FormValue("businessType"),
		BusinessAddress: c.FormValue("businessAddress"),
		BusinessPhone:   c.FormValue("businessPhone"),
		BusinessEmail:   c.FormValue("businessEmail"),
		GSTNumber:       c.FormValue("gstNumber"),
		ShopDescription: c.FormValue("shopDescription"),
		OpeningHours:    c.FormValue("openingHours"),
		Documents:       docs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) listRequests(c echo.Context) error {
	out, err := h.shopkeeperUC.ListRequests(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) decide(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req decideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.shopkeeperUC.Decide(c.Request().Context(), id, usecase.DecideInput{
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) document(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	docID, ok := parseIDParam(c, "docId")
	if !ok {
		return badRequest(c, "invalid document id")
	}

	file, err := h.shopkeeperUC.OpenDocument(c.Request().Context(), id, docID)
	if err != nil {
		return writeError(c, err)
	}
	return streamFile(c, file, "attachment")
}
