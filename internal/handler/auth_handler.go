package handler

import (
	"errors"
	"net/http"

	"shopease/internal/middleware"
	"shopease/internal/usecase"
	auth "shopease/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	sessionUC  *usecase.SessionUsecase
	cookies    middleware.CookieOptions
}

func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	sessionUC *usecase.SessionUsecase,
	cookies middleware.CookieOptions,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		sessionUC:  sessionUC,
		cookies:    cookies,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User usecase.UserOutput `json:"user"`
}

// /api/auth
func (h *AuthHandler) RegisterRoutes(api *echo.Group, g Guards) {
	a := api.Group("/auth")

	a.POST("/register", h.register, g.RateLimit)
	a.POST("/login", h.login, g.RateLimit)
	a.POST("/logout", h.logout)
	a.GET("/me", h.me, g.Auth)
	a.POST("/refresh", h.refresh, g.Auth)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	user, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, authError(err))
	}

	return c.JSON(http.StatusCreated, userResponse{User: usecase.ToUserOutput(user)})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, authError(err))
	}

	middleware.SetSessionCookie(c, h.cookies, out.Token, out.ExpiresAt)
	return c.JSON(http.StatusOK, userResponse{User: usecase.ToUserOutput(out.User)})
}

// logout needs no session; it always clears the cookie.
func (h *AuthHandler) logout(c echo.Context) error {
	middleware.ClearSessionCookie(c, h.cookies)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) me(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.sessionUC.Me(c.Request().Context(), caller.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

func (h *AuthHandler) refresh(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.sessionUC.Refresh(c.Request().Context(), caller.UserID)
	if err != nil {
		return writeError(c, err)
	}

	middleware.SetSessionCookie(c, h.cookies, out.Token, out.ExpiresAt)
	return c.JSON(http.StatusOK, userResponse{User: out.User})
}

// authError maps auth sentinel errors onto HTTP errors.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrNameRequired):
		return usecase.ErrValidation("Please provide a name")
	case errors.Is(err, auth.ErrInvalidEmailFormat):
		return usecase.ErrValidation("Please provide a valid email")
	case errors.Is(err, auth.ErrPasswordTooShort):
		return usecase.ErrValidation("Password must be at least 6 characters")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return usecase.ErrValidation("User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return usecase.ErrValidation("Invalid credentials")
	case errors.Is(err, auth.ErrUserInactive):
		return usecase.ErrForbidden("Account is inactive")
	}
	if _, ok := usecase.AsHTTPError(err); ok {
		return err
	}
	return usecase.ErrInternal(err)
}
