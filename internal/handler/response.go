package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"shopease/internal/domain/model"
	"shopease/internal/middleware"
	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Guards are the middlewares each handler mounts on its routes.
type Guards struct {
	Auth      echo.MiddlewareFunc
	Admin     echo.MiddlewareFunc
	Seller    echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// writeError renders client errors; anything else goes to the server's
// HTTPErrorHandler, which logs it.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
		return c.JSON(he.Status, ErrorResponse{Message: he.Message})
	}
	return err
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}

// callerFrom reads the identity stored by the gate.
func callerFrom(c echo.Context) (model.Identity, bool) {
	return middleware.IdentityFrom(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authorized, no token"})
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt returns 0 for an absent parameter.
func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.ErrValidation("invalid " + name)
	}
	return n, nil
}

// queryBool returns nil for an absent parameter.
func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, usecase.ErrValidation("invalid " + name)
	}
	return &b, nil
}

// bindAndValidate binds the body and runs the echo validator. Failures come
// back as 400 errors for writeError.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return usecase.ErrValidation("invalid body")
	}
	if err := c.Validate(req); err != nil {
		return usecase.ErrValidation(err.Error())
	}
	return nil
}

// formValue returns nil for a field that was not sent.
func formValue(c echo.Context, name string) *string {
	if form, err := c.MultipartForm(); err == nil {
		if vs, ok := form.Value[name]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	r := c.Request()
	if err := r.ParseForm(); err != nil || !r.Form.Has(name) {
		return nil
	}
	v := r.Form.Get(name)
	return &v
}

func toUpload(fh *multipart.FileHeader) (usecase.FileUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return usecase.FileUpload{}, func() {}, err
	}
	return usecase.FileUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// formFiles opens every file sent under name. The returned func closes them.
func formFiles(c echo.Context, name string) ([]usecase.FileUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, err
	}
	var (
		uploads []usecase.FileUpload
		closers []func()
	)
	closeAll := func() {
		for _, cl := range closers {
			cl()
		}
	}
	for _, fh := range form.File[name] {
		up, cl, err := toUpload(fh)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		uploads = append(uploads, up)
		closers = append(closers, cl)
	}
	return uploads, closeAll, nil
}

// formFile returns nil when no file was sent under name.
func formFile(c echo.Context, name string) (*usecase.FileUpload, func(), error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	up, cl, err := toUpload(fh)
	if err != nil {
		return nil, func() {}, err
	}
	return &up, cl, nil
}

// streamFile writes an opened stored object and closes it.
func streamFile(c echo.Context, file usecase.StoredFile, disposition string) error {
	defer file.Body.Close()
	if disposition != "" {
		c.Response().Header().Set(echo.HeaderContentDisposition, disposition+`; filename="`+file.Filename+`"`)
	}
	return c.Stream(http.StatusOK, file.ContentType, file.Body)
}
