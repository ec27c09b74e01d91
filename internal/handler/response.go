package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tablebook/internal/auth"
	"tablebook/internal/errors"
	"tablebook/internal/repository"
)

// SuccessResponse represents the success envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page repository.Page, total int64) Pagination {
	return Pagination{
		Page:  page.Number,
		Limit: page.Size,
		Total: total,
		Pages: page.Pages(total),
	}
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// fail converts err into an echo error carrying the failure envelope.
// Internal errors keep their cause for the error handler to log.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	he := echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	if httpErr.StatusCode >= http.StatusInternalServerError {
		he = he.SetInternal(err)
	}
	return he
}

func invalidBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Message: "invalid request body",
		Code:    string(errors.KindValidation),
	})
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(req); err != nil {
		return fail(err)
	}
	return nil
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fail(errors.ErrInvalidID)
	}
	return uint(id), nil
}

// pageFromQuery reads page and limit; bad values fall back to defaults.
func pageFromQuery(c echo.Context) repository.Page {
	number, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	return repository.NewPage(number, size)
}

// currentIdentity returns the caller attached by the auth middleware.
func currentIdentity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, fail(errors.ErrInvalidToken)
	}
	return id, nil
}
