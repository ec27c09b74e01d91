package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tablebook/docs"
	"tablebook/internal/config"
	apperrors "tablebook/internal/errors"
	"tablebook/internal/handler"
	"tablebook/internal/logging"
	"tablebook/internal/metrics"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth         *handler.AuthHandler
	Restaurants  *handler.RestaurantHandler
	Reservations *handler.ReservationHandler
	Health       *handler.HealthHandler
}

// Register wires routes and middleware. requireAuth guards every route that
// needs an authenticated caller.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logrus.FieldLogger,
	m *metrics.Metrics,
	requireAuth echo.MiddlewareFunc,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = NewErrorHandler(log)
	e.Validator = NewCustomValidator()

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(m.Middleware())

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", h.Health.Check)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	api.GET("/restaurants", h.Restaurants.List)
	api.GET("/restaurants/meta/cuisines", h.Restaurants.Cuisines)
	api.GET("/restaurants/meta/locations", h.Restaurants.Locations)
	api.GET("/restaurants/:id", h.Restaurants.Get)

	// Secured routes (require JWT authentication)
	secured := api.Group("", requireAuth)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)

	secured.POST("/reservations", h.Reservations.Create)
	secured.GET("/reservations/:id", h.Reservations.Get)
	secured.PUT("/reservations/:id", h.Reservations.Update)
	secured.DELETE("/reservations/:id", h.Reservations.Cancel)
	secured.GET("/user/reservations", h.Reservations.ListMine)
}

// NewErrorHandler renders every error with the failure envelope. Causes of
// internal errors are logged and never sent to the client.
func NewErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			mapped := apperrors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
		}

		var body apperrors.ErrorResponse
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body = apperrors.ErrorResponse{Message: msg, Code: apperrors.CodeForStatus(he.Code)}
		default:
			body = apperrors.ErrorResponse{Message: fmt.Sprint(msg), Code: apperrors.CodeForStatus(he.Code)}
		}

		if he.Code >= http.StatusInternalServerError {
			cause := he.Internal
			if cause == nil {
				cause = err
			}
			log.WithError(cause).WithField("path", c.Path()).Error("internal error")
			body = apperrors.ErrorResponse{Message: "internal server error", Code: string(apperrors.KindInternal)}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(he.Code)
		} else {
			writeErr = c.JSON(he.Code, body)
		}
		if writeErr != nil {
			log.WithError(writeErr).Warn("write error response")
		}
	}
}

// CustomValidator wraps validator for Echo and reports failures per JSON field.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator creates a validator that names fields by their json tag.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(apperrors.FieldErrors, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
