package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an error into the categories the API exposes.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_FAILED"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInvalidState Kind = "INVALID_STATE"
	KindInternal     Kind = "INTERNAL_ERROR"
)

var kindStatus = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindInvalidState: http.StatusBadRequest,
	KindInternal:     http.StatusInternalServerError,
}

// DomainError is a business rule failure that is safe to show to the caller.
type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// New creates a domain error of the given kind.
func New(kind Kind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

var (
	// ErrRestaurantNotFound is returned when a restaurant does not exist.
	ErrRestaurantNotFound = New(KindNotFound, "restaurant not found")
	// ErrReservationNotFound is returned when a reservation does not exist or belongs to another user.
	ErrReservationNotFound = New(KindNotFound, "reservation not found")
	// ErrUserNotFound is returned when the authenticated user no longer exists.
	ErrUserNotFound = New(KindNotFound, "user not found")

	// ErrDateInPast is returned when a reservation date is before today.
	ErrDateInPast = New(KindValidation, "reservation date cannot be in the past")
	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
	ErrInvalidDate = New(KindValidation, "date must be in YYYY-MM-DD format")
	// ErrInvalidTime is returned when a time is not in HH:MM form.
	ErrInvalidTime = New(KindValidation, "time must be in HH:MM format")
	// ErrInvalidPeopleCount is returned when the party size is out of range.
	ErrInvalidPeopleCount = New(KindValidation, "people_count must be between 1 and 20")
	// ErrSpecialRequestsTooLong is returned when special requests exceed 500 characters.
	ErrSpecialRequestsTooLong = New(KindValidation, "special_requests must not exceed 500 characters")
	// ErrNoFieldsToUpdate is returned when an update carries no updatable field.
	ErrNoFieldsToUpdate = New(KindValidation, "no fields to update")
	// ErrInvalidID is returned when a path id is not a positive integer.
	ErrInvalidID = New(KindValidation, "invalid id")

	// ErrReservationNotModifiable is returned when updating a cancelled or completed reservation.
	ErrReservationNotModifiable = New(KindInvalidState, "cannot modify a cancelled or completed reservation")
	// ErrReservationAlreadyCancelled is returned when cancelling a cancelled reservation.
	ErrReservationAlreadyCancelled = New(KindInvalidState, "reservation is already cancelled")
	// ErrReservationCompleted is returned when cancelling a completed reservation.
	ErrReservationCompleted = New(KindInvalidState, "reservation is already completed")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = New(KindConflict, "user with this email already exists")

	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = New(KindUnauthorized, "invalid email or password")
	// ErrInvalidToken is returned when a bearer token is missing, malformed, expired or revoked.
	ErrInvalidToken = New(KindUnauthorized, "invalid or expired token")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = New(KindUnauthorized, "invalid or expired refresh token")
)

// FieldErrors carries per-field request validation messages.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// KindOf returns the kind of err; unknown errors are internal.
func KindOf(err error) Kind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	var fields FieldErrors
	if errors.As(err, &fields) {
		return KindValidation
	}
	return KindInternal
}

// ErrorResponse represents the failure envelope.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
		Errors:  e.Fields,
	}
}

// CodeForStatus returns the error code used for a bare HTTP status, such as
// the router's own 404 and 405 responses.
func CodeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return string(KindUnauthorized)
	case status == http.StatusNotFound || status == http.StatusMethodNotAllowed:
		return string(KindNotFound)
	case status == http.StatusConflict:
		return string(KindConflict)
	case status >= http.StatusInternalServerError:
		return string(KindInternal)
	default:
		return string(KindValidation)
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised
// becomes a generic internal error so no detail leaks to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	var fields FieldErrors
	if errors.As(err, &fields) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", string(KindValidation))
		httpErr.Fields = fields
		return httpErr
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return NewHTTPError(kindStatus[domainErr.Kind], domainErr.Message, string(domainErr.Kind))
	}

	return NewHTTPError(http.StatusInternalServerError, "internal server error", string(KindInternal))
}
