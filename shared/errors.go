package shared

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status and the operator-facing message for a
// domain failure. Data holds optional structured details merged into the
// error body (e.g. required/current XP on a gated lesson).
type AppError struct {
	StatusCode int
	Message    string
	Data       map[string]interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithData attaches structured details to the error body.
func (e *AppError) WithData(data map[string]interface{}) *AppError {
	e.Data = data
	return e
}

func newAppError(statusCode int, err error, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return newAppError(http.StatusForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(http.StatusConflict, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, err, message)
}

// NewAppErrorWithStatus covers statuses without a dedicated constructor
func NewAppErrorWithStatus(statusCode int, message string) *AppError {
	return newAppError(statusCode, nil, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
