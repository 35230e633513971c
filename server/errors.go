package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"schematic/diagram"
	"schematic/export"
	"schematic/render"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 error for a bad query parameter.
func NewValidationError(field string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewInternalError creates a 500 error.
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// renderError maps a build or render failure to a response.
func renderError(err error) *APIError {
	var construction *diagram.ConstructionError
	var overflow *render.OverflowError
	var backend *render.BackendError
	switch {
	case errors.Is(err, export.ErrPageTooLarge):
		return &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "PAGE_TOO_LARGE",
			Message: "page exceeds the configured size limit",
			Details: err.Error(),
		}
	case errors.As(err, &overflow):
		return &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "LAYOUT_OVERFLOW",
			Message: "document overflows its layout",
			Details: overflow.Error(),
		}
	case errors.As(err, &construction):
		return &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "INVALID_DOCUMENT",
			Message: "document is not well formed",
			Details: construction.Error(),
		}
	case errors.As(err, &backend):
		return NewInternalError("drawing backend failed", backend)
	default:
		return NewBadRequestError("failed to read document", err)
	}
}

// ErrorHandler writes errors as APIError JSON.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = NewInternalError("an unexpected error occurred", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	_ = c.JSON(apiErr.Status, apiErr)
}
