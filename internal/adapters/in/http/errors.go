package http

import (
	"errors"
	"log/slog"
	"net/http"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every failed response.
type Error struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  []errs.FieldError `json:"fields,omitempty"`
}

// ErrorHandler maps domain errors to status codes:
//
//	ObjectNotFound          404
//	Validation, bad values  400
//	InvalidTransition       422
//	Conflict, in progress   409
//	AccessDenied            403
//
// Anything else is logged and answered with 500.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := toError(err)
		if body.Code == http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "Request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Code)
		} else {
			err = c.JSON(body.Code, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "Writing error response failed", "error", err)
		}
	}
}

func toError(err error) Error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return Error{Code: httpErr.Code, Message: msg}
	}

	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		return Error{Code: http.StatusBadRequest, Message: "Validation failed", Fields: verr.Fields}
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return Error{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, errs.ErrInvalidTransition):
		return Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	case errors.Is(err, errs.ErrConflict), errors.Is(err, ports.ErrRequestInProgress):
		return Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, errs.ErrAccessDenied):
		return Error{Code: http.StatusForbidden, Message: err.Error()}
	default:
		return Error{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
	}
}
