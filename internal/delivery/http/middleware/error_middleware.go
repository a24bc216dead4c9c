package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "esanspool/internal/delivery/context"
	"esanspool/internal/delivery/http/response"
	domainerrors "esanspool/internal/domain/errors"
)

// ErrorMiddleware maps errors escaping the handlers onto the unified
// response envelope. Domain errors keep their HTTP status, business code and
// Turkish message; anything unrecognized is logged and masked as a 500.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware is the constructor for ErrorMiddleware.
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		respond(c, appErr.HTTPCode(), appErr.Message(), appErr.ErrorCode(), appErr.Details())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, _ := httpErr.Message.(string)
		if message == "" {
			message = http.StatusText(httpErr.Code)
		}
		respond(c, httpErr.Code, message, "HTTP_ERROR", message)

		return
	}

	m.logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
		slog.String("request_id", deliverycontext.GetRequestID(c)),
	)

	respond(c, http.StatusInternalServerError,
		domainerrors.ErrInternalError.Message(), "INTERNAL_ERROR", err.Error())
}

func respond(c echo.Context, status int, message, code, details string) {
	//nolint:errcheck
	c.JSON(status, response.Response{
		Success: false,
		Code:    status,
		Message: message,
		Error: &response.ErrorInfo{
			Code:    code,
			Details: details,
		},
	})
}
