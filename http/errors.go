package http

import (
	"errors"
	"fmt"
	"net/http"
	"ticketing/app"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

var statusByKind = map[app.Kind]int{
	app.KindValidation:     http.StatusBadRequest,
	app.KindAuthentication: http.StatusUnauthorized,
	app.KindAuthorization:  http.StatusForbidden,
	app.KindNotFound:       http.StatusNotFound,
	app.KindConflict:       http.StatusBadRequest,
}

type errorResponse struct {
	Error string `json:"error"`
}

func toHTTPError(err error) *echo.HTTPError {
	var appErr *app.Error
	if !errors.As(err, &appErr) {
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  "Internal server error",
			Internal: err,
		}
	}

	code, ok := statusByKind[appErr.Kind]
	if !ok {
		code = http.StatusInternalServerError
	}

	return &echo.HTTPError{
		Code:     code,
		Message:  appErr.Message,
		Internal: err,
	}
}

// toProfileHTTPError reports rejected usernames as 422.
func toProfileHTTPError(err error) *echo.HTTPError {
	httpErr := toHTTPError(err)
	switch app.KindOf(err) {
	case app.KindValidation, app.KindConflict:
		httpErr.Code = http.StatusUnprocessableEntity
	}
	return httpErr
}

func badRequest(err error) *echo.HTTPError {
	return &echo.HTTPError{
		Code:     http.StatusBadRequest,
		Message:  "Invalid request body",
		Internal: fmt.Errorf("binding request: %w", err),
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		switch {
		case httpErr == echo.ErrNotFound:
			message = "Endpoint not found"
		case httpErr == echo.ErrMethodNotAllowed:
			message = "Method not allowed"
		case code >= http.StatusInternalServerError:
		default:
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}
	}

	logger := log.FromContext(c.Request().Context()).WithError(err).WithField("status", code)
	if code >= http.StatusInternalServerError {
		logger.Error("Request failed")
	} else {
		logger.Debug("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: message})
	}
	if err != nil {
		logger.WithError(err).Error("Writing error response")
	}
}
