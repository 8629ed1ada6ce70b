package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayware/booking-service/internal/models"
	"github.com/stayware/booking-service/internal/service"
)

// StatusFor maps the booking error taxonomy onto HTTP status codes: bad
// input 400, missing entities 404, booking conflicts and lifecycle
// violations 409, anything else 500. Handlers wrap service errors through
// it, and ErrorHandler falls back to it for domain errors that reach echo
// unwrapped.
func StatusFor(err error) int {
	var transition *models.InvalidTransitionError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrGuestNotFound),
		errors.Is(err, service.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrRoomUnavailable),
		errors.Is(err, service.ErrAlreadyTerminal),
		errors.Is(err, service.ErrRoomHasReservations):
		return http.StatusConflict
	case errors.As(err, &transition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error in the {"message": ...} envelope the
// reservation API uses throughout.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := StatusFor(err)
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, map[string]string{"message": msg})
}
