package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/layout"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the raw claim value, whose concrete type depends
// on how the token was decoded.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// bookingError translates errors from the booking core into JSON
// responses.  Conflict-style errors carry the offending seat list so
// clients can re-render their seat map.
func bookingError(c echo.Context, err error) error {
    var invalid *booking.InvalidSeatError
    if errors.As(err, &invalid) {
        body := echo.Map{"error": invalid.Reason}
        if len(invalid.Seats) > 0 {
            body["seats"] = invalid.Seats
        }
        return c.JSON(http.StatusBadRequest, body)
    }
    var taken *booking.SeatsUnavailableError
    if errors.As(err, &taken) {
        return c.JSON(http.StatusConflict, echo.Map{
            "error": "seats unavailable",
            "seats": taken.Seats,
        })
    }
    switch {
    case errors.Is(err, booking.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, booking.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, booking.ErrShowtimeClosed):
        return c.JSON(http.StatusConflict, echo.Map{"error": "showtime already started"})
    case errors.Is(err, booking.ErrCheckedIn):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already checked in"})
    case errors.Is(err, booking.ErrInvalidTicket):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket"})
    case errors.Is(err, booking.ErrTicketVoid):
        return c.JSON(http.StatusGone, echo.Map{"error": "ticket void"})
    case layout.IsConfigurationError(err):
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hall layout misconfigured"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
