package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
)

// StaffHandler serves the door: scanning ticket payloads and marking
// bookings checked in.
type StaffHandler struct {
    Engine *booking.Engine
}

// NewStaffHandler constructs a StaffHandler; the engine must be non-nil.
func NewStaffHandler(engine *booking.Engine) *StaffHandler {
    if engine == nil {
        panic("nil engine passed to NewStaffHandler")
    }
    return &StaffHandler{Engine: engine}
}

type checkInReq struct {
    Payload string `json:"payload"`
}

// CheckIn handles POST /v1/checkin.  The body carries the payload
// decoded from the scanned QR code.  Re-scanning an already checked-in
// ticket returns 200 with the booking unchanged; its checked_in_at
// timestamp tells the operator when the first scan happened.
func (h *StaffHandler) CheckIn(c echo.Context) error {
    var body checkInReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    payload := strings.TrimSpace(body.Payload)
    if payload == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payload required"})
    }
    b, err := h.Engine.CheckIn(c.Request().Context(), payload)
    if err != nil {
        return bookingError(c, err)
    }
    // CheckedInAt earlier than this request means the scan was a repeat.
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
