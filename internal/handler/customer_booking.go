package handler

import (
    "context"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/queue"
    queue_publisher "github.com/iliyamo/cinema-ticket-booking/internal/service"
    "github.com/iliyamo/cinema-ticket-booking/internal/ticket"
)

// CustomerHandler exposes the booking flow to authenticated customers:
// holding seats during selection, reserving them, listing and
// cancelling bookings and downloading the ticket QR image.  All
// correctness-critical work happens inside the booking engine; the
// handler only translates HTTP to engine calls and back.
type CustomerHandler struct {
    Engine *booking.Engine
}

// NewCustomerHandler constructs a CustomerHandler; the engine must be non-nil.
func NewCustomerHandler(engine *booking.Engine) *CustomerHandler {
    if engine == nil {
        panic("nil engine passed to NewCustomerHandler")
    }
    return &CustomerHandler{Engine: engine}
}

type seatSelectionReq struct {
    SeatIDs []string `json:"seat_ids"`
}

// HoldSeats handles POST /v1/showtimes/:id/hold.  Holds are advisory
// and expire on their own; the response reports when.
func (h *CustomerHandler) HoldSeats(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var body seatSelectionReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    expiresAt, err := h.Engine.Hold(c.Request().Context(), userID, showtimeID, body.SeatIDs)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "seat_ids":   body.SeatIDs,
        "expires_at": expiresAt,
    })
}

// ReleaseHolds handles DELETE /v1/showtimes/:id/hold and drops all of
// the caller's holds on the showtime.
func (h *CustomerHandler) ReleaseHolds(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    released, err := h.Engine.ReleaseHolds(c.Request().Context(), userID, showtimeID)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// Reserve handles POST /v1/showtimes/:id/reserve.  On success the
// response carries the confirmed booking including its signed ticket
// payload; a claim conflict returns 409 with the taken seats.
func (h *CustomerHandler) Reserve(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var body seatSelectionReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    b, err := h.Engine.Reserve(c.Request().Context(), userID, showtimeID, body.SeatIDs)
    if err != nil {
        return bookingError(c, err)
    }

    h.publishConfirmed(c.Request().Context(), b.ID, userID, showtimeID, b.SeatIDs(), b.TotalCents)

    return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// publishConfirmed emits a booking.confirmed event to the broker.
// Publishing is best effort: the booking is already committed, so a
// broker outage only costs the downstream log entry.
func (h *CustomerHandler) publishConfirmed(ctx context.Context, bookingID, userID, showtimeID uint64, seatIDs []string, totalCents uint32) {
    view, err := h.Engine.Resolve(ctx, showtimeID)
    if err != nil {
        log.Printf("booking-event: resolve showtime %d failed: %v", showtimeID, err)
        return
    }
    ev := queue.BookingConfirmedEvent{
        BookingID:   bookingID,
        UserID:      userID,
        ShowtimeID:  showtimeID,
        HallID:      view.Hall.ID,
        HallName:    view.Hall.Name,
        MovieTitle:  view.Movie.Title,
        StartsAt:    view.Showtime.StartsAt.UTC().Format(time.RFC3339),
        EndsAt:      view.Showtime.EndsAt.UTC().Format(time.RFC3339),
        SeatIDs:     seatIDs,
        TotalCents:  totalCents,
        ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishBookingConfirmed(pubCtx, ev)
    }()
}

// MyBookings handles GET /v1/bookings.
func (h *CustomerHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookings, err := h.Engine.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// GetBooking handles GET /v1/bookings/:id, enforcing ownership.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Engine.BookingForUser(c.Request().Context(), userID, bookingID)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Cancel handles POST /v1/bookings/:id/cancel.  Cancelling an already
// cancelled booking succeeds; a checked-in booking cannot be cancelled.
func (h *CustomerHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    if err := h.Engine.Cancel(c.Request().Context(), userID, bookingID); err != nil {
        return bookingError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// TicketPNG handles GET /v1/bookings/:id/ticket.png and streams the
// booking's ticket as a QR code image.  The optional `size` query
// parameter sets the image edge in pixels (default 256, max 1024).
func (h *CustomerHandler) TicketPNG(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Engine.BookingForUser(c.Request().Context(), userID, bookingID)
    if err != nil {
        return bookingError(c, err)
    }
    if b.Ticket == "" || b.Status == model.BookingCancelled {
        return c.JSON(http.StatusConflict, echo.Map{"error": "no ticket for this booking"})
    }
    size := 256
    if s := c.QueryParam("size"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n >= 64 && n <= 1024 {
            size = n
        }
    }
    png, err := ticket.PNG(b.Ticket, size)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
    }
    return c.Blob(http.StatusOK, "image/png", png)
}
