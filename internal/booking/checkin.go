package booking

import (
    "context"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// CheckIn validates a scanned ticket payload and transitions the
// booking it names to CHECKED_IN.  Re-scanning an already checked-in
// ticket is a no-op that returns the booking unchanged, so door
// operators can scan twice without errors.  Cancelled bookings yield
// ErrTicketVoid; malformed or forged payloads yield ErrInvalidTicket.
func (e *Engine) CheckIn(ctx context.Context, payload string) (model.Booking, error) {
    bookingID, err := e.Signer.Verify(payload)
    if err != nil {
        return model.Booking{}, ErrInvalidTicket
    }
    b, err := e.Bookings.ByID(ctx, bookingID)
    if err != nil {
        return model.Booking{}, err
    }
    switch b.Status {
    case model.BookingCancelled:
        return model.Booking{}, ErrTicketVoid
    case model.BookingCheckedIn:
        return b, nil
    }
    at := e.now()
    ok, err := e.Bookings.MarkCheckedIn(ctx, bookingID, at)
    if err != nil {
        return model.Booking{}, err
    }
    if !ok {
        // Lost a race with a concurrent scan or a cancellation; the
        // refreshed record tells us which.
        cur, err := e.Bookings.ByID(ctx, bookingID)
        if err != nil {
            return model.Booking{}, err
        }
        if cur.Status == model.BookingCancelled {
            return model.Booking{}, ErrTicketVoid
        }
        return cur, nil
    }
    b.Status = model.BookingCheckedIn
    b.CheckedInAt = &at
    return b, nil
}
