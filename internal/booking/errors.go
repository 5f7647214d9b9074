// Package booking implements the seat reservation core: resolving a
// showtime to its hall layout, tracking availability, atomically
// claiming seats, pricing, persisting bookings and processing
// check-ins.  Handlers translate the error values defined here into
// HTTP responses; the core itself knows nothing about HTTP.
package booking

import (
    "errors"
    "fmt"
    "strings"
)

// ErrNotFound is returned when a showtime, movie, hall or booking does
// not exist.  Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// booking they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrShowtimeClosed is returned when a reservation or cancellation is
// attempted after the showtime has started.
var ErrShowtimeClosed = errors.New("showtime already started")

// ErrCheckedIn is returned when a cancellation is attempted on a
// booking that was already checked in at the door.
var ErrCheckedIn = errors.New("booking already checked in")

// ErrInvalidTicket is returned when a scanned check-in payload is
// malformed or fails signature verification.  It is reported to the
// operator and never retried.
var ErrInvalidTicket = errors.New("invalid ticket")

// ErrTicketVoid is returned when a scanned ticket belongs to a
// cancelled booking.
var ErrTicketVoid = errors.New("ticket void: booking was cancelled")

// InvalidSeatError rejects a seat request before any mutation: the
// request was empty, contained duplicates, or named seats outside the
// hall's enumerated universe.  Requests are rejected wholesale; Seats
// lists the offending identifiers when there are any.
type InvalidSeatError struct {
    Seats  []string
    Reason string
}

func (e *InvalidSeatError) Error() string {
    if len(e.Seats) == 0 {
        return fmt.Sprintf("invalid seat request: %s", e.Reason)
    }
    return fmt.Sprintf("invalid seat request: %s: %s", e.Reason, strings.Join(e.Seats, ", "))
}

// SeatsUnavailableError reports a claim conflict.  Seats names exactly
// the requested seats that are already taken or held so the client can
// re-render its seat map and retry with a different selection.  No
// partial claim is left behind when this error is returned.
type SeatsUnavailableError struct {
    Seats []string
}

func (e *SeatsUnavailableError) Error() string {
    return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Seats, ", "))
}
