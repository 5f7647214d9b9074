package model

import "time"

// Booking status values.  A booking is created PENDING for the short
// window between row insertion and seat claiming, becomes CONFIRMED once
// its seats are claimed and its ticket is attached, transitions to
// CHECKED_IN exactly once at the door, and to CANCELLED when the
// customer cancels before the showtime starts.
const (
    BookingPending   = "PENDING"
    BookingConfirmed = "CONFIRMED"
    BookingCheckedIn = "CHECKED_IN"
    BookingCancelled = "CANCELLED"
)

// BookingSeat records one seat purchased under a booking together with
// the unit price charged for it at reservation time.  The price is
// copied from the hall pricing table when the booking is made so later
// price edits do not rewrite history.
//
// Fields:
//  SeatID     – derived seat identifier (e.g. "Main-A1", "Loge1-2").
//  PriceCents – unit price charged for this seat.
type BookingSeat struct {
    SeatID     string `json:"seat_id"`     // booking_seats.seat_id
    PriceCents uint32 `json:"price_cents"` // booking_seats.price_cents
}

// Booking aggregates the seats a user reserved for one showtime.  The
// authoritative claim on each seat lives in the seat_claims table (one
// row per seat, unique per showtime); Seats here is the permanent
// purchase record and survives cancellation.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – user who made the booking.
//  ShowtimeID   – showtime the seats are booked for.
//  Status       – one of the Booking* constants above.
//  TotalCents   – sum of per-seat prices, recomputed server side.
//  Ticket       – signed ticket payload, present once CONFIRMED.
//  Seats        – seats purchased under this booking.
//  CheckedInAt  – when the ticket was scanned (nil before check-in).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
    ID          uint64        `json:"id"`                      // bookings.id
    UserID      uint64        `json:"user_id"`                 // bookings.user_id
    ShowtimeID  uint64        `json:"showtime_id"`             // bookings.showtime_id
    Status      string        `json:"status"`                  // bookings.status
    TotalCents  uint32        `json:"total_cents"`             // bookings.total_cents
    Ticket      string        `json:"ticket,omitempty"`        // bookings.ticket
    Seats       []BookingSeat `json:"seats"`                   // booking_seats rows
    CheckedInAt *time.Time    `json:"checked_in_at,omitempty"` // bookings.checked_in_at (nullable)
    CreatedAt   time.Time     `json:"created_at"`              // bookings.created_at
    UpdatedAt   time.Time     `json:"updated_at"`              // bookings.updated_at
}

// SeatIDs returns the identifiers of all seats in the booking.
func (b *Booking) SeatIDs() []string {
    ids := make([]string, 0, len(b.Seats))
    for _, s := range b.Seats {
        ids = append(ids, s.SeatID)
    }
    return ids
}
