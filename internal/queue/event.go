// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID  uint64   `json:"booking_id"`
    UserID     uint64   `json:"user_id"`
    ShowtimeID uint64   `json:"showtime_id"`
    HallID     uint64   `json:"hall_id"`
    HallName   string   `json:"hall_name"`
    MovieTitle string   `json:"movie_title"`
    StartsAt   string   `json:"starts_at"`
    EndsAt     string   `json:"ends_at"`
    SeatIDs    []string `json:"seats"`
    TotalCents uint32   `json:"total_cents"`
    ConfirmedAt string  `json:"confirmed_at"`
}
