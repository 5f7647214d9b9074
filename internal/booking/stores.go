package booking

import (
    "context"
    "time"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// The engine talks to the persistent store through the interfaces
// below.  The repository package implements them over MySQL; the
// bookingtest package provides an in-memory implementation for tests.
// Stores return ErrNotFound for missing records so the engine never
// has to know about driver sentinel errors.

// CatalogStore reads the static catalog: movies, halls and showtimes.
type CatalogStore interface {
    ShowtimeByID(ctx context.Context, id uint64) (model.Showtime, error)
    MovieByID(ctx context.Context, id uint64) (model.Movie, error)
    // HallByID returns the hall with its blocks, boxes and pricing
    // table fully loaded.
    HallByID(ctx context.Context, id uint64) (model.Hall, error)
}

// ClaimStore owns the per-seat claim rows that make reservations
// atomic.  The implementation must enforce uniqueness of
// (showtimeID, seatID) across all claims, so that of any set of
// concurrent Claim calls for overlapping seats at most one wins each
// seat.
type ClaimStore interface {
    // Claim atomically inserts one claim row per seat for the given
    // booking.  On conflict it inserts nothing and returns the subset
    // of seatIDs that are already claimed.  A non-nil error indicates
    // a store failure, not a conflict.
    Claim(ctx context.Context, showtimeID, bookingID uint64, seatIDs []string) (conflicts []string, err error)
    // ReleaseByBooking deletes all claim rows of a booking, making its
    // seats available again.
    ReleaseByBooking(ctx context.Context, bookingID uint64) error
    // ClaimedSeats returns the set of seat identifiers currently
    // claimed for a showtime.
    ClaimedSeats(ctx context.Context, showtimeID uint64) (map[string]struct{}, error)
}

// HoldStore manages short-lived seat holds taken during seat
// selection.  Holds are advisory: they keep the seat map honest while
// a customer decides, but the claim rows above remain the sole
// correctness anchor.
type HoldStore interface {
    // ActiveHolds returns seatID -> holding user for all unexpired
    // holds on a showtime.
    ActiveHolds(ctx context.Context, showtimeID uint64, now time.Time) (map[string]uint64, error)
    // CreateHolds inserts holds for the given seats, replacing any
    // expired rows.  It returns the seats that are already held when
    // the insert loses a race.
    CreateHolds(ctx context.Context, userID, showtimeID uint64, seatIDs []string, expiresAt time.Time) (conflicts []string, err error)
    // ReleaseHolds removes all of a user's holds on a showtime and
    // returns the seat identifiers that were released.
    ReleaseHolds(ctx context.Context, userID, showtimeID uint64) ([]string, error)
}

// BookingStore persists booking records and their seat lists.
type BookingStore interface {
    // Create inserts a booking with its seats and populates b.ID and
    // timestamps.
    Create(ctx context.Context, b *model.Booking) error
    // Confirm transitions a PENDING booking to CONFIRMED and attaches
    // its ticket payload.
    Confirm(ctx context.Context, id uint64, ticketPayload string) error
    // Delete removes a booking row entirely.  Used only to compensate
    // a reservation that failed between Create and Confirm.
    Delete(ctx context.Context, id uint64) error
    ByID(ctx context.Context, id uint64) (model.Booking, error)
    // MarkCheckedIn transitions CONFIRMED -> CHECKED_IN with the given
    // timestamp.  It returns false without error when the booking was
    // not in CONFIRMED state, which makes re-scans idempotent.
    MarkCheckedIn(ctx context.Context, id uint64, at time.Time) (bool, error)
    // MarkCancelled transitions CONFIRMED -> CANCELLED.  It returns
    // false when the booking was not in CONFIRMED state.
    MarkCancelled(ctx context.Context, id uint64) (bool, error)
    ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
    ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Booking, error)
}
