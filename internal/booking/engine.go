package booking

import (
    "context"
    "fmt"
    "log"
    "sort"
    "strings"
    "time"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/ticket"
)

// DefaultHoldTTL is how long a seat hold lives when no explicit TTL is
// configured.
const DefaultHoldTTL = 5 * time.Minute

// Engine is the seat reservation core.  All operations take an
// explicit user identifier instead of reading any ambient session
// state, so the engine can be driven by HTTP handlers, tests or a
// future CLI alike.  The only shared resource is the persistent store
// behind the Store interfaces; the engine itself is stateless and safe
// for concurrent use.
type Engine struct {
    Catalog  CatalogStore
    Claims   ClaimStore
    Holds    HoldStore
    Bookings BookingStore
    Signer   *ticket.Signer

    // HoldTTL is the lifetime of seat holds.  Zero means DefaultHoldTTL.
    HoldTTL time.Duration
    // Now is the clock used for showtime-closed and hold-expiry
    // decisions.  Tests override it; nil means time.Now.
    Now func() time.Time
}

// NewEngine wires an Engine.  All store dependencies and the signer
// must be non-nil.
func NewEngine(catalog CatalogStore, claims ClaimStore, holds HoldStore, bookings BookingStore, signer *ticket.Signer) *Engine {
    if catalog == nil || claims == nil || holds == nil || bookings == nil || signer == nil {
        panic("nil dependency passed to NewEngine")
    }
    return &Engine{Catalog: catalog, Claims: claims, Holds: holds, Bookings: bookings, Signer: signer}
}

func (e *Engine) now() time.Time {
    if e.Now != nil {
        return e.Now().UTC()
    }
    return time.Now().UTC()
}

func (e *Engine) holdTTL() time.Duration {
    if e.HoldTTL > 0 {
        return e.HoldTTL
    }
    return DefaultHoldTTL
}

// normalizeSeatIDs trims the requested identifiers and validates them
// against the showtime's enumerated universe.  The request is rejected
// wholesale when it is empty, contains duplicates, or names any seat
// outside the universe.
func normalizeSeatIDs(view *ShowtimeView, seatIDs []string) ([]string, error) {
    if len(seatIDs) == 0 {
        return nil, &InvalidSeatError{Reason: "no seats requested"}
    }
    out := make([]string, 0, len(seatIDs))
    seen := make(map[string]struct{}, len(seatIDs))
    var dups, unknown []string
    for _, raw := range seatIDs {
        id := strings.TrimSpace(raw)
        if id == "" {
            return nil, &InvalidSeatError{Reason: "empty seat identifier"}
        }
        if _, ok := seen[id]; ok {
            dups = append(dups, id)
            continue
        }
        seen[id] = struct{}{}
        if _, ok := view.Seat(id); !ok {
            unknown = append(unknown, id)
            continue
        }
        out = append(out, id)
    }
    if len(dups) > 0 {
        return nil, &InvalidSeatError{Seats: dups, Reason: "duplicate seat identifiers"}
    }
    if len(unknown) > 0 {
        return nil, &InvalidSeatError{Seats: unknown, Reason: "seats not in hall layout"}
    }
    return out, nil
}

// Hold places a short-lived hold on the requested seats so the caller
// can complete checkout without the seat map shifting underneath.  It
// returns the expiry timestamp.  Seats that are already claimed or
// held (by anyone) surface as SeatsUnavailableError.
func (e *Engine) Hold(ctx context.Context, userID, showtimeID uint64, seatIDs []string) (time.Time, error) {
    view, err := e.Resolve(ctx, showtimeID)
    if err != nil {
        return time.Time{}, err
    }
    now := e.now()
    if !view.Showtime.StartsAt.After(now) {
        return time.Time{}, ErrShowtimeClosed
    }
    requested, err := normalizeSeatIDs(view, seatIDs)
    if err != nil {
        return time.Time{}, err
    }
    booked, err := e.Claims.ClaimedSeats(ctx, showtimeID)
    if err != nil {
        return time.Time{}, err
    }
    held, err := e.Holds.ActiveHolds(ctx, showtimeID, now)
    if err != nil {
        return time.Time{}, err
    }
    var taken []string
    for _, id := range requested {
        if hasSeat(booked, id) || held[id] != 0 {
            taken = append(taken, id)
        }
    }
    if len(taken) > 0 {
        return time.Time{}, &SeatsUnavailableError{Seats: taken}
    }
    expiresAt := now.Add(e.holdTTL())
    conflicts, err := e.Holds.CreateHolds(ctx, userID, showtimeID, requested, expiresAt)
    if err != nil {
        return time.Time{}, err
    }
    if len(conflicts) > 0 {
        // Lost the insert race; nothing was written for the caller.
        return time.Time{}, &SeatsUnavailableError{Seats: conflicts}
    }
    return expiresAt, nil
}

// ReleaseHolds drops all of the caller's holds on a showtime and
// returns how many seats were released.
func (e *Engine) ReleaseHolds(ctx context.Context, userID, showtimeID uint64) (int, error) {
    if _, err := e.Catalog.ShowtimeByID(ctx, showtimeID); err != nil {
        return 0, err
    }
    seats, err := e.Holds.ReleaseHolds(ctx, userID, showtimeID)
    if err != nil {
        return 0, err
    }
    return len(seats), nil
}

// Reserve runs the reservation state machine: validate the request,
// atomically claim the seats, price them from the hall's pricing
// table, persist the booking and attach its ticket.
//
// Claim conflicts are reported as SeatsUnavailableError naming the
// taken seats and leave no residual state, so the caller can re-fetch
// availability and retry with a different selection.  Failures after
// the claim release it again before surfacing: a booking never exists
// with seats unclaimed, and claims never outlive a failed booking.
func (e *Engine) Reserve(ctx context.Context, userID, showtimeID uint64, seatIDs []string) (model.Booking, error) {
    view, err := e.Resolve(ctx, showtimeID)
    if err != nil {
        return model.Booking{}, err
    }
    now := e.now()
    if !view.Showtime.StartsAt.After(now) {
        return model.Booking{}, ErrShowtimeClosed
    }
    requested, err := normalizeSeatIDs(view, seatIDs)
    if err != nil {
        return model.Booking{}, err
    }

    // Seats held by someone else are unavailable.  This read is
    // advisory; the claim insert below is what actually excludes
    // concurrent reservations.
    held, err := e.Holds.ActiveHolds(ctx, showtimeID, now)
    if err != nil {
        return model.Booking{}, err
    }
    var heldByOther []string
    for _, id := range requested {
        if holder := held[id]; holder != 0 && holder != userID {
            heldByOther = append(heldByOther, id)
        }
    }
    if len(heldByOther) > 0 {
        return model.Booking{}, &SeatsUnavailableError{Seats: heldByOther}
    }

    // Price from the server-side pricing table.  Client-supplied
    // prices never reach this path.
    seats := make([]model.BookingSeat, 0, len(requested))
    total := uint32(0)
    for _, id := range requested {
        info, _ := view.Seat(id)
        seats = append(seats, model.BookingSeat{SeatID: id, PriceCents: info.PriceCents})
        total += info.PriceCents
    }

    b := model.Booking{
        UserID:     userID,
        ShowtimeID: showtimeID,
        Status:     model.BookingPending,
        TotalCents: total,
        Seats:      seats,
    }
    if err := e.Bookings.Create(ctx, &b); err != nil {
        return model.Booking{}, fmt.Errorf("create booking: %w", err)
    }

    conflicts, err := e.Claims.Claim(ctx, showtimeID, b.ID, requested)
    if err != nil {
        e.compensate(ctx, b.ID, false)
        return model.Booking{}, fmt.Errorf("claim seats: %w", err)
    }
    if len(conflicts) > 0 {
        // The pending row never had claims, so deleting it restores
        // the pre-request state exactly.
        e.compensate(ctx, b.ID, false)
        sort.Strings(conflicts)
        return model.Booking{}, &SeatsUnavailableError{Seats: conflicts}
    }

    payload := e.Signer.Payload(b.ID)
    if err := e.Bookings.Confirm(ctx, b.ID, payload); err != nil {
        e.compensate(ctx, b.ID, true)
        return model.Booking{}, fmt.Errorf("confirm booking: %w", err)
    }
    b.Status = model.BookingConfirmed
    b.Ticket = payload

    // Consume the caller's holds on this showtime; they served their
    // purpose.  Failure here is harmless: the holds expire on their own.
    if _, err := e.Holds.ReleaseHolds(ctx, userID, showtimeID); err != nil {
        log.Printf("booking: release holds after reserve failed: %v", err)
    }
    return b, nil
}

// compensate undoes a partially completed reservation.  Claim release
// and row deletion are retried nowhere: both operations are idempotent
// and a leftover pending row is invisible to availability, which only
// reads claim rows.
func (e *Engine) compensate(ctx context.Context, bookingID uint64, claimed bool) {
    if claimed {
        if err := e.Claims.ReleaseByBooking(ctx, bookingID); err != nil {
            log.Printf("booking: compensating claim release failed for booking %d: %v", bookingID, err)
        }
    }
    if err := e.Bookings.Delete(ctx, bookingID); err != nil {
        log.Printf("booking: compensating delete failed for booking %d: %v", bookingID, err)
    }
}

// BookingForUser returns a booking owned by the given user.  Admin
// callers use the store directly; this accessor enforces ownership for
// customer-facing reads.
func (e *Engine) BookingForUser(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
    b, err := e.Bookings.ByID(ctx, bookingID)
    if err != nil {
        return model.Booking{}, err
    }
    if b.UserID != userID {
        return model.Booking{}, ErrForbidden
    }
    return b, nil
}

// Cancel voids a confirmed booking before its showtime starts and
// releases the seat claims so the seats become bookable again.  The
// seat list on the booking record is kept for history.
func (e *Engine) Cancel(ctx context.Context, userID, bookingID uint64) error {
    b, err := e.BookingForUser(ctx, userID, bookingID)
    if err != nil {
        return err
    }
    switch b.Status {
    case model.BookingCancelled:
        return nil // already cancelled, nothing to do
    case model.BookingCheckedIn:
        return ErrCheckedIn
    }
    st, err := e.Catalog.ShowtimeByID(ctx, b.ShowtimeID)
    if err != nil {
        return err
    }
    if !st.StartsAt.After(e.now()) {
        return ErrShowtimeClosed
    }
    ok, err := e.Bookings.MarkCancelled(ctx, bookingID)
    if err != nil {
        return err
    }
    if !ok {
        // Raced with a check-in or another cancel; report the current state.
        cur, err := e.Bookings.ByID(ctx, bookingID)
        if err != nil {
            return err
        }
        if cur.Status == model.BookingCheckedIn {
            return ErrCheckedIn
        }
        return nil
    }
    return e.Claims.ReleaseByBooking(ctx, bookingID)
}
