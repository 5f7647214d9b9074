package booking

import "context"

// Seat map states reported by Availability.  BOOKED means a claim row
// exists; HELD means an unexpired hold exists; everything else is FREE.
const (
    SeatFree   = "FREE"
    SeatHeld   = "HELD"
    SeatBooked = "BOOKED"
)

// BookedSeats returns the set of seat identifiers already claimed for a
// showtime.  Claim rows are deleted when a booking is cancelled, so the
// claim table is exactly the union of claimed seats over non-cancelled
// bookings.
func (e *Engine) BookedSeats(ctx context.Context, showtimeID uint64) (map[string]struct{}, error) {
    if _, err := e.Catalog.ShowtimeByID(ctx, showtimeID); err != nil {
        return nil, err
    }
    return e.Claims.ClaimedSeats(ctx, showtimeID)
}

// Availability resolves a showtime and reports the state of every seat
// in its universe.  The returned map has one entry per enumerated seat
// with value SeatFree, SeatHeld or SeatBooked.
func (e *Engine) Availability(ctx context.Context, showtimeID uint64) (*ShowtimeView, map[string]string, error) {
    view, err := e.Resolve(ctx, showtimeID)
    if err != nil {
        return nil, nil, err
    }
    booked, err := e.Claims.ClaimedSeats(ctx, showtimeID)
    if err != nil {
        return nil, nil, err
    }
    held, err := e.Holds.ActiveHolds(ctx, showtimeID, e.now())
    if err != nil {
        return nil, nil, err
    }
    states := make(map[string]string, len(view.Seats))
    for _, s := range view.Seats {
        switch {
        case hasSeat(booked, s.ID):
            states[s.ID] = SeatBooked
        case held[s.ID] != 0:
            states[s.ID] = SeatHeld
        default:
            states[s.ID] = SeatFree
        }
    }
    return view, states, nil
}

// IsAvailable reports whether every requested seat belongs to the
// showtime's seat universe and none of them is claimed or held.  This
// is a convenience read for clients; Reserve re-checks under the claim
// store's uniqueness guarantee, so a true result here is never relied
// on for correctness.
func (e *Engine) IsAvailable(ctx context.Context, showtimeID uint64, seatIDs []string) (bool, error) {
    view, states, err := e.Availability(ctx, showtimeID)
    if err != nil {
        return false, err
    }
    requested, err := normalizeSeatIDs(view, seatIDs)
    if err != nil {
        return false, err
    }
    for _, id := range requested {
        if states[id] != SeatFree {
            return false, nil
        }
    }
    return true, nil
}

func hasSeat(set map[string]struct{}, id string) bool {
    _, ok := set[id]
    return ok
}
