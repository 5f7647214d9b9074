package booking

import (
    "context"

    "github.com/iliyamo/cinema-ticket-booking/internal/layout"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ShowtimeView is the joined read model for one showtime: the showtime
// itself, its movie, its hall and the enumerated seat universe.
type ShowtimeView struct {
    Showtime model.Showtime    `json:"showtime"`
    Movie    model.Movie       `json:"movie"`
    Hall     model.Hall        `json:"hall"`
    Seats    []layout.SeatInfo `json:"seats"`

    byID map[string]layout.SeatInfo
}

// Seat looks up one seat of the enumerated universe by identifier.
func (v *ShowtimeView) Seat(id string) (layout.SeatInfo, bool) {
    s, ok := v.byID[id]
    return s, ok
}

// Resolve joins a showtime with its movie, hall and enumerated seats.
// It is a side-effect-free read-through: seat layouts change rarely, so
// no caching is layered here and booking-conflict safety is handled
// downstream by the claim store.  Returns ErrNotFound when the
// showtime, its movie or its hall does not exist, and a layout
// configuration error when the hall data is unusable.
func (e *Engine) Resolve(ctx context.Context, showtimeID uint64) (*ShowtimeView, error) {
    st, err := e.Catalog.ShowtimeByID(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    mv, err := e.Catalog.MovieByID(ctx, st.MovieID)
    if err != nil {
        return nil, err
    }
    hall, err := e.Catalog.HallByID(ctx, st.HallID)
    if err != nil {
        return nil, err
    }
    seats, err := layout.EnumerateSeats(hall)
    if err != nil {
        return nil, err
    }
    v := &ShowtimeView{
        Showtime: st,
        Movie:    mv,
        Hall:     hall,
        Seats:    seats,
        byID:     make(map[string]layout.SeatInfo, len(seats)),
    }
    for _, s := range seats {
        v.byID[s.ID] = s
    }
    return v, nil
}
