// Package bookingtest provides an in-memory implementation of the
// booking store interfaces.  Tests drive the engine against it instead
// of a live MySQL server; the claim map is guarded by a mutex so the
// uniqueness guarantee of the real seat_claims table holds under
// concurrent Reserve calls too.
package bookingtest

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

type claimKey struct {
    showtimeID uint64
    seatID     string
}

type hold struct {
    userID    uint64
    expiresAt time.Time
}

type holdKey struct {
    showtimeID uint64
    seatID     string
}

// Store implements booking.CatalogStore, booking.ClaimStore,
// booking.HoldStore and booking.BookingStore in memory.
type Store struct {
    mu sync.Mutex

    movies    map[uint64]model.Movie
    halls     map[uint64]model.Hall
    showtimes map[uint64]model.Showtime
    bookings  map[uint64]model.Booking
    claims    map[claimKey]uint64 // -> booking ID
    holds     map[holdKey]hold
    nextID    uint64

    // ConfirmErr, when set, makes Confirm fail.  Used to exercise the
    // engine's compensating rollback.
    ConfirmErr error
    // CreateErr, when set, makes booking Create fail.
    CreateErr error
}

// New returns an empty Store.
func New() *Store {
    return &Store{
        movies:    make(map[uint64]model.Movie),
        halls:     make(map[uint64]model.Hall),
        showtimes: make(map[uint64]model.Showtime),
        bookings:  make(map[uint64]model.Booking),
        claims:    make(map[claimKey]uint64),
        holds:     make(map[holdKey]hold),
    }
}

func (s *Store) nextIDLocked() uint64 {
    s.nextID++
    return s.nextID
}

// AddMovie seeds a movie and returns its ID.
func (s *Store) AddMovie(m model.Movie) uint64 {
    s.mu.Lock()
    defer s.mu.Unlock()
    if m.ID == 0 {
        m.ID = s.nextIDLocked()
    }
    s.movies[m.ID] = m
    return m.ID
}

// AddHall seeds a hall and returns its ID.
func (s *Store) AddHall(h model.Hall) uint64 {
    s.mu.Lock()
    defer s.mu.Unlock()
    if h.ID == 0 {
        h.ID = s.nextIDLocked()
    }
    s.halls[h.ID] = h
    return h.ID
}

// AddShowtime seeds a showtime and returns its ID.
func (s *Store) AddShowtime(st model.Showtime) uint64 {
    s.mu.Lock()
    defer s.mu.Unlock()
    if st.ID == 0 {
        st.ID = s.nextIDLocked()
    }
    s.showtimes[st.ID] = st
    return st.ID
}

// ---- booking.CatalogStore ----

func (s *Store) ShowtimeByID(_ context.Context, id uint64) (model.Showtime, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    st, ok := s.showtimes[id]
    if !ok {
        return model.Showtime{}, booking.ErrNotFound
    }
    return st, nil
}

func (s *Store) MovieByID(_ context.Context, id uint64) (model.Movie, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    m, ok := s.movies[id]
    if !ok {
        return model.Movie{}, booking.ErrNotFound
    }
    return m, nil
}

func (s *Store) HallByID(_ context.Context, id uint64) (model.Hall, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    h, ok := s.halls[id]
    if !ok {
        return model.Hall{}, booking.ErrNotFound
    }
    return h, nil
}

// ---- booking.ClaimStore ----

func (s *Store) Claim(_ context.Context, showtimeID, bookingID uint64, seatIDs []string) ([]string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var conflicts []string
    for _, id := range seatIDs {
        if _, taken := s.claims[claimKey{showtimeID, id}]; taken {
            conflicts = append(conflicts, id)
        }
    }
    if len(conflicts) > 0 {
        return conflicts, nil
    }
    for _, id := range seatIDs {
        s.claims[claimKey{showtimeID, id}] = bookingID
    }
    return nil, nil
}

func (s *Store) ReleaseByBooking(_ context.Context, bookingID uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    for k, owner := range s.claims {
        if owner == bookingID {
            delete(s.claims, k)
        }
    }
    return nil
}

func (s *Store) ClaimedSeats(_ context.Context, showtimeID uint64) (map[string]struct{}, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make(map[string]struct{})
    for k := range s.claims {
        if k.showtimeID == showtimeID {
            out[k.seatID] = struct{}{}
        }
    }
    return out, nil
}

// ---- booking.HoldStore ----

func (s *Store) ActiveHolds(_ context.Context, showtimeID uint64, now time.Time) (map[string]uint64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make(map[string]uint64)
    for k, h := range s.holds {
        if k.showtimeID == showtimeID && h.expiresAt.After(now) {
            out[k.seatID] = h.userID
        }
    }
    return out, nil
}

func (s *Store) CreateHolds(_ context.Context, userID, showtimeID uint64, seatIDs []string, expiresAt time.Time) ([]string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    var conflicts []string
    for _, id := range seatIDs {
        if h, ok := s.holds[holdKey{showtimeID, id}]; ok && h.expiresAt.After(now) {
            conflicts = append(conflicts, id)
        }
    }
    if len(conflicts) > 0 {
        return conflicts, nil
    }
    for _, id := range seatIDs {
        s.holds[holdKey{showtimeID, id}] = hold{userID: userID, expiresAt: expiresAt}
    }
    return nil, nil
}

func (s *Store) ReleaseHolds(_ context.Context, userID, showtimeID uint64) ([]string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var released []string
    for k, h := range s.holds {
        if k.showtimeID == showtimeID && h.userID == userID {
            released = append(released, k.seatID)
            delete(s.holds, k)
        }
    }
    return released, nil
}

// ---- booking.BookingStore ----

func (s *Store) Create(_ context.Context, b *model.Booking) error {
    if s.CreateErr != nil {
        return s.CreateErr
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    b.ID = s.nextIDLocked()
    b.CreatedAt = time.Now().UTC()
    b.UpdatedAt = b.CreatedAt
    s.bookings[b.ID] = cloneBooking(*b)
    return nil
}

func (s *Store) Confirm(_ context.Context, id uint64, ticketPayload string) error {
    if s.ConfirmErr != nil {
        return s.ConfirmErr
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return booking.ErrNotFound
    }
    if b.Status != model.BookingPending {
        return errors.New("bookingtest: confirm on non-pending booking")
    }
    b.Status = model.BookingConfirmed
    b.Ticket = ticketPayload
    b.UpdatedAt = time.Now().UTC()
    s.bookings[id] = b
    return nil
}

func (s *Store) Delete(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    delete(s.bookings, id)
    return nil
}

func (s *Store) ByID(_ context.Context, id uint64) (model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return model.Booking{}, booking.ErrNotFound
    }
    return cloneBooking(b), nil
}

func (s *Store) MarkCheckedIn(_ context.Context, id uint64, at time.Time) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return false, booking.ErrNotFound
    }
    if b.Status != model.BookingConfirmed {
        return false, nil
    }
    b.Status = model.BookingCheckedIn
    b.CheckedInAt = &at
    b.UpdatedAt = at
    s.bookings[id] = b
    return true, nil
}

func (s *Store) MarkCancelled(_ context.Context, id uint64) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return false, booking.ErrNotFound
    }
    if b.Status != model.BookingConfirmed {
        return false, nil
    }
    b.Status = model.BookingCancelled
    b.UpdatedAt = time.Now().UTC()
    s.bookings[id] = b
    return true, nil
}

// List methods mirror the SQL store: PENDING rows belong to an
// in-flight reservation attempt and never appear in list reads.

func (s *Store) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Booking
    for _, b := range s.bookings {
        if b.UserID == userID && b.Status != model.BookingPending {
            out = append(out, cloneBooking(b))
        }
    }
    return out, nil
}

func (s *Store) ListByShowtime(_ context.Context, showtimeID uint64) ([]model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Booking
    for _, b := range s.bookings {
        if b.ShowtimeID == showtimeID && b.Status != model.BookingPending {
            out = append(out, cloneBooking(b))
        }
    }
    return out, nil
}

func cloneBooking(b model.Booking) model.Booking {
    seats := make([]model.BookingSeat, len(b.Seats))
    copy(seats, b.Seats)
    b.Seats = seats
    if b.CheckedInAt != nil {
        at := *b.CheckedInAt
        b.CheckedInAt = &at
    }
    return b
}
