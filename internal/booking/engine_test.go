package booking_test

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/booking/bookingtest"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/ticket"
)

// newTestEngine seeds a store with one movie, one hall (block "Main"
// 2x3 plus box "Loge1" with 2 seats) and one future showtime, and
// returns the engine with the showtime ID.
func newTestEngine(t *testing.T) (*booking.Engine, *bookingtest.Store, uint64) {
    t.Helper()
    store := bookingtest.New()
    movieID := store.AddMovie(model.Movie{Title: "Arrival", DurationMin: 116})
    hallID := store.AddHall(model.Hall{
        Name:   "Hall 1",
        Blocks: []model.SeatBlock{{Name: "Main", Rows: 2, SeatsPerRow: 3}},
        Boxes:  []model.BoxSeat{{Name: "Loge1", Capacity: 2}},
        Prices: map[model.SeatClass]uint32{
            model.SeatClassRegular: 1000,
            model.SeatClassBox:     2500,
        },
    })
    now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
    showtimeID := store.AddShowtime(model.Showtime{
        MovieID:  movieID,
        HallID:   hallID,
        StartsAt: now.Add(2 * time.Hour),
        EndsAt:   now.Add(4 * time.Hour),
    })
    e := booking.NewEngine(store, store, store, store, ticket.NewSigner("test-secret"))
    e.Now = func() time.Time { return now }
    return e, store, showtimeID
}

func TestReserveConfirmsAndPrices(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1", "Loge1-2"})
    require.NoError(t, err)

    assert.Equal(t, model.BookingConfirmed, b.Status)
    assert.Equal(t, uint32(1000+2500), b.TotalCents)
    assert.Equal(t, []string{"Main-A1", "Loge1-2"}, b.SeatIDs())
    assert.NotEmpty(t, b.Ticket)

    id, err := e.Signer.Verify(b.Ticket)
    require.NoError(t, err)
    assert.Equal(t, b.ID, id)

    booked, err := e.BookedSeats(ctx, showtimeID)
    require.NoError(t, err)
    assert.Contains(t, booked, "Main-A1")
    assert.Contains(t, booked, "Loge1-2")
}

func TestReserveConflictNamesTakenSeats(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    _, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)

    _, err = e.Reserve(ctx, 2, showtimeID, []string{"Main-A2", "Main-A3"})
    var unavailable *booking.SeatsUnavailableError
    require.ErrorAs(t, err, &unavailable)
    assert.Equal(t, []string{"Main-A2"}, unavailable.Seats)

    // The free seat from the failed request is still reservable.
    _, err = e.Reserve(ctx, 2, showtimeID, []string{"Main-A3"})
    require.NoError(t, err)
}

func TestReserveRejectsInvalidSelections(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    tests := []struct {
        name  string
        seats []string
    }{
        {"empty", nil},
        {"duplicate", []string{"Main-A1", "Main-A1"}},
        {"unknown seat", []string{"Main-Z9"}},
        {"unknown among valid", []string{"Main-A1", "Balcony-A1"}},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, err := e.Reserve(ctx, 1, showtimeID, tt.seats)
            var invalid *booking.InvalidSeatError
            assert.ErrorAs(t, err, &invalid)
        })
    }

    // Wholesale rejection: the valid seat of a mixed request stays free.
    booked, err := e.BookedSeats(ctx, showtimeID)
    require.NoError(t, err)
    assert.Empty(t, booked)
}

func TestReserveAfterShowtimeStarted(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    e.Now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }

    _, err := e.Reserve(context.Background(), 1, showtimeID, []string{"Main-A1"})
    assert.ErrorIs(t, err, booking.ErrShowtimeClosed)
}

func TestReserveConcurrentNoDoubleBooking(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    const contenders = 16
    var wg sync.WaitGroup
    results := make([]error, contenders)
    for i := 0; i < contenders; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, err := e.Reserve(ctx, uint64(i+1), showtimeID, []string{"Main-B2"})
            results[i] = err
        }(i)
    }
    wg.Wait()

    winners := 0
    for _, err := range results {
        if err == nil {
            winners++
            continue
        }
        var unavailable *booking.SeatsUnavailableError
        assert.ErrorAs(t, err, &unavailable)
    }
    assert.Equal(t, 1, winners)
}

func TestReserveRollbackOnConfirmFailure(t *testing.T) {
    e, store, showtimeID := newTestEngine(t)
    ctx := context.Background()

    store.ConfirmErr = errors.New("boom")
    _, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.Error(t, err)

    // The claim was released; the seat books normally afterwards.
    store.ConfirmErr = nil
    b, err := e.Reserve(ctx, 2, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)
    assert.Equal(t, model.BookingConfirmed, b.Status)
}

func TestHoldBlocksOtherUsersReserve(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    expiresAt, err := e.Hold(ctx, 1, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)
    assert.True(t, expiresAt.After(e.Now()))

    // Another user cannot reserve or hold the held seats.
    _, err = e.Reserve(ctx, 2, showtimeID, []string{"Main-A1"})
    var unavailable *booking.SeatsUnavailableError
    require.ErrorAs(t, err, &unavailable)
    assert.Equal(t, []string{"Main-A1"}, unavailable.Seats)

    _, err = e.Hold(ctx, 2, showtimeID, []string{"Main-A2"})
    require.ErrorAs(t, err, &unavailable)

    // The holder reserves through their own hold.
    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)
    assert.Equal(t, model.BookingConfirmed, b.Status)
}

func TestHoldExpiresAndSeatFreesUp(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    _, err := e.Hold(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)

    // Advance past the hold TTL; the seat reads FREE again.
    base := e.Now()
    e.Now = func() time.Time { return base.Add(booking.DefaultHoldTTL + time.Minute) }

    _, states, err := e.Availability(ctx, showtimeID)
    require.NoError(t, err)
    assert.Equal(t, booking.SeatFree, states["Main-A1"])
}

func TestReleaseHolds(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    _, err := e.Hold(ctx, 1, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)

    released, err := e.ReleaseHolds(ctx, 1, showtimeID)
    require.NoError(t, err)
    assert.Equal(t, 2, released)

    ok, err := e.IsAvailable(ctx, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)
    assert.True(t, ok)
}

func TestAvailabilityCoversWholeUniverse(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    _, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)
    _, err = e.Hold(ctx, 2, showtimeID, []string{"Loge1-1"})
    require.NoError(t, err)

    view, states, err := e.Availability(ctx, showtimeID)
    require.NoError(t, err)

    // 2x3 block + 2 box seats
    assert.Len(t, view.Seats, 8)
    assert.Len(t, states, 8)
    assert.Equal(t, booking.SeatBooked, states["Main-A1"])
    assert.Equal(t, booking.SeatHeld, states["Loge1-1"])
    assert.Equal(t, booking.SeatFree, states["Main-B3"])
}

func TestCancelReleasesSeats(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)

    require.NoError(t, e.Cancel(ctx, 1, b.ID))

    cur, err := e.Bookings.ByID(ctx, b.ID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, cur.Status)
    // Seat list survives as purchase history.
    assert.Equal(t, []string{"Main-A1", "Main-A2"}, cur.SeatIDs())

    ok, err := e.IsAvailable(ctx, showtimeID, []string{"Main-A1", "Main-A2"})
    require.NoError(t, err)
    assert.True(t, ok)

    // Cancelling again is a no-op.
    assert.NoError(t, e.Cancel(ctx, 1, b.ID))
}

func TestCancelRules(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)

    // Not the owner.
    assert.ErrorIs(t, e.Cancel(ctx, 2, b.ID), booking.ErrForbidden)

    // After check-in.
    _, err = e.CheckIn(ctx, b.Ticket)
    require.NoError(t, err)
    assert.ErrorIs(t, e.Cancel(ctx, 1, b.ID), booking.ErrCheckedIn)

    // After the showtime started.
    b2, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A2"})
    require.NoError(t, err)
    e.Now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }
    assert.ErrorIs(t, e.Cancel(ctx, 1, b2.ID), booking.ErrShowtimeClosed)
}

func TestListsHidePendingBookings(t *testing.T) {
	e, store, showtimeID := newTestEngine(t)
	ctx := context.Background()

	// A reservation attempt that died between Create and Claim leaves
	// a claimless PENDING row behind.
	stale := model.Booking{
		UserID:     1,
		ShowtimeID: showtimeID,
		Status:     model.BookingPending,
		TotalCents: 1000,
		Seats:      []model.BookingSeat{{SeatID: "Main-A1", PriceCents: 1000}},
	}
	require.NoError(t, store.Create(ctx, &stale))

	b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A2"})
	require.NoError(t, err)

	mine, err := e.Bookings.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	all, err := e.Bookings.ListByShowtime(ctx, showtimeID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)

	// The stale row never claimed its seat, so the seat stays free.
	ok, err := e.IsAvailable(ctx, showtimeID, []string{"Main-A1"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBookingForUserOwnership(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)

    got, err := e.BookingForUser(ctx, 1, b.ID)
    require.NoError(t, err)
    assert.Equal(t, b.ID, got.ID)

    _, err = e.BookingForUser(ctx, 2, b.ID)
    assert.ErrorIs(t, err, booking.ErrForbidden)

    _, err = e.BookingForUser(ctx, 1, 9999)
    assert.ErrorIs(t, err, booking.ErrNotFound)
}
