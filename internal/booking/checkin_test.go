package booking_test

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestCheckInHappyPath(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)

    got, err := e.CheckIn(ctx, b.Ticket)
    require.NoError(t, err)
    assert.Equal(t, b.ID, got.ID)
    assert.Equal(t, model.BookingCheckedIn, got.Status)
    require.NotNil(t, got.CheckedInAt)
    assert.Equal(t, e.Now().UTC(), got.CheckedInAt.UTC())
}

func TestCheckInIdempotentRescan(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)

    first, err := e.CheckIn(ctx, b.Ticket)
    require.NoError(t, err)

    // Move the clock; the second scan must keep the first timestamp.
    base := e.Now()
    e.Now = func() time.Time { return base.Add(10 * time.Minute) }

    second, err := e.CheckIn(ctx, b.Ticket)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCheckedIn, second.Status)
    require.NotNil(t, second.CheckedInAt)
    assert.Equal(t, first.CheckedInAt.UTC(), second.CheckedInAt.UTC())
}

func TestCheckInRejectsForgedPayloads(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)

    for _, payload := range []string{
        "",
        "garbage",
        b.Ticket + "x",
        "CTB1.9999.0000000000000000000000000000000000000000000000000000000000000000",
    } {
        _, err := e.CheckIn(ctx, payload)
        assert.ErrorIs(t, err, booking.ErrInvalidTicket, "payload %q", payload)
    }
}

func TestCheckInCancelledTicketIsVoid(t *testing.T) {
    e, _, showtimeID := newTestEngine(t)
    ctx := context.Background()

    b, err := e.Reserve(ctx, 1, showtimeID, []string{"Main-A1"})
    require.NoError(t, err)
    require.NoError(t, e.Cancel(ctx, 1, b.ID))

    _, err = e.CheckIn(ctx, b.Ticket)
    assert.ErrorIs(t, err, booking.ErrTicketVoid)
}

func TestCheckInUnknownBooking(t *testing.T) {
    e, _, _ := newTestEngine(t)

    // Validly signed payload for a booking that does not exist.
    payload := e.Signer.Payload(424242)
    _, err := e.CheckIn(context.Background(), payload)
    assert.ErrorIs(t, err, booking.ErrNotFound)
}
