package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BookingRepo implements booking.BookingStore over the bookings and
// booking_seats tables.  Seat rows are the permanent purchase record;
// they survive cancellation so history stays intact even after the
// claim rows are released.
type BookingRepo struct{ DB *sql.DB }

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Create inserts a booking and its seat rows in one transaction and
// populates the generated ID and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    res, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (user_id, showtime_id, status, total_cents) VALUES (?,?,?,?)`,
        b.UserID, b.ShowtimeID, b.Status, b.TotalCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    if len(b.Seats) > 0 {
        query := `INSERT INTO booking_seats (booking_id, seat_id, price_cents) VALUES `
        args := make([]interface{}, 0, len(b.Seats)*3)
        for i, s := range b.Seats {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?)"
            args = append(args, b.ID, s.SeatID, s.PriceCents)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }
    err = tx.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM bookings WHERE id=?`, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Confirm transitions PENDING -> CONFIRMED and attaches the ticket
// payload.
func (r *BookingRepo) Confirm(ctx context.Context, id uint64, ticketPayload string) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE bookings SET status=?, ticket=? WHERE id=? AND status=?`,
        model.BookingConfirmed, ticketPayload, id, model.BookingPending)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return booking.ErrNotFound
    }
    return nil
}

// Delete removes a booking row; booking_seats cascade via foreign key.
// Only used to compensate a failed reservation.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
    _, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id=?`, id)
    return err
}

// ByID fetches a booking with its seat list.
func (r *BookingRepo) ByID(ctx context.Context, id uint64) (model.Booking, error) {
    b, err := r.scanOne(ctx, `SELECT id, user_id, showtime_id, status, total_cents, ticket, checked_in_at, created_at, updated_at FROM bookings WHERE id=?`, id)
    if err != nil {
        return model.Booking{}, err
    }
    seats, err := r.seatsFor(ctx, []uint64{b.ID})
    if err != nil {
        return model.Booking{}, err
    }
    b.Seats = seats[b.ID]
    return b, nil
}

func (r *BookingRepo) scanOne(ctx context.Context, query string, args ...interface{}) (model.Booking, error) {
    var b model.Booking
    var ticketCol sql.NullString
    var checkedIn sql.NullTime
    err := r.DB.QueryRowContext(ctx, query, args...).Scan(
        &b.ID, &b.UserID, &b.ShowtimeID, &b.Status, &b.TotalCents,
        &ticketCol, &checkedIn, &b.CreatedAt, &b.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, booking.ErrNotFound
    }
    if err != nil {
        return model.Booking{}, err
    }
    if ticketCol.Valid {
        b.Ticket = ticketCol.String
    }
    if checkedIn.Valid {
        at := checkedIn.Time.UTC()
        b.CheckedInAt = &at
    }
    return b, nil
}

// MarkCheckedIn transitions CONFIRMED -> CHECKED_IN.  Returns false
// without error when the booking was in any other state, which keeps
// re-scans idempotent and concurrent scans single-shot.
func (r *BookingRepo) MarkCheckedIn(ctx context.Context, id uint64, at time.Time) (bool, error) {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE bookings SET status=?, checked_in_at=? WHERE id=? AND status=?`,
        model.BookingCheckedIn, at.UTC(), id, model.BookingConfirmed)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// MarkCancelled transitions CONFIRMED -> CANCELLED.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64) (bool, error) {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE bookings SET status=? WHERE id=? AND status=?`,
        model.BookingCancelled, id, model.BookingConfirmed)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ListByUser returns all bookings of a user, newest first.  PENDING
// rows are excluded: they exist only inside a reservation attempt, and
// one abandoned mid-flight (compensating delete lost to a crash) must
// not surface as a phantom booking.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    return r.listWhere(ctx, `user_id=? AND status<>?`, userID, model.BookingPending)
}

// ListByShowtime returns all bookings for a showtime, newest first,
// excluding PENDING rows like ListByUser.  This is the read interface
// admin reporting dashboards consume.
func (r *BookingRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Booking, error) {
    return r.listWhere(ctx, `showtime_id=? AND status<>?`, showtimeID, model.BookingPending)
}

func (r *BookingRepo) listWhere(ctx context.Context, where string, args ...interface{}) ([]model.Booking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, user_id, showtime_id, status, total_cents, ticket, checked_in_at, created_at, updated_at
         FROM bookings WHERE `+where+` ORDER BY created_at DESC, id DESC`, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    var ids []uint64
    for rows.Next() {
        var b model.Booking
        var ticketCol sql.NullString
        var checkedIn sql.NullTime
        if err := rows.Scan(&b.ID, &b.UserID, &b.ShowtimeID, &b.Status, &b.TotalCents,
            &ticketCol, &checkedIn, &b.CreatedAt, &b.UpdatedAt); err != nil {
            return nil, err
        }
        if ticketCol.Valid {
            b.Ticket = ticketCol.String
        }
        if checkedIn.Valid {
            at := checkedIn.Time.UTC()
            b.CheckedInAt = &at
        }
        b.Seats = []model.BookingSeat{}
        ids = append(ids, b.ID)
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return out, nil
    }
    seats, err := r.seatsFor(ctx, ids)
    if err != nil {
        return nil, err
    }
    for i := range out {
        if s, ok := seats[out[i].ID]; ok {
            out[i].Seats = s
        }
    }
    return out, nil
}

// seatsFor loads booking_seats rows for a set of bookings in one query.
func (r *BookingRepo) seatsFor(ctx context.Context, bookingIDs []uint64) (map[uint64][]model.BookingSeat, error) {
    placeholders := make([]string, len(bookingIDs))
    args := make([]interface{}, 0, len(bookingIDs))
    for i, id := range bookingIDs {
        placeholders[i] = "?"
        args = append(args, id)
    }
    query := `SELECT booking_id, seat_id, price_cents FROM booking_seats
              WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
              ORDER BY booking_id, seat_id`
    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64][]model.BookingSeat, len(bookingIDs))
    for rows.Next() {
        var bid uint64
        var s model.BookingSeat
        if err := rows.Scan(&bid, &s.SeatID, &s.PriceCents); err != nil {
            return nil, err
        }
        out[bid] = append(out[bid], s)
    }
    return out, rows.Err()
}
