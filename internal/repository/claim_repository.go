package repository

import (
    "context"
    "database/sql"
    "strings"
)

// ClaimRepo implements booking.ClaimStore over the seat_claims table.
// The table carries UNIQUE (showtime_id, seat_id); a multi-row INSERT
// is a single statement in MySQL and therefore all-or-nothing, which
// is exactly the atomic test-and-set the reservation engine requires.
// Two concurrent claims for overlapping seats cannot both succeed: the
// loser's insert fails with a duplicate-key error and nothing of it is
// written.
type ClaimRepo struct{ DB *sql.DB }

// NewClaimRepo returns a ClaimRepo bound to the given database.
func NewClaimRepo(db *sql.DB) *ClaimRepo { return &ClaimRepo{DB: db} }

// Claim inserts one claim row per seat for the booking.  On a
// duplicate-key conflict it reports which of the requested seats are
// already claimed; no rows are written in that case.
func (r *ClaimRepo) Claim(ctx context.Context, showtimeID, bookingID uint64, seatIDs []string) ([]string, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    query := `INSERT INTO seat_claims (showtime_id, seat_id, booking_id) VALUES `
    args := make([]interface{}, 0, len(seatIDs)*3)
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        args = append(args, showtimeID, id, bookingID)
    }
    _, err := r.DB.ExecContext(ctx, query, args...)
    if err == nil {
        return nil, nil
    }
    if !isDuplicateKey(err) {
        return nil, err
    }
    conflicts, qerr := r.claimedAmong(ctx, showtimeID, seatIDs)
    if qerr != nil {
        return nil, qerr
    }
    if len(conflicts) == 0 {
        // The conflicting row vanished between insert and query
        // (released claim); the caller retries against fresh state.
        conflicts = seatIDs
    }
    return conflicts, nil
}

// claimedAmong returns which of the given seats currently carry a
// claim row for the showtime.
func (r *ClaimRepo) claimedAmong(ctx context.Context, showtimeID uint64, seatIDs []string) ([]string, error) {
    placeholders := make([]string, len(seatIDs))
    args := make([]interface{}, 0, len(seatIDs)+1)
    args = append(args, showtimeID)
    for i, id := range seatIDs {
        placeholders[i] = "?"
        args = append(args, id)
    }
    query := `SELECT seat_id FROM seat_claims WHERE showtime_id=? AND seat_id IN (` +
        strings.Join(placeholders, ",") + `) ORDER BY seat_id`
    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []string
    for rows.Next() {
        var id string
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        out = append(out, id)
    }
    return out, rows.Err()
}

// ReleaseByBooking deletes all claim rows of a booking.
func (r *ClaimRepo) ReleaseByBooking(ctx context.Context, bookingID uint64) error {
    _, err := r.DB.ExecContext(ctx, `DELETE FROM seat_claims WHERE booking_id=?`, bookingID)
    return err
}

// ClaimedSeats returns the set of claimed seat identifiers for a
// showtime.
func (r *ClaimRepo) ClaimedSeats(ctx context.Context, showtimeID uint64) (map[string]struct{}, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT seat_id FROM seat_claims WHERE showtime_id=?`, showtimeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[string]struct{})
    for rows.Next() {
        var id string
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        out[id] = struct{}{}
    }
    return out, rows.Err()
}
