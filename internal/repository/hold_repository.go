package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"
)

// HoldRepo implements booking.HoldStore over the seat_holds table.
// Like seat_claims, seat_holds carries UNIQUE (showtime_id, seat_id);
// expired rows are swept lazily just before a new hold is inserted, so
// no background job is needed.
type HoldRepo struct{ DB *sql.DB }

// NewHoldRepo returns a HoldRepo bound to the given database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{DB: db} }

// ActiveHolds returns seat -> holding user for all unexpired holds on
// a showtime.
func (r *HoldRepo) ActiveHolds(ctx context.Context, showtimeID uint64, now time.Time) (map[string]uint64, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT seat_id, user_id FROM seat_holds WHERE showtime_id=? AND expires_at > ?`,
        showtimeID, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[string]uint64)
    for rows.Next() {
        var seatID string
        var userID uint64
        if err := rows.Scan(&seatID, &userID); err != nil {
            return nil, err
        }
        out[seatID] = userID
    }
    return out, rows.Err()
}

// CreateHolds sweeps expired rows for the requested seats and inserts
// fresh holds.  When the insert loses a race it reports the seats that
// are already held; nothing is written in that case.
func (r *HoldRepo) CreateHolds(ctx context.Context, userID, showtimeID uint64, seatIDs []string, expiresAt time.Time) ([]string, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    placeholders := make([]string, len(seatIDs))
    sweepArgs := make([]interface{}, 0, len(seatIDs)+2)
    sweepArgs = append(sweepArgs, showtimeID)
    for i, id := range seatIDs {
        placeholders[i] = "?"
        sweepArgs = append(sweepArgs, id)
    }
    sweepArgs = append(sweepArgs, time.Now().UTC())
    sweep := `DELETE FROM seat_holds WHERE showtime_id=? AND seat_id IN (` +
        strings.Join(placeholders, ",") + `) AND expires_at <= ?`
    if _, err := r.DB.ExecContext(ctx, sweep, sweepArgs...); err != nil {
        return nil, err
    }

    query := `INSERT INTO seat_holds (user_id, showtime_id, seat_id, expires_at) VALUES `
    args := make([]interface{}, 0, len(seatIDs)*4)
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, userID, showtimeID, id, expiresAt.UTC())
    }
    _, err := r.DB.ExecContext(ctx, query, args...)
    if err == nil {
        return nil, nil
    }
    if !isDuplicateKey(err) {
        return nil, err
    }
    held, qerr := r.heldAmong(ctx, showtimeID, seatIDs)
    if qerr != nil {
        return nil, qerr
    }
    if len(held) == 0 {
        held = seatIDs
    }
    return held, nil
}

func (r *HoldRepo) heldAmong(ctx context.Context, showtimeID uint64, seatIDs []string) ([]string, error) {
    placeholders := make([]string, len(seatIDs))
    args := make([]interface{}, 0, len(seatIDs)+2)
    args = append(args, showtimeID)
    for i, id := range seatIDs {
        placeholders[i] = "?"
        args = append(args, id)
    }
    args = append(args, time.Now().UTC())
    query := `SELECT seat_id FROM seat_holds WHERE showtime_id=? AND seat_id IN (` +
        strings.Join(placeholders, ",") + `) AND expires_at > ? ORDER BY seat_id`
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

// ReleaseHolds deletes all of a user's holds on a showtime and returns
// the released seat identifiers.
func (r *HoldRepo) ReleaseHolds(ctx context.Context, userID, showtimeID uint64) ([]string, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT seat_id FROM seat_holds WHERE user_id=? AND showtime_id=?`,
        userID, showtimeID)
    if err != nil {
        return nil, err
    }
    var seats []string
    for rows.Next() {
        var id string
        if err := rows.Scan(&id); err != nil {
            rows.Close()
            return nil, err
        }
        seats = append(seats, id)
    }
    if err := rows.Err(); err != nil {
        rows.Close()
        return nil, err
    }
    rows.Close()
    if len(seats) == 0 {
        return nil, nil
    }
    if _, err := r.DB.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE user_id=? AND showtime_id=?`,
        userID, showtimeID); err != nil {
        return nil, err
    }
    return seats, nil
}
