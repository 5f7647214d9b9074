package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ShowtimeRepo persists scheduled screenings.  Timestamps are stored
// and returned in UTC (the connection is opened with loc=UTC).
type ShowtimeRepo struct{ DB *sql.DB }

// NewShowtimeRepo returns a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{DB: db} }

// Create inserts a showtime and populates its generated ID.  The
// handler validates ends_at > starts_at and the existence of the movie
// and hall before calling this.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO showtimes (movie_id, hall_id, starts_at, ends_at) VALUES (?,?,?,?)`,
        st.MovieID, st.HallID, st.StartsAt.UTC(), st.EndsAt.UTC())
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    st.ID = uint64(id)
    return nil
}

// GetByID fetches a single showtime.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
    var st model.Showtime
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, movie_id, hall_id, starts_at, ends_at, created_at, updated_at FROM showtimes WHERE id=?`,
        id).Scan(&st.ID, &st.MovieID, &st.HallID, &st.StartsAt, &st.EndsAt, &st.CreatedAt, &st.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Showtime{}, booking.ErrNotFound
    }
    if err != nil {
        return model.Showtime{}, err
    }
    return st, nil
}

// ListByMovie returns all showtimes for a movie ordered by start time.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
    return r.list(ctx,
        `SELECT id, movie_id, hall_id, starts_at, ends_at, created_at, updated_at
         FROM showtimes WHERE movie_id=? ORDER BY starts_at`, movieID)
}

// List returns all showtimes ordered by start time.
func (r *ShowtimeRepo) List(ctx context.Context) ([]model.Showtime, error) {
    return r.list(ctx,
        `SELECT id, movie_id, hall_id, starts_at, ends_at, created_at, updated_at
         FROM showtimes ORDER BY starts_at`)
}

func (r *ShowtimeRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Showtime, error) {
    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Showtime, 0)
    for rows.Next() {
        var st model.Showtime
        if err := rows.Scan(&st.ID, &st.MovieID, &st.HallID, &st.StartsAt, &st.EndsAt, &st.CreatedAt, &st.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, st)
    }
    return out, rows.Err()
}

// Update rewrites a showtime's movie, hall and time window.  The
// handler re-validates the references and checks existence first, so a
// zero-row result here (same values written twice) is not an error.
func (r *ShowtimeRepo) Update(ctx context.Context, st *model.Showtime) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE showtimes SET movie_id=?, hall_id=?, starts_at=?, ends_at=? WHERE id=?`,
        st.MovieID, st.HallID, st.StartsAt.UTC(), st.EndsAt.UTC(), st.ID)
    return err
}

// Delete removes a showtime.  It refuses with ErrConflict while
// bookings reference it.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
    var refs int
    if err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE showtime_id=?`, id).Scan(&refs); err != nil {
        return err
    }
    if refs > 0 {
        return ErrConflict
    }
    res, err := r.DB.ExecContext(ctx, `DELETE FROM showtimes WHERE id=?`, id)
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
