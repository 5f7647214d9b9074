package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// MovieRepo provides CRUD operations for the movie catalog.
type MovieRepo struct{ DB *sql.DB }

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// Create inserts a movie and populates its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO movies (title, description, poster_url, duration_min, genre) VALUES (?,?,?,?,?)`,
        m.Title, m.Description, m.PosterURL, m.DurationMin, m.Genre)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// Update overwrites the editable fields of a movie.  Returns
// booking.ErrNotFound when no row matches.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE movies SET title=?, description=?, poster_url=?, duration_min=?, genre=? WHERE id=?`,
        m.Title, m.Description, m.PosterURL, m.DurationMin, m.Genre, m.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected is also zero for a no-op update; confirm existence.
        if _, err := r.GetByID(ctx, m.ID); err != nil {
            return err
        }
    }
    return nil
}

// GetByID fetches a single movie.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
    var m model.Movie
    var poster sql.NullString
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, title, description, poster_url, duration_min, genre, created_at, updated_at FROM movies WHERE id=?`,
        id).Scan(&m.ID, &m.Title, &m.Description, &poster, &m.DurationMin, &m.Genre, &m.CreatedAt, &m.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Movie{}, booking.ErrNotFound
    }
    if err != nil {
        return model.Movie{}, err
    }
    if poster.Valid {
        p := poster.String
        m.PosterURL = &p
    }
    return m, nil
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, title, description, poster_url, duration_min, genre, created_at, updated_at FROM movies ORDER BY title`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Movie, 0)
    for rows.Next() {
        var m model.Movie
        var poster sql.NullString
        if err := rows.Scan(&m.ID, &m.Title, &m.Description, &poster, &m.DurationMin, &m.Genre, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        if poster.Valid {
            p := poster.String
            m.PosterURL = &p
        }
        out = append(out, m)
    }
    return out, rows.Err()
}
