package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// HallRepo persists halls together with their seat blocks, box seats
// and pricing table.  A hall's children are always written and read as
// a unit; partial layouts never exist in the database.
type HallRepo struct{ DB *sql.DB }

// NewHallRepo returns a HallRepo bound to the given database.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{DB: db} }

// Create inserts a hall with all of its layout rows in one
// transaction and populates the generated ID.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
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
        `INSERT INTO halls (name, location, width_m, depth_m) VALUES (?,?,?,?)`,
        h.Name, h.Location, h.WidthM, h.DepthM)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    h.ID = uint64(id)
    if err := insertLayoutTx(ctx, tx, h); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Update overwrites a hall's display fields and replaces its layout
// rows wholesale inside one transaction.  Returns booking.ErrNotFound
// when the hall does not exist.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
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
    var exists uint64
    err = tx.QueryRowContext(ctx, `SELECT id FROM halls WHERE id=?`, h.ID).Scan(&exists)
    if errors.Is(err, sql.ErrNoRows) {
        return booking.ErrNotFound
    }
    if err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE halls SET name=?, location=?, width_m=?, depth_m=? WHERE id=?`,
        h.Name, h.Location, h.WidthM, h.DepthM, h.ID); err != nil {
        return err
    }
    for _, q := range []string{
        `DELETE FROM hall_blocks WHERE hall_id=?`,
        `DELETE FROM hall_boxes WHERE hall_id=?`,
        `DELETE FROM hall_prices WHERE hall_id=?`,
    } {
        if _, err := tx.ExecContext(ctx, q, h.ID); err != nil {
            return err
        }
    }
    if err := insertLayoutTx(ctx, tx, h); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

func insertLayoutTx(ctx context.Context, tx *sql.Tx, h *model.Hall) error {
    for i, b := range h.Blocks {
        if _, err := tx.ExecContext(ctx,
            `INSERT INTO hall_blocks (hall_id, position, name, row_count, seats_per_row) VALUES (?,?,?,?,?)`,
            h.ID, i, b.Name, b.Rows, b.SeatsPerRow); err != nil {
            return err
        }
    }
    for i, bx := range h.Boxes {
        if _, err := tx.ExecContext(ctx,
            `INSERT INTO hall_boxes (hall_id, position, name, capacity) VALUES (?,?,?,?)`,
            h.ID, i, bx.Name, bx.Capacity); err != nil {
            return err
        }
    }
    for class, price := range h.Prices {
        if _, err := tx.ExecContext(ctx,
            `INSERT INTO hall_prices (hall_id, seat_class, price_cents) VALUES (?,?,?)`,
            h.ID, string(class), price); err != nil {
            return err
        }
    }
    return nil
}

// GetByID loads a hall with its blocks, boxes and pricing table.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
    var h model.Hall
    var width, depth sql.NullFloat64
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, location, width_m, depth_m, created_at, updated_at FROM halls WHERE id=?`,
        id).Scan(&h.ID, &h.Name, &h.Location, &width, &depth, &h.CreatedAt, &h.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Hall{}, booking.ErrNotFound
    }
    if err != nil {
        return model.Hall{}, err
    }
    if width.Valid {
        w := width.Float64
        h.WidthM = &w
    }
    if depth.Valid {
        d := depth.Float64
        h.DepthM = &d
    }
    if err := r.loadLayout(ctx, &h); err != nil {
        return model.Hall{}, err
    }
    return h, nil
}

func (r *HallRepo) loadLayout(ctx context.Context, h *model.Hall) error {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT name, row_count, seats_per_row FROM hall_blocks WHERE hall_id=? ORDER BY position`, h.ID)
    if err != nil {
        return err
    }
    defer rows.Close()
    h.Blocks = make([]model.SeatBlock, 0)
    for rows.Next() {
        var b model.SeatBlock
        if err := rows.Scan(&b.Name, &b.Rows, &b.SeatsPerRow); err != nil {
            return err
        }
        h.Blocks = append(h.Blocks, b)
    }
    if err := rows.Err(); err != nil {
        return err
    }

    brows, err := r.DB.QueryContext(ctx,
        `SELECT name, capacity FROM hall_boxes WHERE hall_id=? ORDER BY position`, h.ID)
    if err != nil {
        return err
    }
    defer brows.Close()
    h.Boxes = make([]model.BoxSeat, 0)
    for brows.Next() {
        var bx model.BoxSeat
        if err := brows.Scan(&bx.Name, &bx.Capacity); err != nil {
            return err
        }
        h.Boxes = append(h.Boxes, bx)
    }
    if err := brows.Err(); err != nil {
        return err
    }

    prows, err := r.DB.QueryContext(ctx,
        `SELECT seat_class, price_cents FROM hall_prices WHERE hall_id=?`, h.ID)
    if err != nil {
        return err
    }
    defer prows.Close()
    h.Prices = make(map[model.SeatClass]uint32)
    for prows.Next() {
        var class string
        var price uint32
        if err := prows.Scan(&class, &price); err != nil {
            return err
        }
        h.Prices[model.SeatClass(class)] = price
    }
    return prows.Err()
}

// List returns all halls with their layouts, ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
    rows, err := r.DB.QueryContext(ctx, `SELECT id FROM halls ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    out := make([]model.Hall, 0, len(ids))
    for _, id := range ids {
        h, err := r.GetByID(ctx, id)
        if err != nil {
            return nil, err
        }
        out = append(out, h)
    }
    return out, nil
}

// Delete removes a hall and its layout rows.  It refuses with
// ErrConflict while showtimes still reference the hall, enforcing the
// referential constraint at the application level.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
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
    var refs int
    if err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM showtimes WHERE hall_id=?`, id).Scan(&refs); err != nil {
        return err
    }
    if refs > 0 {
        return ErrConflict
    }
    res, err := tx.ExecContext(ctx, `DELETE FROM halls WHERE id=?`, id)
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
    // Layout children cascade via foreign keys.
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
