package repository

import (
    "context"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Catalog adapts the movie, hall and showtime repositories to the
// booking.CatalogStore interface consumed by the reservation engine.
type Catalog struct {
    Movies    *MovieRepo
    Halls     *HallRepo
    Showtimes *ShowtimeRepo
}

// NewCatalog bundles the three catalog repositories.
func NewCatalog(movies *MovieRepo, halls *HallRepo, showtimes *ShowtimeRepo) *Catalog {
    if movies == nil || halls == nil || showtimes == nil {
        panic("nil repository passed to NewCatalog")
    }
    return &Catalog{Movies: movies, Halls: halls, Showtimes: showtimes}
}

func (c *Catalog) ShowtimeByID(ctx context.Context, id uint64) (model.Showtime, error) {
    return c.Showtimes.GetByID(ctx, id)
}

func (c *Catalog) MovieByID(ctx context.Context, id uint64) (model.Movie, error) {
    return c.Movies.GetByID(ctx, id)
}

func (c *Catalog) HallByID(ctx context.Context, id uint64) (model.Hall, error) {
    return c.Halls.GetByID(ctx, id)
}
