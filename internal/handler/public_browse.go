package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: the movie
// catalog, scheduled showtimes and live seat maps.  Responses are safe
// to cache; the seat map endpoint reads live claim and hold state, so
// the router keeps it out of the response cache.
type PublicHandler struct {
    Engine    *booking.Engine
    Movies    *repository.MovieRepo
    Showtimes *repository.ShowtimeRepo
}

// NewPublicHandler constructs a PublicHandler; all dependencies must be non-nil.
func NewPublicHandler(engine *booking.Engine, movies *repository.MovieRepo, showtimes *repository.ShowtimeRepo) *PublicHandler {
    if engine == nil || movies == nil || showtimes == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Engine: engine, Movies: movies, Showtimes: showtimes}
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
    movies, err := h.Movies.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// GetMovie handles GET /v1/movies/:id.  The response includes the
// movie's scheduled showtimes so clients can render a detail page from
// one request.
func (h *PublicHandler) GetMovie(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    ctx := c.Request().Context()
    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        return bookingError(c, err)
    }
    shows, err := h.Showtimes.ListByMovie(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"movie": m, "showtimes": shows})
}

// ListShowtimes handles GET /v1/showtimes.
func (h *PublicHandler) ListShowtimes(c echo.Context) error {
    shows, err := h.Showtimes.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"showtimes": shows})
}

// GetShowtime handles GET /v1/showtimes/:id.  It returns the joined
// view: showtime, movie, hall and the enumerated seat universe.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    view, err := h.Engine.Resolve(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, view)
}

// SeatMap handles GET /v1/showtimes/:id/seats.  Every seat of the
// universe appears exactly once with state FREE, HELD or BOOKED.
func (h *PublicHandler) SeatMap(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    view, states, err := h.Engine.Availability(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }
    type seatState struct {
        ID         string `json:"id"`
        Class      string `json:"class"`
        PriceCents uint32 `json:"price_cents"`
        State      string `json:"state"`
    }
    seats := make([]seatState, 0, len(view.Seats))
    for _, s := range view.Seats {
        seats = append(seats, seatState{
            ID:         s.ID,
            Class:      string(s.Class),
            PriceCents: s.PriceCents,
            State:      states[s.ID],
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "showtime_id": id,
        "seats":       seats,
    })
}
