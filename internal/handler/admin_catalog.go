package handler

import (
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/layout"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// AdminHandler manages the catalog: movies, halls and showtimes.  It
// also serves the per-showtime booking report.  All routes behind this
// handler require the ADMIN role.
type AdminHandler struct {
    Movies    *repository.MovieRepo
    Halls     *repository.HallRepo
    Showtimes *repository.ShowtimeRepo
    Bookings  *repository.BookingRepo
}

// NewAdminHandler constructs an AdminHandler; all dependencies must be non-nil.
func NewAdminHandler(movies *repository.MovieRepo, halls *repository.HallRepo, showtimes *repository.ShowtimeRepo, bookings *repository.BookingRepo) *AdminHandler {
    if movies == nil || halls == nil || showtimes == nil || bookings == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Movies: movies, Halls: halls, Showtimes: showtimes, Bookings: bookings}
}

// ----- movies -----

type movieReq struct {
    Title       string  `json:"title"`
    Description string  `json:"description"`
    PosterURL   *string `json:"poster_url"`
    DurationMin uint32  `json:"duration_min"`
    Genre       string  `json:"genre"`
}

func (r *movieReq) validate() string {
    if strings.TrimSpace(r.Title) == "" {
        return "title is required"
    }
    if r.DurationMin == 0 {
        return "duration_min must be positive"
    }
    return ""
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    m := model.Movie{
        Title:       strings.TrimSpace(req.Title),
        Description: req.Description,
        PosterURL:   req.PosterURL,
        DurationMin: req.DurationMin,
        Genre:       req.Genre,
    }
    if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"movie": m})
}

// UpdateMovie handles PUT /v1/admin/movies/:id.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    m := model.Movie{
        ID:          id,
        Title:       strings.TrimSpace(req.Title),
        Description: req.Description,
        PosterURL:   req.PosterURL,
        DurationMin: req.DurationMin,
        Genre:       req.Genre,
    }
    if err := h.Movies.Update(c.Request().Context(), &m); err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"movie": m})
}

// ----- halls -----

type hallReq struct {
    Name     string                     `json:"name"`
    Location string                     `json:"location"`
    Blocks   []model.SeatBlock          `json:"blocks"`
    Boxes    []model.BoxSeat            `json:"boxes"`
    Prices   map[model.SeatClass]uint32 `json:"prices"`
    WidthM   *float64                   `json:"width_m"`
    DepthM   *float64                   `json:"depth_m"`
}

// buildHall validates a hall request by checking its block and box
// names and enumerating its seat universe.  A layout that cannot be
// enumerated (empty, duplicate seat ids, missing prices) is rejected
// before anything is written.
func (r *hallReq) buildHall(id uint64) (model.Hall, string) {
    h := model.Hall{
        ID:       id,
        Name:     strings.TrimSpace(r.Name),
        Location: strings.TrimSpace(r.Location),
        Blocks:   r.Blocks,
        Boxes:    r.Boxes,
        Prices:   r.Prices,
        WidthM:   r.WidthM,
        DepthM:   r.DepthM,
    }
    if h.Name == "" {
        return model.Hall{}, "name is required"
    }
    if msg := validateSeatGroupNames(&h); msg != "" {
        return model.Hall{}, msg
    }
    if _, err := layout.EnumerateSeats(h); err != nil {
        return model.Hall{}, err.Error()
    }
    return h, ""
}

// Seat ids embed the group name ahead of a '-' separator, so block and
// box names must be non-empty, free of the separator and unique within
// the hall.  Names are trimmed in place.
func validateSeatGroupNames(h *model.Hall) string {
    seen := make(map[string]bool, len(h.Blocks)+len(h.Boxes))
    check := func(name string) string {
        if name == "" {
            return "block and box names are required"
        }
        if strings.Contains(name, "-") {
            return fmt.Sprintf("name %q must not contain '-'", name)
        }
        if seen[name] {
            return fmt.Sprintf("duplicate block/box name %q", name)
        }
        seen[name] = true
        return ""
    }
    for i := range h.Blocks {
        h.Blocks[i].Name = strings.TrimSpace(h.Blocks[i].Name)
        if msg := check(h.Blocks[i].Name); msg != "" {
            return msg
        }
    }
    for i := range h.Boxes {
        h.Boxes[i].Name = strings.TrimSpace(h.Boxes[i].Name)
        if msg := check(h.Boxes[i].Name); msg != "" {
            return msg
        }
    }
    return ""
}

// CreateHall handles POST /v1/admin/halls.
func (h *AdminHandler) CreateHall(c echo.Context) error {
    var req hallReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    hall, msg := req.buildHall(0)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    if err := h.Halls.Create(c.Request().Context(), &hall); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"hall": hall})
}

// UpdateHall handles PUT /v1/admin/halls/:id.  The layout is replaced
// wholesale; existing bookings keep their recorded seat ids and prices.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
    }
    var req hallReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    hall, msg := req.buildHall(id)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    if err := h.Halls.Update(c.Request().Context(), &hall); err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"hall": hall})
}

// ListHalls handles GET /v1/admin/halls.
func (h *AdminHandler) ListHalls(c echo.Context) error {
    halls, err := h.Halls.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"halls": halls})
}

// DeleteHall handles DELETE /v1/admin/halls/:id.  Halls referenced by
// showtimes cannot be deleted.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
    }
    if err := h.Halls.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "hall has scheduled showtimes"})
        }
        return bookingError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- showtimes -----

type showtimeReq struct {
    MovieID  uint64    `json:"movie_id"`
    HallID   uint64    `json:"hall_id"`
    StartsAt time.Time `json:"starts_at"`
    EndsAt   time.Time `json:"ends_at"`
}

// CreateShowtime handles POST /v1/admin/showtimes.  The movie and hall
// must exist and ends_at must be after starts_at.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
    var req showtimeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.MovieID == 0 || req.HallID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and hall_id are required"})
    }
    if !req.EndsAt.After(req.StartsAt) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
    }
    ctx := c.Request().Context()
    if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
        return bookingError(c, err)
    }
    if _, err := h.Halls.GetByID(ctx, req.HallID); err != nil {
        return bookingError(c, err)
    }
    st := model.Showtime{
        MovieID:  req.MovieID,
        HallID:   req.HallID,
        StartsAt: req.StartsAt.UTC(),
        EndsAt:   req.EndsAt.UTC(),
    }
    if err := h.Showtimes.Create(ctx, &st); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"showtime": st})
}

// UpdateShowtime handles PUT /v1/admin/showtimes/:id.  The same rules
// as creation apply.  Existing bookings keep their claimed seats and
// recorded prices even when the showtime is rescheduled.
func (h *AdminHandler) UpdateShowtime(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var req showtimeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.MovieID == 0 || req.HallID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and hall_id are required"})
    }
    if !req.EndsAt.After(req.StartsAt) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
    }
    ctx := c.Request().Context()
    if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
        return bookingError(c, err)
    }
    if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
        return bookingError(c, err)
    }
    if _, err := h.Halls.GetByID(ctx, req.HallID); err != nil {
        return bookingError(c, err)
    }
    st := model.Showtime{
        ID:       id,
        MovieID:  req.MovieID,
        HallID:   req.HallID,
        StartsAt: req.StartsAt.UTC(),
        EndsAt:   req.EndsAt.UTC(),
    }
    if err := h.Showtimes.Update(ctx, &st); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"showtime": st})
}

// DeleteShowtime handles DELETE /v1/admin/showtimes/:id.  Showtimes
// with bookings cannot be deleted.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    if err := h.Showtimes.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has bookings"})
        }
        return bookingError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ShowtimeReport handles GET /v1/admin/showtimes/:id/report.  It
// aggregates the bookings of one showtime: counts per status, seats
// sold and revenue from confirmed and checked-in bookings.
func (h *AdminHandler) ShowtimeReport(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
        return bookingError(c, err)
    }
    bookings, err := h.Bookings.ListByShowtime(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    byStatus := map[string]int{}
    seatsSold := 0
    revenueCents := uint64(0)
    for _, b := range bookings {
        byStatus[b.Status]++
        if b.Status == model.BookingConfirmed || b.Status == model.BookingCheckedIn {
            seatsSold += len(b.Seats)
            revenueCents += uint64(b.TotalCents)
        }
    }
    return c.JSON(http.StatusOK, echo.Map{
        "showtime_id":   id,
        "bookings":      bookings,
        "by_status":     byStatus,
        "seats_sold":    seatsSold,
        "revenue_cents": revenueCents,
    })
}
