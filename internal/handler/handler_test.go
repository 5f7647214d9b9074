package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strconv"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/booking/bookingtest"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/ticket"
)

func newTestEngine(t *testing.T) (*booking.Engine, uint64) {
    t.Helper()
    store := bookingtest.New()
    movieID := store.AddMovie(model.Movie{Title: "Heat", DurationMin: 170})
    hallID := store.AddHall(model.Hall{
        Name:   "Hall 1",
        Blocks: []model.SeatBlock{{Name: "Main", Rows: 2, SeatsPerRow: 2}},
        Prices: map[model.SeatClass]uint32{model.SeatClassRegular: 1500},
    })
    now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
    showtimeID := store.AddShowtime(model.Showtime{
        MovieID:  movieID,
        HallID:   hallID,
        StartsAt: now.Add(time.Hour),
        EndsAt:   now.Add(3 * time.Hour),
    })
    e := booking.NewEngine(store, store, store, store, ticket.NewSigner("test-secret"))
    e.Now = func() time.Time { return now }
    return e, showtimeID
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, userID uint64, params map[string]string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if userID != 0 {
        c.Set("user_id", userID)
    }
    for k, v := range params {
        c.SetParamNames(k)
        c.SetParamValues(v)
    }
    require.NoError(t, h(c))
    return rec
}

func TestReserveEndpoint(t *testing.T) {
    engine, showtimeID := newTestEngine(t)
    h := NewCustomerHandler(engine)
    stID := strconv.FormatUint(showtimeID, 10)

    rec := doJSON(t, h.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Main-A1","Main-A2"]}`, 1, map[string]string{"id": stID})

    require.Equal(t, http.StatusCreated, rec.Code)
    var resp struct {
        Booking model.Booking `json:"booking"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, model.BookingConfirmed, resp.Booking.Status)
    assert.Equal(t, uint32(3000), resp.Booking.TotalCents)
    assert.NotEmpty(t, resp.Booking.Ticket)
}

func TestReserveEndpointConflict(t *testing.T) {
    engine, showtimeID := newTestEngine(t)
    h := NewCustomerHandler(engine)
    stID := strconv.FormatUint(showtimeID, 10)

    rec := doJSON(t, h.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Main-A1"]}`, 1, map[string]string{"id": stID})
    require.Equal(t, http.StatusCreated, rec.Code)

    rec = doJSON(t, h.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Main-A1"]}`, 2, map[string]string{"id": stID})
    require.Equal(t, http.StatusConflict, rec.Code)

    var resp struct {
        Error string   `json:"error"`
        Seats []string `json:"seats"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "seats unavailable", resp.Error)
    assert.Equal(t, []string{"Main-A1"}, resp.Seats)
}

func TestReserveEndpointRejectsUnknownSeat(t *testing.T) {
    engine, showtimeID := newTestEngine(t)
    h := NewCustomerHandler(engine)
    stID := strconv.FormatUint(showtimeID, 10)

    rec := doJSON(t, h.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Nowhere-A1"]}`, 1, map[string]string{"id": stID})
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeatMapEndpoint(t *testing.T) {
    engine, showtimeID := newTestEngine(t)
    customer := NewCustomerHandler(engine)
    stID := strconv.FormatUint(showtimeID, 10)

    rec := doJSON(t, customer.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Main-B2"]}`, 1, map[string]string{"id": stID})
    require.Equal(t, http.StatusCreated, rec.Code)

    // The public handler only needs the engine for the seat map.
    pub := &PublicHandler{Engine: engine}
    rec = doJSON(t, pub.SeatMap, http.MethodGet, "/v1/showtimes/"+stID+"/seats", "", 0, map[string]string{"id": stID})
    require.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        Seats []struct {
            ID    string `json:"id"`
            State string `json:"state"`
        } `json:"seats"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    require.Len(t, resp.Seats, 4)
    states := map[string]string{}
    for _, s := range resp.Seats {
        states[s.ID] = s.State
    }
    assert.Equal(t, booking.SeatBooked, states["Main-B2"])
    assert.Equal(t, booking.SeatFree, states["Main-A1"])
}

func TestCheckInEndpoint(t *testing.T) {
    engine, showtimeID := newTestEngine(t)
    customer := NewCustomerHandler(engine)
    staff := NewStaffHandler(engine)
    stID := strconv.FormatUint(showtimeID, 10)

    rec := doJSON(t, customer.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Main-A1"]}`, 1, map[string]string{"id": stID})
    require.Equal(t, http.StatusCreated, rec.Code)
    var created struct {
        Booking model.Booking `json:"booking"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

    body := `{"payload":"` + created.Booking.Ticket + `"}`
    rec = doJSON(t, staff.CheckIn, http.MethodPost, "/v1/checkin", body, 5, nil)
    require.Equal(t, http.StatusOK, rec.Code)

    // Second scan still answers 200 with the same booking.
    rec = doJSON(t, staff.CheckIn, http.MethodPost, "/v1/checkin", body, 5, nil)
    assert.Equal(t, http.StatusOK, rec.Code)

    // Garbage payload is rejected.
    rec = doJSON(t, staff.CheckIn, http.MethodPost, "/v1/checkin", `{"payload":"garbage"}`, 5, nil)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHallRejectsBadSeatGroupNames(t *testing.T) {
	// Name validation runs before any repository access.
	h := &AdminHandler{}
	tests := []struct {
		name string
		body string
	}{
		{
			"blank block name",
			`{"name":"Hall 2","blocks":[{"name":"  ","rows":2,"seats_per_row":2}],"prices":{"REGULAR":1000}}`,
		},
		{
			"separator in block name",
			`{"name":"Hall 2","blocks":[{"name":"Main-Left","rows":2,"seats_per_row":2}],"prices":{"REGULAR":1000}}`,
		},
		{
			"box name clashes with block name",
			`{"name":"Hall 2","blocks":[{"name":"Main","rows":2,"seats_per_row":2}],"boxes":[{"name":"Main","capacity":2}],"prices":{"REGULAR":1000,"BOX":2500}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h.CreateHall, http.MethodPost, "/v1/admin/halls", tt.body, 1, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateShowtimeValidation(t *testing.T) {
	// Both rejections fire before any repository access.
	h := &AdminHandler{}

	rec := doJSON(t, h.UpdateShowtime, http.MethodPut, "/v1/admin/showtimes/abc",
		`{"movie_id":1,"hall_id":2,"starts_at":"2026-03-01T14:00:00Z","ends_at":"2026-03-01T16:00:00Z"}`,
		1, map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.UpdateShowtime, http.MethodPut, "/v1/admin/showtimes/3",
		`{"movie_id":1,"hall_id":2,"starts_at":"2026-03-01T16:00:00Z","ends_at":"2026-03-01T14:00:00Z"}`,
		1, map[string]string{"id": "3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketPNGEndpoint(t *testing.T) {
    engine, showtimeID := newTestEngine(t)
    h := NewCustomerHandler(engine)
    stID := strconv.FormatUint(showtimeID, 10)

    rec := doJSON(t, h.Reserve, http.MethodPost, "/v1/showtimes/"+stID+"/reserve",
        `{"seat_ids":["Main-A1"]}`, 1, map[string]string{"id": stID})
    require.Equal(t, http.StatusCreated, rec.Code)
    var created struct {
        Booking model.Booking `json:"booking"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

    bookingID := strconv.FormatUint(created.Booking.ID, 10)
    rec = doJSON(t, h.TicketPNG, http.MethodGet, "/v1/bookings/"+bookingID+"/ticket.png", "", 1,
        map[string]string{"id": bookingID})
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
    assert.NotEmpty(t, rec.Body.Bytes())

    // Another user cannot fetch the ticket.
    rec = doJSON(t, h.TicketPNG, http.MethodGet, "/v1/bookings/"+bookingID+"/ticket.png", "", 2,
        map[string]string{"id": bookingID})
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
