package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework used for routing

    "github.com/iliyamo/cinema-ticket-booking/internal/handler"    // HTTP handlers implementing business logic
    "github.com/iliyamo/cinema-ticket-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems hit this endpoint to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; the protected /v1/me
// endpoint is guarded by the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token; refresh-access issues a new
    // access token while reusing the existing refresh token.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts either a refresh token in the body or a bearer
    // token, so it does not sit behind the JWT middleware.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse surface: the
// movie catalog, showtimes and live seat maps.  The cache middleware is
// applied only to catalog reads; the seat map reflects live claim and
// hold state and must never be served stale.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
    e.GET("/v1/movies", p.ListMovies, cache)
    e.GET("/v1/movies/:id", p.GetMovie, cache)
    e.GET("/v1/showtimes", p.ListShowtimes, cache)
    e.GET("/v1/showtimes/:id", p.GetShowtime, cache)
    e.GET("/v1/showtimes/:id/seats", p.SeatMap)
}

// RegisterCustomer registers the booking flow for authenticated
// customers.  STAFF and ADMIN accounts may book seats too.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("CUSTOMER", "STAFF", "ADMIN"))

    g.POST("/showtimes/:id/hold", h.HoldSeats)
    g.DELETE("/showtimes/:id/hold", h.ReleaseHolds)
    g.POST("/showtimes/:id/reserve", h.Reserve)

    g.GET("/bookings", h.MyBookings)
    g.GET("/bookings/:id", h.GetBooking)
    g.POST("/bookings/:id/cancel", h.Cancel)
    g.GET("/bookings/:id/ticket.png", h.TicketPNG)
}

// RegisterStaff registers the door check-in endpoint for STAFF and
// ADMIN accounts.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("STAFF", "ADMIN"))

    g.POST("/checkin", h.CheckIn)
}

// RegisterAdmin registers catalog management and reporting for ADMIN
// accounts.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    g.POST("/movies", h.CreateMovie)
    g.PUT("/movies/:id", h.UpdateMovie)

    g.GET("/halls", h.ListHalls)
    g.POST("/halls", h.CreateHall)
    g.PUT("/halls/:id", h.UpdateHall)
    g.DELETE("/halls/:id", h.DeleteHall)

    g.POST("/showtimes", h.CreateShowtime)
    g.PUT("/showtimes/:id", h.UpdateShowtime)
    g.DELETE("/showtimes/:id", h.DeleteShowtime)
    g.GET("/showtimes/:id/report", h.ShowtimeReport)
}
