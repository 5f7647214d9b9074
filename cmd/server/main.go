package main // Entry point package

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"    // loads .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/config"
    "github.com/iliyamo/cinema-ticket-booking/internal/database"
    "github.com/iliyamo/cinema-ticket-booking/internal/handler"
    "github.com/iliyamo/cinema-ticket-booking/internal/middleware"
    "github.com/iliyamo/cinema-ticket-booking/internal/queue"
    "github.com/iliyamo/cinema-ticket-booking/internal/repository"
    "github.com/iliyamo/cinema-ticket-booking/internal/router"
    "github.com/iliyamo/cinema-ticket-booking/internal/ticket"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    if err := database.EnsureSchema(ctx, db); err != nil {
        cancel()
        log.Fatalf("schema: %v", err)
    }
    cancel()

    // Repositories
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    movies := repository.NewMovieRepo(db)
    halls := repository.NewHallRepo(db)
    showtimes := repository.NewShowtimeRepo(db)
    bookings := repository.NewBookingRepo(db)
    claims := repository.NewClaimRepo(db)
    holds := repository.NewHoldRepo(db)

    // Reservation engine
    signer := ticket.NewSigner(cfg.TicketSecret)
    engine := booking.NewEngine(
        repository.NewCatalog(movies, halls, showtimes),
        claims, holds, bookings, signer,
    )
    engine.HoldTTL = time.Duration(cfg.HoldTTLMin) * time.Minute

    // Handlers
    authH := handler.NewAuthHandler(cfg, users, tokens)
    publicH := handler.NewPublicHandler(engine, movies, showtimes)
    customerH := handler.NewCustomerHandler(engine)
    staffH := handler.NewStaffHandler(engine)
    adminH := handler.NewAdminHandler(movies, halls, showtimes, bookings)

    e := echo.New()

    // Redis-backed rate limiting and response caching.  A missing Redis
    // degrades both to pass-through middleware.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and caching disabled")
    }
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, cache)
    router.RegisterCustomer(e, customerH, cfg.JWTSecret)
    router.RegisterStaff(e, staffH, cfg.JWTSecret)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    // Background consumer logs booking.confirmed events.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
