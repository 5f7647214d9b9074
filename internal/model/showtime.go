package model

import "time"

// Showtime represents a scheduled screening of one movie in one hall.
// Seat availability is scoped per showtime: the same physical seat
// identifier is independently bookable across different showtimes.
// EndsAt must always be after StartsAt; the repository and handlers
// enforce this on creation.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie being screened.
//  HallID    – hall where the screening takes place.
//  StartsAt  – screening start (UTC).
//  EndsAt    – screening end (UTC), strictly after StartsAt.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Showtime struct {
    ID        uint64    `json:"id"`         // showtimes.id
    MovieID   uint64    `json:"movie_id"`   // showtimes.movie_id
    HallID    uint64    `json:"hall_id"`    // showtimes.hall_id
    StartsAt  time.Time `json:"starts_at"`  // showtimes.starts_at
    EndsAt    time.Time `json:"ends_at"`    // showtimes.ends_at
    CreatedAt time.Time `json:"created_at"` // showtimes.created_at
    UpdatedAt time.Time `json:"updated_at"` // showtimes.updated_at
}
