package model

import "time"

// Movie represents an entry in the movie catalog.  Movies are created
// and edited by administrators and referenced by showtimes.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Description – synopsis shown on the detail page.
//  PosterURL   – reference to the poster image (nil when none uploaded).
//  DurationMin – running time in minutes.
//  Genre       – free-form genre label.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
    ID          uint64    `json:"id"`                   // movies.id
    Title       string    `json:"title"`                // movies.title
    Description string    `json:"description"`          // movies.description
    PosterURL   *string   `json:"poster_url,omitempty"` // movies.poster_url (nullable)
    DurationMin uint32    `json:"duration_min"`         // movies.duration_min
    Genre       string    `json:"genre"`                // movies.genre
    CreatedAt   time.Time `json:"created_at"`           // movies.created_at
    UpdatedAt   time.Time `json:"updated_at"`           // movies.updated_at
}
