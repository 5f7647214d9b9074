package model

import "time"

// SeatClass categorises a seat for pricing purposes.  Block seats are
// REGULAR; box seats are BOX.  The hall pricing table maps each class
// present in the layout to a unit price in cents.
type SeatClass string

const (
    SeatClassRegular SeatClass = "REGULAR" // standard seat inside a seat block
    SeatClassBox     SeatClass = "BOX"     // premium box seat
)

// SeatBlock describes a rectangular grid of regular seats inside a hall.
// Row letters are derived from the row count (A, B, ... Z, AA, ...).
//
// Fields:
//  Name        – block name, unique within the hall (e.g. "Main", "Balcony").
//  Rows        – number of seating rows in the block.
//  SeatsPerRow – number of seats in each row.
type SeatBlock struct {
    Name        string `json:"name"`          // hall_blocks.name
    Rows        uint32 `json:"rows"`          // hall_blocks.row_count
    SeatsPerRow uint32 `json:"seats_per_row"` // hall_blocks.seats_per_row
}

// BoxSeat describes a premium seating unit with its own capacity.  Box
// seats are numbered 1..Capacity and priced by the BOX seat class.
//
// Fields:
//  Name     – box name, unique within the hall (e.g. "Loge1").
//  Capacity – number of seats inside the box.
type BoxSeat struct {
    Name     string `json:"name"`     // hall_boxes.name
    Capacity uint32 `json:"capacity"` // hall_boxes.capacity
}

// Hall represents a screening hall: its display data, seat geometry and
// pricing table.  The seat universe of a hall is never stored seat by
// seat; it is derived deterministically from Blocks and Boxes (see the
// layout package).  Physical dimensions are advisory only and do not
// influence any booking logic.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the hall.
//  Location  – free-form location string (address, floor, ...).
//  Blocks    – ordered seat blocks, as declared by the administrator.
//  Boxes     – ordered box seats.
//  Prices    – unit price in cents per seat class present in the layout.
//  WidthM    – advisory physical width in metres (nil when unknown).
//  DepthM    – advisory physical depth in metres (nil when unknown).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hall struct {
    ID        uint64               `json:"id"`                // halls.id
    Name      string               `json:"name"`              // halls.name
    Location  string               `json:"location"`          // halls.location
    Blocks    []SeatBlock          `json:"blocks"`            // hall_blocks rows, by position
    Boxes     []BoxSeat            `json:"boxes"`             // hall_boxes rows, by position
    Prices    map[SeatClass]uint32 `json:"prices"`            // hall_prices rows
    WidthM    *float64             `json:"width_m,omitempty"` // halls.width_m (nullable)
    DepthM    *float64             `json:"depth_m,omitempty"` // halls.depth_m (nullable)
    CreatedAt time.Time            `json:"created_at"`        // halls.created_at
    UpdatedAt time.Time            `json:"updated_at"`        // halls.updated_at
}
