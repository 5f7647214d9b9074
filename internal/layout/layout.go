// Package layout derives the seat universe of a hall from its declared
// geometry.  Seat identifiers are never stored; every consumer (the
// availability tracker, the reservation engine and the seat-map
// endpoints) enumerates them through this package so that all parties
// agree on the set of valid identifiers for a hall.
package layout

import (
    "errors"
    "fmt"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ErrEmptyLayout is returned when a hall declares neither seat blocks
// nor box seats.  Such a hall cannot host showtimes and the condition
// is reported to the administrator as a configuration problem.
var ErrEmptyLayout = errors.New("hall layout has no seat blocks or box seats")

// MissingPriceError is returned when the hall pricing table has no
// entry for a seat class that appears in the layout.
type MissingPriceError struct {
    Class model.SeatClass
}

func (e *MissingPriceError) Error() string {
    return fmt.Sprintf("hall pricing table has no entry for seat class %s", e.Class)
}

// DuplicateSeatError is returned when two layout units derive the same
// seat identifier, e.g. two blocks sharing a name.  Every identifier
// must be unique within a hall.
type DuplicateSeatError struct {
    SeatID string
}

func (e *DuplicateSeatError) Error() string {
    return fmt.Sprintf("duplicate seat identifier %q in hall layout", e.SeatID)
}

// IsConfigurationError reports whether err describes invalid hall
// layout data (as opposed to an invalid request or a store failure).
func IsConfigurationError(err error) bool {
    var mp *MissingPriceError
    var dup *DuplicateSeatError
    return errors.Is(err, ErrEmptyLayout) || errors.As(err, &mp) || errors.As(err, &dup)
}

// SeatInfo describes one seat of the enumerated universe: its derived
// identifier, its pricing class and the unit price from the hall's
// pricing table.
type SeatInfo struct {
    ID         string          `json:"seat_id"`
    Class      model.SeatClass `json:"class"`
    PriceCents uint32          `json:"price_cents"`
}

// EnumerateSeats derives every seat identifier of a hall in a stable
// order: blocks in declared order, rows top to bottom, seats left to
// right, then boxes in declared order.  Block seats are identified as
// "{block}-{rowLetter}{seatNumber}" with row letters starting at 'A',
// and box seats as "{box}-{seatNumber}" numbered from 1.  It is a pure
// function of the hall record and fails when the layout is empty, a
// required price entry is missing, or two units derive the same
// identifier.
func EnumerateSeats(hall model.Hall) ([]SeatInfo, error) {
    if len(hall.Blocks) == 0 && len(hall.Boxes) == 0 {
        return nil, ErrEmptyLayout
    }
    regularPrice, haveRegular := hall.Prices[model.SeatClassRegular]
    boxPrice, haveBox := hall.Prices[model.SeatClassBox]
    if len(hall.Blocks) > 0 && !haveRegular {
        return nil, &MissingPriceError{Class: model.SeatClassRegular}
    }
    if len(hall.Boxes) > 0 && !haveBox {
        return nil, &MissingPriceError{Class: model.SeatClassBox}
    }

    total := 0
    for _, b := range hall.Blocks {
        total += int(b.Rows) * int(b.SeatsPerRow)
    }
    for _, bx := range hall.Boxes {
        total += int(bx.Capacity)
    }
    seats := make([]SeatInfo, 0, total)
    seen := make(map[string]struct{}, total)

    for _, b := range hall.Blocks {
        for row := 0; row < int(b.Rows); row++ {
            label := RowLabel(row)
            for n := 1; n <= int(b.SeatsPerRow); n++ {
                id := fmt.Sprintf("%s-%s%d", b.Name, label, n)
                if _, dup := seen[id]; dup {
                    return nil, &DuplicateSeatError{SeatID: id}
                }
                seen[id] = struct{}{}
                seats = append(seats, SeatInfo{ID: id, Class: model.SeatClassRegular, PriceCents: regularPrice})
            }
        }
    }
    for _, bx := range hall.Boxes {
        for n := 1; n <= int(bx.Capacity); n++ {
            id := fmt.Sprintf("%s-%d", bx.Name, n)
            if _, dup := seen[id]; dup {
                return nil, &DuplicateSeatError{SeatID: id}
            }
            seen[id] = struct{}{}
            seats = append(seats, SeatInfo{ID: id, Class: model.SeatClassBox, PriceCents: boxPrice})
        }
    }
    return seats, nil
}

// RowLabel converts a zero-based row index to an alphabetical label
// like A, B, ... Z, AA, AB.
func RowLabel(i int) string {
    if i < 0 {
        return ""
    }
    res := []rune{}
    for {
        rem := i % 26
        res = append(res, rune('A'+rem))
        i = i/26 - 1
        if i < 0 {
            break
        }
    }
    for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
        res[j], res[k] = res[k], res[j]
    }
    return string(res)
}
