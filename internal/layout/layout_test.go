package layout

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestEnumerateSeatsBlockOrder(t *testing.T) {
    hall := model.Hall{
        Blocks: []model.SeatBlock{{Name: "Main", Rows: 2, SeatsPerRow: 3}},
        Prices: map[model.SeatClass]uint32{model.SeatClassRegular: 1000},
    }
    seats, err := EnumerateSeats(hall)
    require.NoError(t, err)

    ids := make([]string, 0, len(seats))
    for _, s := range seats {
        ids = append(ids, s.ID)
    }
    assert.Equal(t, []string{"Main-A1", "Main-A2", "Main-A3", "Main-B1", "Main-B2", "Main-B3"}, ids)
    for _, s := range seats {
        assert.Equal(t, model.SeatClassRegular, s.Class)
        assert.Equal(t, uint32(1000), s.PriceCents)
    }
}

func TestEnumerateSeatsBoxesAfterBlocks(t *testing.T) {
    hall := model.Hall{
        Blocks: []model.SeatBlock{{Name: "Stalls", Rows: 1, SeatsPerRow: 2}},
        Boxes:  []model.BoxSeat{{Name: "Loge1", Capacity: 2}},
        Prices: map[model.SeatClass]uint32{
            model.SeatClassRegular: 900,
            model.SeatClassBox:     2500,
        },
    }
    seats, err := EnumerateSeats(hall)
    require.NoError(t, err)
    require.Len(t, seats, 4)

    assert.Equal(t, "Stalls-A1", seats[0].ID)
    assert.Equal(t, "Stalls-A2", seats[1].ID)
    assert.Equal(t, "Loge1-1", seats[2].ID)
    assert.Equal(t, "Loge1-2", seats[3].ID)
    assert.Equal(t, model.SeatClassBox, seats[2].Class)
    assert.Equal(t, uint32(2500), seats[2].PriceCents)
}

func TestEnumerateSeatsDeterministic(t *testing.T) {
    hall := model.Hall{
        Blocks: []model.SeatBlock{
            {Name: "Left", Rows: 3, SeatsPerRow: 4},
            {Name: "Right", Rows: 3, SeatsPerRow: 4},
        },
        Boxes: []model.BoxSeat{{Name: "Royal", Capacity: 3}},
        Prices: map[model.SeatClass]uint32{
            model.SeatClassRegular: 1200,
            model.SeatClassBox:     3000,
        },
    }
    first, err := EnumerateSeats(hall)
    require.NoError(t, err)
    second, err := EnumerateSeats(hall)
    require.NoError(t, err)
    assert.Equal(t, first, second)
    assert.Len(t, first, 3*4*2+3)
}

func TestEnumerateSeatsErrors(t *testing.T) {
    tests := []struct {
        name string
        hall model.Hall
        want error
    }{
        {
            name: "empty layout",
            hall: model.Hall{Prices: map[model.SeatClass]uint32{}},
            want: ErrEmptyLayout,
        },
        {
            name: "missing regular price",
            hall: model.Hall{
                Blocks: []model.SeatBlock{{Name: "Main", Rows: 1, SeatsPerRow: 1}},
            },
            want: &MissingPriceError{Class: model.SeatClassRegular},
        },
        {
            name: "missing box price",
            hall: model.Hall{
                Boxes:  []model.BoxSeat{{Name: "Loge", Capacity: 1}},
                Prices: map[model.SeatClass]uint32{model.SeatClassRegular: 100},
            },
            want: &MissingPriceError{Class: model.SeatClassBox},
        },
        {
            name: "duplicate block names",
            hall: model.Hall{
                Blocks: []model.SeatBlock{
                    {Name: "Main", Rows: 1, SeatsPerRow: 1},
                    {Name: "Main", Rows: 1, SeatsPerRow: 1},
                },
                Prices: map[model.SeatClass]uint32{model.SeatClassRegular: 100},
            },
            want: &DuplicateSeatError{SeatID: "Main-A1"},
        },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, err := EnumerateSeats(tt.hall)
            require.Error(t, err)
            assert.Equal(t, tt.want.Error(), err.Error())
            assert.True(t, IsConfigurationError(err))
        })
    }
}

func TestRowLabel(t *testing.T) {
    assert.Equal(t, "A", RowLabel(0))
    assert.Equal(t, "Z", RowLabel(25))
    assert.Equal(t, "AA", RowLabel(26))
    assert.Equal(t, "AB", RowLabel(27))
    assert.Equal(t, "", RowLabel(-1))
}
