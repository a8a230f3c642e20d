package contracts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeWindow
		wantErr bool
	}{
		{"1W", WeeksWindow(1), false},
		{"1m", WeeksWindow(4), false},
		{"3M", WeeksWindow(13), false},
		{"6M", WeeksWindow(26), false},
		{"YTD", YearToDate, false},
		{"ytd", YearToDate, false},
		{"0", WeeksWindow(0), false},
		{"52", WeeksWindow(52), false},
		{"-1", TimeWindow{}, true},
		{"", TimeWindow{}, true},
		{"2Y", TimeWindow{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeWindow(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayMode(t *testing.T) {
	assert.Equal(t, FieldPrice, ModePrice.Field())
	assert.Equal(t, FieldPercentChange, ModePercent.Field())
	assert.Equal(t, FieldPercentChange, DisplayMode("bogus").Field())

	assert.Equal(t, ModePercent, ModePrice.Toggle())
	assert.Equal(t, ModePrice, ModePercent.Toggle())

	m, err := ParseDisplayMode(" Price ")
	require.NoError(t, err)
	assert.Equal(t, ModePrice, m)

	_, err = ParseDisplayMode("volume")
	assert.Error(t, err)
}

func TestParseSortMode(t *testing.T) {
	m, err := ParseSortMode("Performance")
	require.NoError(t, err)
	assert.Equal(t, SortPerformance, m)

	m, err = ParseSortMode("alphabetical")
	require.NoError(t, err)
	assert.Equal(t, SortAlphabetical, m)

	_, err = ParseSortMode("random")
	assert.Error(t, err)
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection()
	assert.Equal(t, []string{"NVIDIA (NVDA)", "Microsoft (MSFT)", "Google (GOOGL)"}, sel.Selected)
	assert.Equal(t, YearToDate, sel.Window)
	assert.Equal(t, ModePercent, sel.Mode)
	assert.Equal(t, CategoryAll, sel.Category)
	assert.Equal(t, SortPerformance, sel.Sort)
	assert.True(t, sel.IsSelected("Microsoft (MSFT)"))
	assert.False(t, sel.IsSelected("Intel (INTC)"))

	clone := sel.Clone()
	clone.Selected[0] = "changed"
	assert.Equal(t, "NVIDIA (NVDA)", sel.Selected[0])
}

func TestRecord(t *testing.T) {
	rec := NewRecord(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	rec.Set(FieldPrice, "B", 2)
	rec.Set(FieldPercentChange, "A", -1)

	v, ok := rec.Lookup(FieldPrice, "B")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = rec.Lookup(FieldPrice, "A")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "B"}, rec.Instruments())
	assert.Equal(t, "2024-03-05", rec.DateString())

	var zero Record
	zero.Set(FieldPrice, "X", 1)
	_, ok = zero.Lookup(FieldPrice, "X")
	assert.True(t, ok)
}

func TestSortRecords_Stable(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	a := NewRecord(d2)
	a.Set(FieldPrice, "first", 1)
	b := NewRecord(d1)
	c := NewRecord(d2)
	c.Set(FieldPrice, "second", 1)

	records := []Record{a, b, c}
	assert.False(t, IsAscending(records))

	SortRecords(records)
	assert.True(t, IsAscending(records))
	assert.Equal(t, []string{"first"}, records[1].Instruments())
	assert.Equal(t, []string{"second"}, records[2].Instruments())
}

func TestFieldPrefix(t *testing.T) {
	assert.Equal(t, "Price_", FieldPrice.Prefix())
	assert.Equal(t, "PercentChange_", FieldPercentChange.Prefix())
	assert.Equal(t, "price", FieldPrice.String())
}

func TestMissingFieldError(t *testing.T) {
	err := error(&MissingFieldError{
		Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Instrument: "X",
		Field:      FieldPrice,
	})
	assert.Equal(t, "missing Price_X on 2024-01-02", err.Error())
	assert.True(t, errors.Is(err, ErrMissingField))
}
