package selection

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aistocks/internal/contracts"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date string, pct map[string]float64) contracts.Record {
	r := contracts.NewRecord(day(date))
	for name, v := range pct {
		r.Set(contracts.FieldPercentChange, name, v)
		r.Set(contracts.FieldPrice, name, 100+v)
	}
	return r
}

func dates(records []contracts.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.DateString()
	}
	return out
}

func testCatalog() *contracts.Catalog {
	return &contracts.Catalog{
		Instruments: []contracts.Instrument{
			{Name: "NVIDIA (NVDA)", Color: "#AF52DE"},
			{Name: "apple (AAPL)", Color: "#FF9500"},
			{Name: "AMD (AMD)", Color: "#5856D6"},
			{Name: "Intel (INTC)", Color: "#FFCC00"},
			{Name: "Apple (AAPL)", Color: "#FF9501"},
		},
		Categories: []contracts.Category{
			{Name: "Chip Makers", Members: []string{"AMD (AMD)", "Intel (INTC)", "NVIDIA (NVDA)"}},
			{Name: "Fruit", Members: []string{"apple (AAPL)"}},
		},
	}
}

func TestWindowRecords(t *testing.T) {
	records := []contracts.Record{
		rec("2023-12-20", nil),
		rec("2023-12-29", nil),
		rec("2024-01-02", nil),
		rec("2024-05-20", nil),
		rec("2024-05-25", nil),
		rec("2024-05-31", nil),
		rec("2024-06-01", nil),
	}

	tests := []struct {
		name   string
		window contracts.TimeWindow
		want   []string
	}{
		{"zero weeks keeps latest date", contracts.WeeksWindow(0), []string{"2024-06-01"}},
		{"one week", contracts.WeeksWindow(1), []string{"2024-05-25", "2024-05-31", "2024-06-01"}},
		{"two weeks", contracts.WeeksWindow(2), []string{"2024-05-20", "2024-05-25", "2024-05-31", "2024-06-01"}},
		{"ytd", contracts.YearToDate, []string{"2024-01-02", "2024-05-20", "2024-05-25", "2024-05-31", "2024-06-01"}},
		{"long lookback returns all", contracts.WeeksWindow(104), dates(records)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowRecords(records, tt.window)
			assert.Equal(t, tt.want, dates(got))
		})
	}
}

func TestWindowRecords_SuffixProperty(t *testing.T) {
	var records []contracts.Record
	start := day("2023-10-01")
	for i := 0; i < 200; i += 3 {
		records = append(records, contracts.NewRecord(start.AddDate(0, 0, i)))
	}
	latest := records[len(records)-1].Date

	for w := 0; w <= 40; w++ {
		got := WindowRecords(records, contracts.WeeksWindow(w))
		cutoff := latest.AddDate(0, 0, -7*w)

		require.NotEmpty(t, got)
		offset := len(records) - len(got)
		for i, r := range got {
			assert.Equal(t, records[offset+i].Date, r.Date, "result must be a suffix")
			assert.False(t, r.Date.Before(cutoff), "week %d: %s before cutoff", w, r.DateString())
		}
		if offset > 0 {
			assert.True(t, records[offset-1].Date.Before(cutoff), "week %d: suffix is not maximal", w)
		}
	}
}

func TestWindowRecords_YTDExcludesPriorYear(t *testing.T) {
	records := []contracts.Record{
		rec("2023-12-31", nil),
		rec("2024-01-01", nil),
		rec("2024-03-15", nil),
	}

	got := WindowRecords(records, contracts.YearToDate)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, 2024, r.Date.Year())
	}
}

func TestWindowRecords_Empty(t *testing.T) {
	for _, w := range []contracts.TimeWindow{contracts.YearToDate, contracts.WeeksWindow(0), contracts.WeeksWindow(26)} {
		got := WindowRecords(nil, w)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestWindowRecords_DoesNotAliasOnAppend(t *testing.T) {
	records := []contracts.Record{rec("2024-01-01", nil), rec("2024-01-02", nil), rec("2024-01-03", nil)}
	got := WindowRecords(records[:2], contracts.YearToDate)

	_ = append(got, rec("2030-01-01", nil))
	assert.Equal(t, "2024-01-03", records[2].DateString())
}

func TestSelectInstruments(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"all", "", contracts.CategoryAll, catalog.Names()},
		{"case-insensitive search", "APPLE", contracts.CategoryAll, []string{"apple (AAPL)", "Apple (AAPL)"}},
		{"ticker search", "nvda", contracts.CategoryAll, []string{"NVIDIA (NVDA)"}},
		{"category keeps catalog order", "", "Chip Makers", []string{"NVIDIA (NVDA)", "AMD (AMD)", "Intel (INTC)"}},
		{"search and category", "a", "Fruit", []string{"apple (AAPL)"}},
		{"unknown category", "", "Banks", []string{}},
		{"no match", "zzz", contracts.CategoryAll, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectInstruments(catalog, tt.search, tt.category))
		})
	}
}

func TestSelectInstruments_Idempotent(t *testing.T) {
	catalog := testCatalog()
	first := SelectInstruments(catalog, "", contracts.CategoryAll)
	second := SelectInstruments(catalog, "", contracts.CategoryAll)
	assert.Equal(t, first, second)
}

func TestSortInstruments_Alphabetical(t *testing.T) {
	names := []string{"NVIDIA (NVDA)", "apple (AAPL)", "AMD (AMD)", "Intel (INTC)", "Apple (AAPL)"}

	got := SortInstruments(names, contracts.SortAlphabetical, nil)

	assert.Equal(t, []string{"AMD (AMD)", "apple (AAPL)", "Apple (AAPL)", "Intel (INTC)", "NVIDIA (NVDA)"}, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, strings.ToLower(got[i-1]), strings.ToLower(got[i]))
	}
	assert.Equal(t, "NVIDIA (NVDA)", names[0], "input must not be modified")
}

func TestSortInstruments_Performance(t *testing.T) {
	latest := rec("2024-06-01", map[string]float64{
		"A": 3,
		"B": 12.5,
		"C": -7,
		"E": 3,
	})
	names := []string{"D", "A", "B", "C", "F", "E"}

	got := SortInstruments(names, contracts.SortPerformance, &latest)

	assert.Equal(t, []string{"B", "A", "E", "C", "D", "F"}, got)

	prev := math.Inf(1)
	seenMissing := false
	for _, name := range got {
		v, ok := latest.Lookup(contracts.FieldPercentChange, name)
		if !ok {
			seenMissing = true
			continue
		}
		assert.False(t, seenMissing, "present value %s after a missing one", name)
		assert.LessOrEqual(t, v, prev)
		prev = v
	}
}

func TestSortInstruments_NoLatestOrUnknownMode(t *testing.T) {
	names := []string{"B", "A", "C"}
	latest := rec("2024-06-01", map[string]float64{"A": 1, "B": 2, "C": 3})

	assert.Equal(t, names, SortInstruments(names, contracts.SortPerformance, nil))
	assert.Equal(t, names, SortInstruments(names, contracts.SortMode("volume"), &latest))
	assert.Equal(t, []string{}, SortInstruments(nil, contracts.SortAlphabetical, nil))
}

func TestValueOf(t *testing.T) {
	r := contracts.NewRecord(day("2024-06-01"))
	r.Set(contracts.FieldPrice, "X", 12)
	r.Set(contracts.FieldPercentChange, "X", 20)
	r.Set(contracts.FieldPercentChange, "Y", -1)

	v, err := ValueOf(r, "X", contracts.ModePrice)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)

	v, err = ValueOf(r, "X", contracts.ModePercent)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	_, err = ValueOf(r, "Y", contracts.ModePrice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrMissingField))

	var mfe *contracts.MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "Y", mfe.Instrument)
	assert.Equal(t, contracts.FieldPrice, mfe.Field)
	assert.Contains(t, err.Error(), "Price_Y")
}

func TestClassifyPerformance(t *testing.T) {
	tests := []struct {
		value float64
		want  contracts.Performance
	}{
		{5.0001, contracts.Positive},
		{5.0, contracts.Neutral},
		{0, contracts.Neutral},
		{-5.0, contracts.Neutral},
		{-5.0001, contracts.Negative},
		{42, contracts.Positive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPerformance(tt.value), "value %v", tt.value)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "$12.35", FormatValue(12.345, contracts.ModePrice))
	assert.Equal(t, "-3.10%", FormatValue(-3.1, contracts.ModePercent))
}

func TestBuildView(t *testing.T) {
	catalog := testCatalog()
	records := []contracts.Record{
		rec("2024-01-02", map[string]float64{"NVIDIA (NVDA)": 1, "AMD (AMD)": 2, "Intel (INTC)": -1}),
		rec("2024-06-01", map[string]float64{"NVIDIA (NVDA)": 40, "AMD (AMD)": -8, "Intel (INTC)": 2}),
	}
	// NVDA price missing on the last day
	delete(records[1].Values[contracts.FieldPrice], "NVIDIA (NVDA)")

	sel := contracts.Selection{
		Selected: []string{"AMD (AMD)", "NVIDIA (NVDA)", "Unknown"},
		Window:   contracts.YearToDate,
		Mode:     contracts.ModePrice,
		Category: "Chip Makers",
		Sort:     contracts.SortPerformance,
	}

	view := BuildView(catalog, records, sel)

	require.NotNil(t, view.LatestDate)
	assert.Equal(t, "2024-06-01", view.LatestDate.Format("2006-01-02"))
	assert.Len(t, view.Records, 2)

	require.Len(t, view.Cards, 3)
	assert.Equal(t, "NVIDIA (NVDA)", view.Cards[0].Name)
	assert.Equal(t, "NVIDIA", view.Cards[0].Label)
	assert.Equal(t, contracts.Positive, view.Cards[0].Performance)
	assert.True(t, view.Cards[0].Selected)
	assert.Equal(t, "Intel (INTC)", view.Cards[1].Name)
	assert.False(t, view.Cards[1].Selected)
	assert.Equal(t, contracts.Negative, view.Cards[2].Performance)

	require.Len(t, view.Series, 2, "unknown instruments are not charted")
	assert.Equal(t, "AMD (AMD)", view.Series[0].Name)
	assert.Len(t, view.Series[0].Points, 2)
	assert.Equal(t, 92.0, view.Series[0].Points[1].Value)
	assert.Len(t, view.Series[1].Points, 1, "missing price is skipped, not zero-filled")
}

func TestBuildView_EmptyRecords(t *testing.T) {
	view := BuildView(testCatalog(), nil, contracts.DefaultSelection())

	assert.Nil(t, view.LatestDate)
	assert.Empty(t, view.Records)
	require.Len(t, view.Cards, 5)
	for _, c := range view.Cards {
		assert.False(t, c.HasValue)
		assert.Equal(t, contracts.Neutral, c.Performance)
	}
	assert.Equal(t, testCatalog().Names(), func() []string {
		out := make([]string, len(view.Cards))
		for i, c := range view.Cards {
			out[i] = c.Name
		}
		return out
	}())
}
