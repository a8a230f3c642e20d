package contracts

import (
	"sort"
	"time"
)

// Field selects which numeric series of a record is read
// ⭐ SSOT: field kind is an enum, never a string prefix
type Field int

const (
	FieldPercentChange Field = iota
	FieldPrice
)

// Prefix returns the key prefix used for this field in the raw JSON file.
// Only the loader and the wire encoders should need it.
func (f Field) Prefix() string {
	switch f {
	case FieldPrice:
		return "Price_"
	case FieldPercentChange:
		return "PercentChange_"
	default:
		return ""
	}
}

// String returns the field name
func (f Field) String() string {
	switch f {
	case FieldPrice:
		return "price"
	case FieldPercentChange:
		return "percent_change"
	default:
		return "unknown"
	}
}

// Fields lists every field kind in wire order
var Fields = []Field{FieldPrice, FieldPercentChange}

// Record is one date's snapshot of values across all tracked instruments
type Record struct {
	Date   time.Time
	Values map[Field]map[string]float64 // field kind -> instrument -> value
}

// NewRecord creates an empty record for the given date
func NewRecord(date time.Time) Record {
	return Record{
		Date: date,
		Values: map[Field]map[string]float64{
			FieldPrice:         {},
			FieldPercentChange: {},
		},
	}
}

// Set stores a value for an instrument
func (r *Record) Set(field Field, instrument string, value float64) {
	if r.Values == nil {
		r.Values = make(map[Field]map[string]float64, len(Fields))
	}
	series, ok := r.Values[field]
	if !ok {
		series = make(map[string]float64)
		r.Values[field] = series
	}
	series[instrument] = value
}

// Lookup returns the value for an instrument and whether it is present
func (r Record) Lookup(field Field, instrument string) (float64, bool) {
	series, ok := r.Values[field]
	if !ok {
		return 0, false
	}
	v, ok := series[instrument]
	return v, ok
}

// Instruments returns the sorted instrument names that have any value on this record
func (r Record) Instruments() []string {
	seen := make(map[string]struct{})
	for _, series := range r.Values {
		for name := range series {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DateString returns the record date in YYYY-MM-DD form
func (r Record) DateString() string {
	return r.Date.Format("2006-01-02")
}

// SortRecords orders records by date ascending, keeping the relative order of equal dates
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

// IsAscending reports whether records are non-decreasing by date
func IsAscending(records []Record) bool {
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			return false
		}
	}
	return true
}
