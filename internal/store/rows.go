package store

import (
	"time"

	"github.com/wonny/aistocks/internal/contracts"
)

// snapshotRow is one (date, instrument) row; nil means the field is absent
type snapshotRow struct {
	Date          time.Time
	Instrument    string
	Price         *float64
	PercentChange *float64
}

// tradeDay truncates t to its calendar day; the store keeps one row per day
func tradeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// flatten turns records into rows keyed by (trade day, instrument).
// Records sharing a calendar day collapse: the later record's row wins.
func flatten(records []contracts.Record) []snapshotRow {
	var rows []snapshotRow
	index := make(map[string]int)
	for _, rec := range records {
		day := tradeDay(rec.Date)
		for _, name := range rec.Instruments() {
			row := snapshotRow{Date: day, Instrument: name}
			if v, ok := rec.Lookup(contracts.FieldPrice, name); ok {
				row.Price = &v
			}
			if v, ok := rec.Lookup(contracts.FieldPercentChange, name); ok {
				row.PercentChange = &v
			}

			key := day.Format("2006-01-02") + "|" + name
			if i, seen := index[key]; seen {
				rows[i] = row
				continue
			}
			index[key] = len(rows)
			rows = append(rows, row)
		}
	}
	return rows
}

// pivot groups date-ordered rows back into one record per date
func pivot(rows []snapshotRow) []contracts.Record {
	records := make([]contracts.Record, 0)
	for _, row := range rows {
		n := len(records)
		if n == 0 || !records[n-1].Date.Equal(row.Date) {
			records = append(records, contracts.NewRecord(row.Date))
			n++
		}
		rec := &records[n-1]
		if row.Price != nil {
			rec.Set(contracts.FieldPrice, row.Instrument, *row.Price)
		}
		if row.PercentChange != nil {
			rec.Set(contracts.FieldPercentChange, row.Instrument, *row.PercentChange)
		}
	}
	return records
}
