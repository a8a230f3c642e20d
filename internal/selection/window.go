package selection

import (
	"time"

	"github.com/wonny/aistocks/internal/contracts"
)

// WindowRecords returns the records visible in the given time window
// ⭐ SSOT: date windowing is implemented only here
//
// The bound is computed from the last record's date: January 1 of its year for
// year-to-date, or 7*weeks calendar days earlier otherwise. The result is the
// maximal contiguous suffix whose dates are on or after the bound. An empty
// input, or a bound past every date, yields an empty slice.
func WindowRecords(records []contracts.Record, window contracts.TimeWindow) []contracts.Record {
	if len(records) == 0 {
		return []contracts.Record{}
	}

	bound := WindowStart(records[len(records)-1].Date, window)

	start := len(records)
	for start > 0 && !records[start-1].Date.Before(bound) {
		start--
	}

	// Full slice expression so appends by callers never write into the input.
	return records[start:len(records):len(records)]
}

// WindowStart returns the earliest date included by window when latest is the newest date
func WindowStart(latest time.Time, window contracts.TimeWindow) time.Time {
	if window.YTD {
		return time.Date(latest.Year(), time.January, 1, 0, 0, 0, 0, latest.Location())
	}
	return latest.AddDate(0, 0, -7*window.Weeks)
}

// LatestRecord returns the last record, or nil when there is none
func LatestRecord(records []contracts.Record) *contracts.Record {
	if len(records) == 0 {
		return nil
	}
	return &records[len(records)-1]
}
