package selection

import (
	"fmt"

	"github.com/wonny/aistocks/internal/contracts"
)

// Performance thresholds in percentage points
const (
	PositiveThreshold = 5.0
	NegativeThreshold = -5.0
)

// ValueOf returns the displayed value of an instrument on a record.
// Price mode reads the price, every other mode the percent change. A missing
// value returns *contracts.MissingFieldError instead of a default.
func ValueOf(record contracts.Record, instrument string, mode contracts.DisplayMode) (float64, error) {
	field := mode.Field()
	v, ok := record.Lookup(field, instrument)
	if !ok {
		return 0, &contracts.MissingFieldError{
			Date:       record.Date,
			Instrument: instrument,
			Field:      field,
		}
	}
	return v, nil
}

// ClassifyPerformance buckets a percent change: above 5 is positive, below -5 negative
func ClassifyPerformance(value float64) contracts.Performance {
	switch {
	case value > PositiveThreshold:
		return contracts.Positive
	case value < NegativeThreshold:
		return contracts.Negative
	default:
		return contracts.Neutral
	}
}

// FormatValue renders a value the way the dashboard labels it
func FormatValue(value float64, mode contracts.DisplayMode) string {
	if mode == contracts.ModePrice {
		return fmt.Sprintf("$%.2f", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}
