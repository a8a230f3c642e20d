package loader

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wonny/aistocks/internal/contracts"
)

// dateLayouts are tried in order when parsing a record's Date
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 02 2006",
}

// ParseDate parses a record date in any of the accepted layouts
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseRecords decodes the record file: a JSON array of objects with a Date
// and Price_<name> / PercentChange_<name> fields.
// Non-numeric values are treated as absent, unknown keys are ignored.
// The result is sorted by date ascending (stable).
func ParseRecords(data []byte) ([]contracts.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected JSON array, got %s", root.Type)
	}

	items := root.Array()
	records := make([]contracts.Record, 0, len(items))
	for i, item := range items {
		rec, err := parseRecord(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	contracts.SortRecords(records)
	return records, nil
}

func parseRecord(item gjson.Result) (contracts.Record, error) {
	if !item.IsObject() {
		return contracts.Record{}, fmt.Errorf("expected object, got %s", item.Type)
	}

	dateValue := item.Get("Date")
	if dateValue.Type != gjson.String {
		return contracts.Record{}, fmt.Errorf("missing Date")
	}
	date, err := ParseDate(dateValue.Str)
	if err != nil {
		return contracts.Record{}, err
	}

	rec := contracts.NewRecord(date)
	item.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			return true
		}
		for _, field := range contracts.Fields {
			if name, ok := strings.CutPrefix(key.Str, field.Prefix()); ok && name != "" {
				rec.Set(field, name, value.Float())
				break
			}
		}
		return true
	})
	return rec, nil
}
