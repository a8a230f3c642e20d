package contracts

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeWindow bounds the visible records: a lookback in weeks or year-to-date
type TimeWindow struct {
	Weeks int  `json:"weeks"`
	YTD   bool `json:"ytd"`
}

// YearToDate is the year-to-date sentinel window
var YearToDate = TimeWindow{YTD: true}

// WeeksWindow returns a fixed lookback window
func WeeksWindow(weeks int) TimeWindow {
	return TimeWindow{Weeks: weeks}
}

// String returns "ytd" or the week count
func (w TimeWindow) String() string {
	if w.YTD {
		return "ytd"
	}
	return strconv.Itoa(w.Weeks)
}

// Interval is a labelled time window preset
type Interval struct {
	Label  string     `json:"label"`
	Window TimeWindow `json:"window"`
}

// Intervals are the presets offered to users, in display order
var Intervals = []Interval{
	{Label: "1W", Window: WeeksWindow(1)},
	{Label: "1M", Window: WeeksWindow(4)},
	{Label: "3M", Window: WeeksWindow(13)},
	{Label: "6M", Window: WeeksWindow(26)},
	{Label: "YTD", Window: YearToDate},
}

// ParseTimeWindow accepts a preset label (1W, 3M, YTD), "ytd" or a non-negative week count
func ParseTimeWindow(s string) (TimeWindow, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeWindow{}, fmt.Errorf("empty time window")
	}

	for _, iv := range Intervals {
		if strings.EqualFold(iv.Label, s) {
			return iv.Window, nil
		}
	}

	weeks, err := strconv.Atoi(s)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("invalid time window %q (valid: 1W, 1M, 3M, 6M, YTD or week count)", s)
	}
	if weeks < 0 {
		return TimeWindow{}, fmt.Errorf("time window must be non-negative, got %d", weeks)
	}
	return WeeksWindow(weeks), nil
}

// DisplayMode selects which numeric field is shown
type DisplayMode string

const (
	ModePercent DisplayMode = "percent"
	ModePrice   DisplayMode = "price"
)

// Field maps the display mode to the record field it reads
func (m DisplayMode) Field() Field {
	if m == ModePrice {
		return FieldPrice
	}
	return FieldPercentChange
}

// Toggle switches between price and percent
func (m DisplayMode) Toggle() DisplayMode {
	if m == ModePrice {
		return ModePercent
	}
	return ModePrice
}

// ParseDisplayMode parses "percent" or "price"
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePercent:
		return ModePercent, nil
	case ModePrice:
		return ModePrice, nil
	default:
		return "", fmt.Errorf("invalid display mode %q (valid: percent, price)", s)
	}
}

// SortMode orders the instrument list
type SortMode string

const (
	SortAlphabetical SortMode = "alphabetical"
	SortPerformance  SortMode = "performance"
)

// ParseSortMode parses "alphabetical" or "performance"
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortAlphabetical:
		return SortAlphabetical, nil
	case SortPerformance:
		return SortPerformance, nil
	default:
		return "", fmt.Errorf("invalid sort mode %q (valid: alphabetical, performance)", s)
	}
}

// CategoryAll disables category filtering
const CategoryAll = "All"

// Performance classifies a percent change
type Performance string

const (
	Positive Performance = "positive"
	Negative Performance = "negative"
	Neutral  Performance = "neutral"
)

// Selection is the user's ephemeral view state
// Held by a single session; mutated only through explicit actions.
type Selection struct {
	Selected []string    `json:"selected"`
	Window   TimeWindow  `json:"window"`
	Mode     DisplayMode `json:"mode"`
	Search   string      `json:"search"`
	Category string      `json:"category"`
	Sort     SortMode    `json:"sort"`
}

// DefaultSelection returns the state a dashboard starts with
func DefaultSelection() Selection {
	return Selection{
		Selected: []string{"NVIDIA (NVDA)", "Microsoft (MSFT)", "Google (GOOGL)"},
		Window:   YearToDate,
		Mode:     ModePercent,
		Search:   "",
		Category: CategoryAll,
		Sort:     SortPerformance,
	}
}

// IsSelected reports whether the instrument is charted
func (s Selection) IsSelected(name string) bool {
	for _, n := range s.Selected {
		if n == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with s
func (s Selection) Clone() Selection {
	c := s
	c.Selected = append([]string(nil), s.Selected...)
	return c
}
