package selection

import (
	"errors"
	"strings"
	"time"

	"github.com/wonny/aistocks/internal/contracts"
)

// View is the derived state a renderer draws from
type View struct {
	Selection  contracts.Selection `json:"selection"`
	LatestDate *time.Time          `json:"latest_date,omitempty"`
	Records    []contracts.Record  `json:"-"`
	Cards      []Card              `json:"cards"`
	Series     []Series            `json:"series"`
}

// Card is one instrument button: short label, color and latest percent change
type Card struct {
	Name        string                `json:"name"`
	Label       string                `json:"label"`
	Color       string                `json:"color"`
	Selected    bool                  `json:"selected"`
	Value       float64               `json:"value"`
	HasValue    bool                  `json:"has_value"`
	Performance contracts.Performance `json:"performance"`
}

// Series is the chart line of one selected instrument
type Series struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Point is one charted value
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BuildView derives the full renderer state for a selection
// ⭐ SSOT: renderers call this instead of combining the engine functions themselves
//
// Cards follow SelectInstruments then SortInstruments on the latest visible
// record. Series are built for selected catalog instruments in selection
// order; records lacking the displayed value are skipped for that series.
func BuildView(catalog *contracts.Catalog, records []contracts.Record, sel contracts.Selection) View {
	visible := WindowRecords(records, sel.Window)
	latest := LatestRecord(visible)

	view := View{
		Selection: sel.Clone(),
		Records:   visible,
		Cards:     make([]Card, 0, len(catalog.Instruments)),
		Series:    make([]Series, 0, len(sel.Selected)),
	}
	if latest != nil {
		d := latest.Date
		view.LatestDate = &d
	}

	names := SortInstruments(SelectInstruments(catalog, sel.Search, sel.Category), sel.Sort, latest)
	for _, name := range names {
		color, _ := catalog.Color(name)
		card := Card{
			Name:        name,
			Label:       ShortLabel(name),
			Color:       color,
			Selected:    sel.IsSelected(name),
			Performance: contracts.Neutral,
		}
		if latest != nil {
			if v, ok := latest.Lookup(contracts.FieldPercentChange, name); ok {
				card.Value = v
				card.HasValue = true
				card.Performance = ClassifyPerformance(v)
			}
		}
		view.Cards = append(view.Cards, card)
	}

	for _, name := range sel.Selected {
		color, ok := catalog.Color(name)
		if !ok {
			continue
		}
		view.Series = append(view.Series, Series{
			Name:   name,
			Label:  ShortLabel(name),
			Color:  color,
			Points: seriesPoints(visible, name, sel.Mode),
		})
	}

	return view
}

func seriesPoints(records []contracts.Record, name string, mode contracts.DisplayMode) []Point {
	points := make([]Point, 0, len(records))
	for _, rec := range records {
		v, err := ValueOf(rec, name, mode)
		if errors.Is(err, contracts.ErrMissingField) {
			continue
		}
		points = append(points, Point{Date: rec.DateString(), Value: v})
	}
	return points
}

// ShortLabel returns the text before the first space ("NVIDIA (NVDA)" -> "NVIDIA")
func ShortLabel(name string) string {
	label, _, _ := strings.Cut(name, " ")
	return label
}
