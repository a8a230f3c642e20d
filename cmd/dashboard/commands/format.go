package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/selection"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command prints through these helpers
// ═══════════════════════════════════════════════════════════

var (
	positiveColor = color.New(color.FgGreen)
	negativeColor = color.New(color.FgRed)
	neutralColor  = color.New(color.FgYellow)
	headerColor   = color.New(color.FgCyan, color.Bold)
)

// PrintHeader prints a titled section header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", headerColor.Sprint(title))
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(os.Stdout, "%s %s\n", positiveColor.Sprint("✅"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stdout, "%s  %s\n", neutralColor.Sprint("⚠️"), message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintf(os.Stdout, "ℹ️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// colorPerformance colors a formatted value by its classification
func colorPerformance(text string, p contracts.Performance) string {
	switch p {
	case contracts.Positive:
		return positiveColor.Sprint(text)
	case contracts.Negative:
		return negativeColor.Sprint(text)
	default:
		return text
	}
}

// renderCards prints the ordered instrument list
func renderCards(w io.Writer, cards []selection.Card) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Instrument", "Label", "Change", "Color", "Charted"})

	for i, c := range cards {
		change := "n/a"
		if c.HasValue {
			change = colorPerformance(selection.FormatValue(c.Value, contracts.ModePercent), c.Performance)
		}
		charted := ""
		if c.Selected {
			charted = "●"
		}
		t.AppendRow(table.Row{i + 1, c.Name, c.Label, change, c.Color, charted})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d instruments", len(cards))})
	t.Render()
}

// renderSeries prints one row per visible date and one column per charted instrument
func renderSeries(w io.Writer, view selection.View) {
	if len(view.Series) == 0 {
		fmt.Fprintln(w, "No instruments selected")
		return
	}
	if len(view.Records) == 0 {
		fmt.Fprintln(w, "No records in the selected time window")
		return
	}

	header := table.Row{"Date"}
	byDate := make([]map[string]float64, len(view.Series))
	for i, s := range view.Series {
		header = append(header, s.Label)
		byDate[i] = make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			byDate[i][p.Date] = p.Value
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	for _, rec := range view.Records {
		date := rec.DateString()
		row := table.Row{date}
		for i := range view.Series {
			if v, ok := byDate[i][date]; ok {
				row = append(row, selection.FormatValue(v, view.Selection.Mode))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

// describeSelection summarizes the selection in one line
func describeSelection(sel contracts.Selection) string {
	return fmt.Sprintf("window=%s mode=%s sort=%s category=%s search=%q selected=[%s]",
		sel.Window, sel.Mode, sel.Sort, sel.Category, sel.Search, strings.Join(sel.Selected, ", "))
}
