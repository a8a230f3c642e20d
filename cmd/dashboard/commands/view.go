package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/selection"
)

// viewCmd renders the dashboard in the terminal
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the dashboard view in the terminal",
	Long: `Loads the records and prints the instrument list and the charted
series for a selection. Unset flags use the dashboard defaults
(NVDA, MSFT and GOOGL charted, YTD, percent, sorted by performance).

Example:
  go run ./cmd/dashboard view
  go run ./cmd/dashboard view --window 1M --mode price --selected "AMD (AMD),Intel (INTC)"
  go run ./cmd/dashboard view --category "Chip Makers" --sort alphabetical`,
	RunE: runView,
}

var (
	viewWindow   string
	viewMode     string
	viewSort     string
	viewSearch   string
	viewCategory string
	viewSelected []string
)

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewWindow, "window", "YTD", "time window (1W, 1M, 3M, 6M, YTD or weeks)")
	viewCmd.Flags().StringVar(&viewMode, "mode", string(contracts.ModePercent), "display mode (percent|price)")
	viewCmd.Flags().StringVar(&viewSort, "sort", string(contracts.SortPerformance), "instrument order (performance|alphabetical)")
	viewCmd.Flags().StringVar(&viewSearch, "search", "", "instrument name filter")
	viewCmd.Flags().StringVar(&viewCategory, "category", contracts.CategoryAll, "category filter")
	viewCmd.Flags().StringSliceVar(&viewSelected, "selected", nil, "charted instruments (comma-separated)")
}

func runView(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.loader.Load(ctx)
	printView(os.Stdout, a.catalog, records, sel)
	return nil
}

// selectionFromFlags starts from the default selection and applies the flags
func selectionFromFlags(cmd *cobra.Command) (contracts.Selection, error) {
	sel := contracts.DefaultSelection()

	window, err := contracts.ParseTimeWindow(viewWindow)
	if err != nil {
		return sel, err
	}
	mode, err := contracts.ParseDisplayMode(viewMode)
	if err != nil {
		return sel, err
	}
	sortMode, err := contracts.ParseSortMode(viewSort)
	if err != nil {
		return sel, err
	}

	sel.Window = window
	sel.Mode = mode
	sel.Sort = sortMode
	sel.Search = viewSearch
	sel.Category = viewCategory
	if cmd.Flags().Changed("selected") {
		sel.Selected = viewSelected
	}
	return sel, nil
}

// printView derives the view and writes both tables
func printView(w io.Writer, cat *contracts.Catalog, records []contracts.Record, sel contracts.Selection) {
	view := selection.BuildView(cat, records, sel)

	PrintHeader(w, "AI Stocks Dashboard")
	if view.LatestDate != nil {
		PrintKeyValue(w, "Latest", view.LatestDate.Format("2006-01-02"), 9)
	} else {
		PrintKeyValue(w, "Latest", "no data", 9)
	}
	PrintKeyValue(w, "Records", fmt.Sprintf("%d visible", len(view.Records)), 9)
	PrintKeyValue(w, "Selection", describeSelection(view.Selection), 9)
	fmt.Fprintln(w)

	renderCards(w, view.Cards)
	fmt.Fprintln(w)
	renderSeries(w, view)
}
