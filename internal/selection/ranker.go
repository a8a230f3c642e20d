package selection

import (
	"sort"
	"strings"

	"github.com/wonny/aistocks/internal/contracts"
)

// SortInstruments orders instrument names for display
// ⭐ SSOT: instrument ordering is implemented only here
//
//   - SortAlphabetical: ascending by lowercase name, stable.
//   - SortPerformance: descending by percent change on latest. Instruments
//     without a percent change on latest rank below every present value (as if
//     they were negative infinity) and keep their input order among themselves.
//     A nil latest leaves the input order untouched.
//   - Any other mode leaves the input order untouched.
//
// The input slice is never modified.
func SortInstruments(names []string, mode contracts.SortMode, latest *contracts.Record) []string {
	ordered := make([]string, len(names))
	copy(ordered, names)

	switch mode {
	case contracts.SortAlphabetical:
		sort.SliceStable(ordered, func(i, j int) bool {
			return strings.ToLower(ordered[i]) < strings.ToLower(ordered[j])
		})

	case contracts.SortPerformance:
		if latest == nil {
			return ordered
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			vi, okI := latest.Lookup(contracts.FieldPercentChange, ordered[i])
			vj, okJ := latest.Lookup(contracts.FieldPercentChange, ordered[j])
			switch {
			case okI && !okJ:
				return true
			case !okI:
				return false
			default:
				return vi > vj
			}
		})
	}

	return ordered
}
