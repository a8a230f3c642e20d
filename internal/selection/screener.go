package selection

import (
	"strings"

	"github.com/wonny/aistocks/internal/contracts"
)

// SelectInstruments filters the catalog by search term and category
// ⭐ SSOT: instrument filtering is implemented only here
//
// Names keep catalog order. The search is a case-insensitive substring match,
// so an empty term matches everything. category "All" disables the category
// filter; a category that does not exist matches nothing.
func SelectInstruments(catalog *contracts.Catalog, search, category string) []string {
	matched := make([]string, 0, len(catalog.Instruments))

	var members map[string]struct{}
	if category != contracts.CategoryAll {
		names, ok := catalog.Members(category)
		if !ok {
			return matched
		}
		members = make(map[string]struct{}, len(names))
		for _, n := range names {
			members[n] = struct{}{}
		}
	}

	term := strings.ToLower(search)
	for _, name := range catalog.Names() {
		if !strings.Contains(strings.ToLower(name), term) {
			continue
		}
		if members != nil {
			if _, ok := members[name]; !ok {
				continue
			}
		}
		matched = append(matched, name)
	}

	return matched
}
