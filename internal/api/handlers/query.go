package handlers

import (
	"net/http"
	"strings"

	"github.com/wonny/aistocks/internal/contracts"
)

// parseSelection reads selection state from query parameters.
// Absent parameters keep their default; an empty "selected" charts nothing.
func parseSelection(r *http.Request) (contracts.Selection, error) {
	q := r.URL.Query()
	sel := contracts.DefaultSelection()

	if q.Has("selected") {
		sel.Selected = splitList(q.Get("selected"))
	}
	if v := q.Get("window"); v != "" {
		w, err := contracts.ParseTimeWindow(v)
		if err != nil {
			return sel, err
		}
		sel.Window = w
	}
	if v := q.Get("mode"); v != "" {
		m, err := contracts.ParseDisplayMode(v)
		if err != nil {
			return sel, err
		}
		sel.Mode = m
	}
	if v := q.Get("sort"); v != "" {
		m, err := contracts.ParseSortMode(v)
		if err != nil {
			return sel, err
		}
		sel.Sort = m
	}
	if q.Has("search") {
		sel.Search = q.Get("search")
	}
	if v := q.Get("category"); v != "" {
		sel.Category = v
	}

	return sel, nil
}

// splitList splits a comma-separated list, dropping blanks
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
