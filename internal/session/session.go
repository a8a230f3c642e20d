package session

import (
	"fmt"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/selection"
)

// Session owns one user's selection state over a fixed record sequence.
// A Session is not safe for concurrent use; each connection holds its own.
type Session struct {
	catalog *contracts.Catalog
	records []contracts.Record
	sel     contracts.Selection
}

// New creates a session with the default selection
func New(catalog *contracts.Catalog, records []contracts.Record) *Session {
	return &Session{
		catalog: catalog,
		records: records,
		sel:     contracts.DefaultSelection(),
	}
}

// Selection returns a copy of the current state
func (s *Session) Selection() contracts.Selection {
	return s.sel.Clone()
}

// View derives the renderer state for the current selection
func (s *Session) View() selection.View {
	return selection.BuildView(s.catalog, s.records, s.sel)
}

// ToggleInstrument adds the instrument to the chart, or removes it if present.
// Names outside the catalog are ignored and reported as false.
func (s *Session) ToggleInstrument(name string) bool {
	if !s.catalog.Has(name) {
		return false
	}

	for i, n := range s.sel.Selected {
		if n == name {
			s.sel.Selected = append(s.sel.Selected[:i:i], s.sel.Selected[i+1:]...)
			return true
		}
	}
	s.sel.Selected = append(s.sel.Selected, name)
	return true
}

// SetWindow changes the visible time window
func (s *Session) SetWindow(w contracts.TimeWindow) {
	s.sel.Window = w
}

// ToggleMode switches between price and percent display
func (s *Session) ToggleMode() {
	s.sel.Mode = s.sel.Mode.Toggle()
}

// SetMode sets the display mode
func (s *Session) SetMode(m contracts.DisplayMode) {
	s.sel.Mode = m
}

// SetSearch sets the instrument name filter
func (s *Session) SetSearch(term string) {
	s.sel.Search = term
}

// SetCategory sets the category filter. Unknown categories are kept and match nothing.
func (s *Session) SetCategory(category string) {
	s.sel.Category = category
}

// SetSort sets the instrument ordering
func (s *Session) SetSort(mode contracts.SortMode) {
	s.sel.Sort = mode
}

// Reset restores the default selection
func (s *Session) Reset() {
	s.sel = contracts.DefaultSelection()
}

// Action types accepted by Apply
const (
	ActionToggleInstrument = "toggle_instrument"
	ActionSetWindow        = "set_window"
	ActionToggleMode       = "toggle_mode"
	ActionSetMode          = "set_mode"
	ActionSetSearch        = "set_search"
	ActionSetCategory      = "set_category"
	ActionSetSort          = "set_sort"
	ActionReset            = "reset"
)

// Action is one user interaction as sent by a client
type Action struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Apply performs an action. Malformed actions return an error and leave the state unchanged.
func (s *Session) Apply(a Action) error {
	switch a.Type {
	case ActionToggleInstrument:
		if !s.ToggleInstrument(a.Value) {
			return fmt.Errorf("unknown instrument %q", a.Value)
		}
	case ActionSetWindow:
		w, err := contracts.ParseTimeWindow(a.Value)
		if err != nil {
			return err
		}
		s.SetWindow(w)
	case ActionToggleMode:
		s.ToggleMode()
	case ActionSetMode:
		m, err := contracts.ParseDisplayMode(a.Value)
		if err != nil {
			return err
		}
		s.SetMode(m)
	case ActionSetSearch:
		s.SetSearch(a.Value)
	case ActionSetCategory:
		s.SetCategory(a.Value)
	case ActionSetSort:
		m, err := contracts.ParseSortMode(a.Value)
		if err != nil {
			return err
		}
		s.SetSort(m)
	case ActionReset:
		s.Reset()
	default:
		return fmt.Errorf("unknown action %q", a.Type)
	}
	return nil
}

// SetRecords replaces the record sequence, keeping the selection
func (s *Session) SetRecords(records []contracts.Record) {
	s.records = records
}
