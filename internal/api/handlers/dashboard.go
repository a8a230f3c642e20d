package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/aistocks/internal/catalog"
	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/dataset"
	"github.com/wonny/aistocks/internal/loader"
	"github.com/wonny/aistocks/internal/selection"
	"github.com/wonny/aistocks/pkg/logger"
)

// DashboardHandler serves the catalog and the selection engine over HTTP
// ⭐ SSOT: dashboard read endpoints live only here
type DashboardHandler struct {
	catalog *contracts.Catalog
	etag    string
	data    *dataset.Store
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(cat *contracts.Catalog, data *dataset.Store, log *logger.Logger) (*DashboardHandler, error) {
	hash, err := catalog.Hash(cat)
	if err != nil {
		return nil, fmt.Errorf("hash catalog: %w", err)
	}

	return &DashboardHandler{
		catalog: cat,
		etag:    `"` + hash + `"`,
		data:    data,
		logger:  log.WithField("handler", "dashboard"),
	}, nil
}

// CatalogResponse is the static dashboard configuration
type CatalogResponse struct {
	Instruments []contracts.Instrument `json:"instruments"`
	Categories  []contracts.Category   `json:"categories"`
	Intervals   []contracts.Interval   `json:"intervals"`
	Defaults    contracts.Selection    `json:"defaults"`
}

// GetCatalog returns instruments, categories and interval presets
// GET /api/catalog
func (h *DashboardHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", h.etag)
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	respondJSON(w, http.StatusOK, CatalogResponse{
		Instruments: h.catalog.Instruments,
		Categories:  h.catalog.Categories,
		Intervals:   contracts.Intervals,
		Defaults:    contracts.DefaultSelection(),
	})
}

// RecordsResponse carries the visible records in file format
type RecordsResponse struct {
	Version int64                    `json:"version"`
	Window  string                   `json:"window"`
	Count   int                      `json:"count"`
	Records []map[string]interface{} `json:"records"`
}

// GetRecords returns the records inside a time window
// GET /api/records?window=YTD
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	window := contracts.YearToDate
	if v := r.URL.Query().Get("window"); v != "" {
		parsed, err := contracts.ParseTimeWindow(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		window = parsed
	}

	snap := h.data.Snapshot()
	visible := selection.WindowRecords(snap.Records, window)

	respondJSON(w, http.StatusOK, RecordsResponse{
		Version: snap.Version,
		Window:  window.String(),
		Count:   len(visible),
		Records: loader.WireRecords(visible),
	})
}

// InstrumentsResponse lists the filtered, ordered instrument cards
type InstrumentsResponse struct {
	LatestDate  *time.Time       `json:"latest_date,omitempty"`
	Instruments []selection.Card `json:"instruments"`
}

// GetInstruments returns instruments matching search and category, sorted
// GET /api/instruments?search=&category=&sort=&window=
func (h *DashboardHandler) GetInstruments(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view := selection.BuildView(h.catalog, h.data.Snapshot().Records, sel)
	respondJSON(w, http.StatusOK, InstrumentsResponse{
		LatestDate:  view.LatestDate,
		Instruments: view.Cards,
	})
}

// ViewResponse is the full renderer state
type ViewResponse struct {
	Version int64          `json:"version"`
	View    selection.View `json:"view"`
}

// GetView returns cards and chart series for a selection
// GET /api/view?selected=&window=&mode=&search=&category=&sort=
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.data.Snapshot()
	respondJSON(w, http.StatusOK, ViewResponse{
		Version: snap.Version,
		View:    selection.BuildView(h.catalog, snap.Records, sel),
	})
}

// ValueResponse is one displayed value
type ValueResponse struct {
	Date        string                `json:"date"`
	Instrument  string                `json:"instrument"`
	Mode        contracts.DisplayMode `json:"mode"`
	Value       float64               `json:"value"`
	Formatted   string                `json:"formatted"`
	Performance contracts.Performance `json:"performance,omitempty"`
}

// GetValue returns one instrument's value on a date.
// A record without the requested field is reported as 422.
// GET /api/value?date=2024-06-03&instrument=NVIDIA%20(NVDA)&mode=price
func (h *DashboardHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	instrument := q.Get("instrument")
	if instrument == "" {
		respondError(w, http.StatusBadRequest, "instrument is required")
		return
	}

	date, err := loader.ParseDate(q.Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := contracts.ModePercent
	if v := q.Get("mode"); v != "" {
		if mode, err = contracts.ParseDisplayMode(v); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rec, ok := findRecord(h.data.Snapshot().Records, date)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no record on %s", date.Format("2006-01-02")))
		return
	}

	value, err := selection.ValueOf(rec, instrument, mode)
	if errors.Is(err, contracts.ErrMissingField) {
		h.logger.WithError(err).Warn("Record is missing a field")
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ValueResponse{
		Date:       rec.DateString(),
		Instrument: instrument,
		Mode:       mode,
		Value:      value,
		Formatted:  selection.FormatValue(value, mode),
	}
	if mode == contracts.ModePercent {
		resp.Performance = selection.ClassifyPerformance(value)
	}
	respondJSON(w, http.StatusOK, resp)
}

// findRecord returns the last record on the given calendar day
func findRecord(records []contracts.Record, date time.Time) (contracts.Record, bool) {
	day := date.Format("2006-01-02")
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].DateString() == day {
			return records[i], true
		}
	}
	return contracts.Record{}, false
}
