package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/flowviz-labs/flowviz/internal/chart"
	"github.com/flowviz-labs/flowviz/internal/compare"
	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/export"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

type ctxKey int

const sessionKey ctxKey = 0

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Login verifies credentials and opens a session. When no users are
// configured the store is empty and login is open (local single-user use).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !h.Auth.Empty() && !h.Auth.Verify(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s := h.Sessions.Create(req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"token": s.ID, "user": s.User})
}

// Logout ends the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	h.Sessions.Delete(s.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Session-Token")
		s, err := h.Sessions.Get(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or expired session token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, s)))
	})
}

func sessionFrom(r *http.Request) *Session {
	return r.Context().Value(sessionKey).(*Session)
}

func validSlot(slot string) bool {
	return slot == SlotCurrent || slot == SlotPrevious
}

// uploadResponse is what one successful upload returns: the same numbers
// and recommendations the dashboard renders.
type uploadResponse struct {
	Slot            string                  `json:"slot"`
	FileName        string                  `json:"file_name"`
	Stats           profile.Stats           `json:"stats"`
	Profiles        []profile.ColumnProfile `json:"profiles"`
	Recommendations []recommend.ChartSpec   `json:"recommendations"`
}

// UploadDataset ingests one tabular file into an upload slot and runs the
// full profile -> recommend pass. A malformed upload leaves any previously
// uploaded table in place.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	if !validSlot(slot) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown slot %q (use current|previous)", slot))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	t, err := dataset.Load(file, header.Filename)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dataset.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, err.Error())
		return
	}

	profiles, stats := profile.Profile(t, h.profileOpt)
	specs := recommend.Recommend(t, profiles, h.recommendOpt)
	sessionFrom(r).SetSlot(slot, &slotData{
		Table:    t,
		Profiles: profiles,
		Stats:    stats,
		Specs:    specs,
	})

	writeJSON(w, http.StatusOK, uploadResponse{
		Slot:            slot,
		FileName:        t.Name,
		Stats:           stats,
		Profiles:        profiles,
		Recommendations: specs,
	})
}

// DatasetStats returns the stored counts and profile for one slot.
func (h *Handler) DatasetStats(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	if !validSlot(slot) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown slot %q", slot))
		return
	}
	d := sessionFrom(r).Slot(slot)
	if d == nil {
		writeError(w, http.StatusNotFound, "no dataset uploaded for this slot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"file_name": d.Table.Name,
		"stats":     d.Stats,
		"profiles":  d.Profiles,
	})
}

// Recommendations returns the chart specs for the current dataset. An
// empty list is a valid response, not an error.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Slot(SlotCurrent)
	if d == nil {
		writeError(w, http.StatusNotFound, "no current dataset uploaded")
		return
	}
	specs := d.Specs
	if specs == nil {
		specs = []recommend.ChartSpec{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": specs})
}

// RenderChart renders one recommended chart as an interactive HTML page.
func (h *Handler) RenderChart(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Slot(SlotCurrent)
	if d == nil {
		writeError(w, http.StatusNotFound, "no current dataset uploaded")
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 || idx >= len(d.Specs) {
		writeError(w, http.StatusNotFound, "no such chart")
		return
	}
	fig, err := chart.Render(d.Table, d.Specs[idx])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = fig.WriteHTML(w)
}

// CustomChart renders a user-assembled chart over the current dataset.
// The request names a kind and the columns to plot; column roles are
// validated against the stored profile before rendering.
func (h *Handler) CustomChart(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Slot(SlotCurrent)
	if d == nil {
		writeError(w, http.StatusNotFound, "no current dataset uploaded")
		return
	}
	var req recommend.CustomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	spec, err := recommend.BuildCustom(d.Profiles, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fig, err := chart.Render(d.Table, spec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = fig.WriteHTML(w)
}

type compareResponse struct {
	CommonColumns     []string             `json:"common_columns"`
	Summary           []compare.SummaryRow `json:"summary"`
	OverallChange     *float64             `json:"overall_change"`
	AverageDifference *float64             `json:"average_difference"`
	Aggregation       string               `json:"aggregation"`
}

// Compare summarizes current vs previous. With zero common columns the
// summary is empty and the aggregates are null, which the UI shows as "no
// comparable metrics".
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	cur, prev, ok := h.bothTables(w, r)
	if !ok {
		return
	}
	common, rows := compare.Summarize(cur, prev, h.compareOpt)
	resp := compareResponse{
		CommonColumns: common,
		Summary:       rows,
		Aggregation:   h.compareOpt.Aggregation.String(),
	}
	if resp.CommonColumns == nil {
		resp.CommonColumns = []string{}
	}
	if resp.Summary == nil {
		resp.Summary = []compare.SummaryRow{}
	}
	if v := compare.OverallChange(cur, prev, common, h.compareOpt); !math.IsNaN(v) {
		resp.OverallChange = &v
	}
	if v := compare.AverageDifference(cur, prev, common); !math.IsNaN(v) {
		resp.AverageDifference = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// RenderComparisonChart renders the two-bar chart for one common column.
func (h *Handler) RenderComparisonChart(w http.ResponseWriter, r *http.Request) {
	cur, prev, ok := h.bothTables(w, r)
	if !ok {
		return
	}
	column := chi.URLParam(r, "column")
	common := compare.CommonColumns(cur, prev, h.compareOpt)
	found := false
	for _, c := range common {
		if c == column {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%q is not a common numeric column", column))
		return
	}
	prevTotal, curTotal := compare.Totals(cur, prev, column, h.compareOpt)
	fig := chart.RenderComparison(compare.ComparisonChart(column), prevTotal, curTotal)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = fig.WriteHTML(w)
}

func (h *Handler) bothTables(w http.ResponseWriter, r *http.Request) (cur, prev *dataset.Table, ok bool) {
	s := sessionFrom(r)
	c, p := s.Slot(SlotCurrent), s.Slot(SlotPrevious)
	if c == nil || p == nil {
		writeError(w, http.StatusConflict, "comparison needs both current and previous datasets uploaded")
		return nil, nil, false
	}
	return c.Table, p.Table, true
}

// ExportTableCSV downloads one uploaded table as CSV.
func (h *Handler) ExportTableCSV(w http.ResponseWriter, r *http.Request) {
	h.exportTable(w, r, "csv")
}

// ExportTableXLSX downloads one uploaded table as a workbook.
func (h *Handler) ExportTableXLSX(w http.ResponseWriter, r *http.Request) {
	h.exportTable(w, r, "xlsx")
}

func (h *Handler) exportTable(w http.ResponseWriter, r *http.Request, format string) {
	slot := chi.URLParam(r, "slot")
	if !validSlot(slot) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown slot %q", slot))
		return
	}
	d := sessionFrom(r).Slot(slot)
	if d == nil {
		writeError(w, http.StatusNotFound, "no dataset uploaded for this slot")
		return
	}
	base := strings.TrimSuffix(d.Table.Name, filepath.Ext(d.Table.Name))
	setDownloadHeaders(w, base+"."+format, format)
	if format == "csv" {
		_ = export.WriteTableCSV(w, d.Table)
	} else {
		_ = export.WriteTableXLSX(w, d.Table)
	}
}

// ExportSummaryCSV downloads the comparison summary as CSV.
func (h *Handler) ExportSummaryCSV(w http.ResponseWriter, r *http.Request) {
	h.exportSummary(w, r, "csv")
}

// ExportSummaryXLSX downloads the comparison summary as a workbook.
func (h *Handler) ExportSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	h.exportSummary(w, r, "xlsx")
}

func (h *Handler) exportSummary(w http.ResponseWriter, r *http.Request, format string) {
	cur, prev, ok := h.bothTables(w, r)
	if !ok {
		return
	}
	_, rows := compare.Summarize(cur, prev, h.compareOpt)
	setDownloadHeaders(w, "comparison_summary."+format, format)
	if format == "csv" {
		_ = export.WriteSummaryCSV(w, rows)
	} else {
		_ = export.WriteSummaryXLSX(w, rows)
	}
}

func setDownloadHeaders(w http.ResponseWriter, filename, format string) {
	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
