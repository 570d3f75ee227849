package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/savegress/wagerwatch/internal/ingest"
	"github.com/savegress/wagerwatch/internal/report"
)

// Handlers contains all HTTP handlers. The snapshot is immutable for
// the lifetime of the server; all report computation is delegated to
// the assembler.
type Handlers struct {
	snapshot  *ingest.Snapshot
	assembler *report.Assembler
}

// NewHandlers creates new handlers
func NewHandlers(snapshot *ingest.Snapshot, assembler *report.Assembler) *Handlers {
	return &Handlers{
		snapshot:  snapshot,
		assembler: assembler,
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "wagerwatch",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ListProviders lists the distinct service providers in the snapshot
func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.snapshot.Providers()
	if providers == nil {
		providers = []string{}
	}
	respond(w, http.StatusOK, providers)
}

// GetReport assembles and returns the full risk report for the
// requested filter window.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rpt, err := h.assembler.Assemble(h.snapshot, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, rpt)
}

// ExportReport returns the risk report rendered as CSV
func (h *Handlers) ExportReport(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rpt, err := h.assembler.Assemble(h.snapshot, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="risk_report.csv"`)
	if err := report.ExportCSV(rpt, w); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// GetTopPlayers returns only the top-players table of the report
func (h *Handlers) GetTopPlayers(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rpt, err := h.assembler.Assemble(h.snapshot, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, rpt.TopPlayers)
}

// GetKYCAging returns only the KYC aging summary
func (h *Handlers) GetKYCAging(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rpt, err := h.assembler.Assemble(h.snapshot, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, rpt.KYCAging)
}

// GetDuplicates returns only the duplicate-candidate scan
func (h *Handlers) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rpt, err := h.assembler.Assemble(h.snapshot, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, rpt.Duplicates)
}

// reportParams parses filter parameters from the query string,
// defaulting to the snapshot's full date range.
func (h *Handlers) reportParams(r *http.Request) (report.Params, error) {
	params := report.DefaultParams(h.snapshot)

	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return params, fmt.Errorf("invalid start date %q", v)
		}
		params.Start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return params, fmt.Errorf("invalid end date %q", v)
		}
		// Make the end date inclusive of the whole day.
		params.End = t.Add(24*time.Hour - time.Nanosecond)
	}
	if params.End.Before(params.Start) {
		return params, fmt.Errorf("end date before start date")
	}
	if v := r.URL.Query().Get("provider"); v != "" {
		params.Provider = v
	}
	if v := r.URL.Query().Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return params, fmt.Errorf("invalid top_n %q", v)
		}
		params.TopN = n
	}

	return params, nil
}

// Helper functions

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
