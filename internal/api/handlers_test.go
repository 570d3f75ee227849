package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/internal/ingest"
	"github.com/savegress/wagerwatch/internal/report"
	"github.com/savegress/wagerwatch/pkg/models"
	"github.com/shopspring/decimal"
)

func testServer() *Server {
	cfg := config.LoadFromEnv()
	snapshot := &ingest.Snapshot{
		Profiles: []models.PlayerProfile{
			{PlayerID: "p1", Occupation: "teacher", KYCStatus: "verified"},
		},
		Usage: []models.UsageRecord{
			{PlayerID: "p1", Provider: "sp1",
				EventAt:     time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
				WagerAmount: decimal.NewFromInt(1000), TxnCount: 3},
			{PlayerID: "p1", Provider: "sp2",
				EventAt:     time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
				WagerAmount: decimal.NewFromInt(2000), TxnCount: 4},
		},
		Hash: "testhash",
	}
	return NewServer(cfg, snapshot, report.NewAssembler(cfg))
}

func TestHealthCheck(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "wagerwatch" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestListProviders(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wagerwatch/providers", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var providers []string
	if err := json.Unmarshal(rec.Body.Bytes(), &providers); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(providers) != 2 || providers[0] != "sp1" || providers[1] != "sp2" {
		t.Errorf("providers = %v, expected [sp1 sp2]", providers)
	}
}

func TestGetReport(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/wagerwatch/report/?start=2024-03-01&end=2024-03-02&provider=sp1", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200, body %s", rec.Code, rec.Body.String())
	}

	var rpt models.RiskReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rpt); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rpt.Provider != "sp1" {
		t.Errorf("provider = %q, expected sp1", rpt.Provider)
	}
	if rpt.NoData {
		t.Error("report should have data for sp1 in range")
	}
	if len(rpt.Periods) != 1 {
		t.Errorf("periods = %d, expected 1", len(rpt.Periods))
	}
}

func TestGetReport_BadDates(t *testing.T) {
	s := testServer()

	tests := []string{
		"/api/v1/wagerwatch/report/?start=not-a-date",
		"/api/v1/wagerwatch/report/?start=2024-03-05&end=2024-03-01",
		"/api/v1/wagerwatch/report/?top_n=-3",
	}
	for _, url := range tests {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, expected 400", url, rec.Code)
		}
	}
}

func TestGetReport_EndDateInclusive(t *testing.T) {
	s := testServer()

	// end=2024-03-02 must include events at 10:00 that day.
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/wagerwatch/report/?start=2024-03-02&end=2024-03-02", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	var rpt models.RiskReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rpt); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rpt.NoData {
		t.Error("single-day range should include that day's events")
	}
}

func TestExportReport(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wagerwatch/report/export", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, expected text/csv", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected CSV body")
	}
}

func TestGetDuplicates(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wagerwatch/duplicates", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var scan models.DuplicateScan
	if err := json.Unmarshal(rec.Body.Bytes(), &scan); err != nil {
		t.Fatalf("decode scan: %v", err)
	}
	// Snapshot carries no identity columns.
	if scan.Status != models.ScanStatusSkipped {
		t.Errorf("status = %s, expected skipped", scan.Status)
	}
}
