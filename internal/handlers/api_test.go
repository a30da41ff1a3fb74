package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DouglasAntonni/dashboard-vendas/internal/dataset"
	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
	"github.com/DouglasAntonni/dashboard-vendas/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSale(date, seller, store string, qty, price, target float64) models.Sale {
	s := models.Sale{
		Seller:  seller,
		Store:   store,
		Revenue: qty * price,
		Target:  target,
	}
	s.Quantity = qty
	s.Price = price
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		s.Date = d
		s.Month = d.Format("2006-01")
	}
	return s
}

func testAnalytics() *services.Analytics {
	a := services.NewAnalytics(dataset.Sources{}, testLogger())
	a.SetData([]models.Sale{
		testSale("2024-01-05", "Alice", "Store X", 2, 100, 300),
		testSale("2024-01-20", "Bruno", "Store X", 1, 50, 300),
		testSale("2024-02-03", "Alice", "Store Y", 3, 10, 0),
	})
	return a
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestHandleMetrics(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/metrics?store=Store+X", nil)
	rec := httptest.NewRecorder()
	h.HandleMetrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", got)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var metrics models.Metrics
	if err := json.Unmarshal(env.Data, &metrics); err != nil {
		t.Fatal(err)
	}
	if metrics.TotalRevenue != 250 {
		t.Errorf("total_revenue = %f, want 250 for Store X", metrics.TotalRevenue)
	}
	if metrics.TotalTransactions != 2 {
		t.Errorf("total_transactions = %d, want 2", metrics.TotalTransactions)
	}
	if metrics.AttainmentPct == nil {
		t.Error("attainment_pct should be present when a target exists")
	}
}

func TestHandleMetrics_EmptyResultIsOK(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/metrics?store=Nowhere", nil)
	rec := httptest.NewRecorder()
	h.HandleMetrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("an empty filter result must still be a 200, got %d", rec.Code)
	}

	var metrics models.Metrics
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &metrics); err != nil {
		t.Fatal(err)
	}
	if metrics.TotalRevenue != 0 || metrics.AttainmentPct != nil {
		t.Errorf("expected degenerate metrics, got %+v", metrics)
	}
	if metrics.BestStore.Name != "N/A" {
		t.Errorf("best_store = %q, want N/A", metrics.BestStore.Name)
	}
}

func TestHandleMetrics_InvalidDate(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/metrics?start=05-01-2024x", nil)
	rec := httptest.NewRecorder()
	h.HandleMetrics(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected error envelope")
	}
	if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Errorf("error = %+v, want BAD_REQUEST", env.Error)
	}
}

func TestHandleOptions(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/options?store=Store+Y", nil)
	rec := httptest.NewRecorder()
	h.HandleOptions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var opts struct {
		models.FilterOptions
		Warnings []dataset.SchemaWarning `json:"warnings"`
	}
	if err := json.Unmarshal(env.Data, &opts); err != nil {
		t.Fatal(err)
	}

	if len(opts.Stores) != 2 {
		t.Errorf("stores = %v, want both stores", opts.Stores)
	}
	if len(opts.Sellers) != 1 || opts.Sellers[0] != "Alice" {
		t.Errorf("sellers for Store Y = %v, want [Alice]", opts.Sellers)
	}
	if opts.Warnings == nil {
		t.Error("warnings must serialize as an empty array, not null")
	}
}

func TestHandleDetail(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/detail?store=Store+X", nil)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var rows []models.DetailRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for Store X, got %d", len(rows))
	}
	if rows[0].Seller != "Bruno" {
		t.Errorf("newest row first, got %q", rows[0].Seller)
	}
}

func TestHandleDetail_CappedForDisplay(t *testing.T) {
	a := services.NewAnalytics(dataset.Sources{}, testLogger())
	sales := make([]models.Sale, 0, maxDetailRows+50)
	for i := 0; i < maxDetailRows+50; i++ {
		sales = append(sales, testSale("2024-01-05", "Alice", "Store X", 1, 10, 0))
	}
	a.SetData(sales)
	h := NewAPIHandlers(a, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/detail", nil)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	env := decodeEnvelope(t, rec)
	var rows []models.DetailRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != maxDetailRows {
		t.Errorf("expected the display cap of %d rows, got %d", maxDetailRows, len(rows))
	}
}

func TestHandleDetailExport(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/detail/export?store=Store+X", nil)
	rec := httptest.NewRecorder()
	h.HandleDetailExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, exportFilename) {
		t.Errorf("Content-Disposition = %q, want attachment %q", got, exportFilename)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Seller,Store,Quantity,Price,Revenue" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
}

func TestHandleReload_FailureReturns503AndKeepsData(t *testing.T) {
	a := services.NewAnalytics(dataset.Sources{
		Transactions: []string{"does-not-exist.csv"},
		Sellers:      "does-not-exist.csv",
		Stores:       "does-not-exist.csv",
		Targets:      "does-not-exist.csv",
	}, testLogger())
	a.SetData([]models.Sale{testSale("2024-01-05", "Alice", "Store X", 2, 100, 0)})
	h := NewAPIHandlers(a, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	rec := httptest.NewRecorder()
	h.HandleReload(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("error = %+v, want SERVICE_UNAVAILABLE", env.Error)
	}

	if got := a.Filter(models.Criteria{}).Len(); got != 1 {
		t.Errorf("failed reload must keep the previous dataset, got %d rows", got)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var health map[string]string
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", health["status"])
	}
}

func TestHandleStats(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	env := decodeEnvelope(t, rec)
	var stats map[string]any
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if got, ok := stats["record_count"].(float64); !ok || got != 3 {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
}

func TestCriteriaFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    models.Criteria
		wantErr bool
	}{
		{
			name:  "all params",
			query: "store=X&month=2024-01&seller=Alice&q=ali&start=2024-01-01&end=2024-12-31",
			want: models.Criteria{
				Store:     "X",
				Month:     "2024-01",
				Seller:    "Alice",
				Search:    "ali",
				StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{name: "empty", query: "", want: models.Criteria{}},
		{name: "bad start", query: "start=January", wantErr: true},
		{name: "bad end", query: "end=2024-13-99", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/metrics?"+tt.query, nil)
			got, err := criteriaFromQuery(req)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("criteria = %+v, want %+v", got, tt.want)
			}
		})
	}
}
