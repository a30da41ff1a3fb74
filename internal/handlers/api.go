package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DouglasAntonni/dashboard-vendas/internal/dataset"
	"github.com/DouglasAntonni/dashboard-vendas/internal/errors"
	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
	"github.com/DouglasAntonni/dashboard-vendas/internal/observability"
	"github.com/DouglasAntonni/dashboard-vendas/internal/services"
)

const (
	dateLayout = "2006-01-02"

	// maxDetailRows caps the JSON detail endpoint; the CSV export is
	// uncapped.
	maxDetailRows = 100

	exportFilename = "vendas_detalhado.csv"
)

// criteriaFromQuery builds the filter criteria from the query parameters
// store, month, seller, q, start and end. Absent parameters keep the zero
// value, meaning no constraint.
func criteriaFromQuery(r *http.Request) (models.Criteria, error) {
	q := r.URL.Query()
	c := models.Criteria{
		Store:  q.Get("store"),
		Month:  q.Get("month"),
		Seller: q.Get("seller"),
		Search: q.Get("q"),
	}

	if raw := q.Get("start"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c, errors.BadRequestWrap(err, "invalid start date, expected YYYY-MM-DD")
		}
		c.StartDate = t
	}
	if raw := q.Get("end"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c, errors.BadRequestWrap(err, "invalid end date, expected YYYY-MM-DD")
		}
		c.EndDate = t
	}

	return c, nil
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleMetrics computes the full metrics set for the criteria in the
// query string. An empty filter result is a normal 200 with degenerate
// values, never an error.
func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	view := h.analytics.Filter(criteria)
	metrics := h.analytics.Aggregate(view)

	headers := map[string]string{
		"Cache-Control": "public, max-age=60",
	}
	errors.WriteSuccessWithHeaders(w, metrics, headers)
}

type optionsResponse struct {
	models.FilterOptions
	Warnings []dataset.SchemaWarning `json:"warnings"`
}

// HandleOptions lists the selectable filter values. The seller list
// narrows to the store given in the query, matching the filter panel
// behavior.
func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.analytics.Options(r.URL.Query().Get("store"))

	warnings := h.analytics.Warnings()
	if warnings == nil {
		warnings = []dataset.SchemaWarning{}
	}

	errors.WriteSuccess(w, optionsResponse{
		FilterOptions: opts,
		Warnings:      warnings,
	})
}

// HandleDetail returns the drill-down rows for the current criteria,
// newest first, capped for display.
func (h *APIHandlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows := h.analytics.Detail(h.analytics.Filter(criteria))
	if len(rows) > maxDetailRows {
		rows = rows[:maxDetailRows]
	}

	errors.WriteSuccess(w, rows)
}

// HandleDetailExport streams the full filtered detail table as CSV.
func (h *APIHandlers) HandleDetailExport(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows := h.analytics.Detail(h.analytics.Filter(criteria))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

	if err := services.WriteDetailCSV(w, rows); err != nil {
		h.logger.Error("write detail csv",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

// HandleReload swaps in a freshly loaded dataset. On failure the previous
// dataset stays live and the caller gets a 503.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.analytics.Load(r.Context()); err != nil {
		appErr := errors.Wrap(err, errors.CodeServiceUnavail, "dataset reload failed")
		errors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
