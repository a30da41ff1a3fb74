package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/DouglasAntonni/dashboard-vendas/internal/errors"
	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
	"github.com/DouglasAntonni/dashboard-vendas/internal/observability"
	"github.com/DouglasAntonni/dashboard-vendas/internal/services"
)

const (
	maxTableRows   = 20
	maxRankingRows = 20
)

var metricsTemplate = template.Must(template.New("metrics").Parse(`
<div id="metrics-content">
<div class="metric-grid">
<div class="metric-card"><span class="metric-label">Total Revenue</span><strong>R$ {{printf "%.2f" .TotalRevenue}}</strong></div>
<div class="metric-card"><span class="metric-label">Sales</span><strong>{{.TotalTransactions}}</strong></div>
<div class="metric-card"><span class="metric-label">Quantity Sold</span><strong>{{printf "%.0f" .TotalQuantity}}</strong></div>
<div class="metric-card"><span class="metric-label">Average Ticket</span><strong>R$ {{printf "%.2f" .AverageTicket}}</strong></div>
<div class="metric-card"><span class="metric-label">Total Target</span><strong>R$ {{printf "%.2f" .TotalTarget}}</strong></div>
<div class="metric-card"><span class="metric-label">Attainment</span><strong>{{.Attainment}}</strong></div>
<div class="metric-card"><span class="metric-label">Avg Qty/Sale</span><strong>{{printf "%.2f" .AvgQuantityPerSale}}</strong></div>
<div class="metric-card"><span class="metric-label">Best Store</span><strong>{{.BestStore.Name}} (R$ {{printf "%.2f" .BestStore.Revenue}})</strong></div>
<div class="metric-card"><span class="metric-label">Best Seller</span><strong>{{.BestSeller.Name}} (R$ {{printf "%.2f" .BestSeller.Revenue}})</strong></div>
</div>
<progress max="100" value="{{printf "%.0f" .Progress}}"></progress>
</div>`))

var rankingTemplate = template.Must(template.New("ranking").Parse(`
<div id="ranking-content">
<table class="modern-table">
<thead><tr><th>Seller</th><th>Total Sales</th><th>Quantity</th><th>Sales Count</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Seller}}</td>
<td><strong>R$ {{printf "%.2f" .TotalSales}}</strong></td>
<td>{{printf "%.0f" .TotalQuantity}}</td>
<td>{{.Transactions}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var detailTemplate = template.Must(template.New("detail").Parse(`
<div id="detail-content">
<table class="modern-table">
<thead><tr><th>Date</th><th>Seller</th><th>Store</th><th>Quantity</th><th>Price</th><th>Revenue</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Date.Format "2006-01-02"}}</td>
<td>{{.Seller}}</td>
<td>{{.Store}}</td>
<td>{{printf "%.0f" .Quantity}}</td>
<td>R$ {{printf "%.2f" .Price}}</td>
<td><strong>R$ {{printf "%.2f" .Revenue}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

// metricsView wraps Metrics with the display strings the cards need.
type metricsView struct {
	models.Metrics
	Attainment string
	Progress   float64 // attainment clamped to [0,100] for the bar
}

func newMetricsView(m models.Metrics) metricsView {
	v := metricsView{Metrics: m, Attainment: "N/A"}
	if m.AttainmentPct != nil {
		v.Attainment = fmt.Sprintf("%.2f%%", *m.AttainmentPct)
		v.Progress = min(*m.AttainmentPct, 100)
	}
	return v
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}

// HandleDashboard recomputes the whole dashboard for the criteria in the
// query string and patches every section: metric cards, ranking and
// detail tables as HTML, chart rollups as signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	view := h.analytics.Filter(criteria)
	metrics := h.analytics.Aggregate(view)

	html, err := renderTemplate(metricsTemplate, newMetricsView(metrics))
	if err != nil {
		h.logger.Error("render metrics", "error", err)
		return
	}
	sse.PatchElements(html)

	ranking := metrics.SellerRanking
	if len(ranking) > maxRankingRows {
		ranking = ranking[:maxRankingRows]
	}
	html, err = renderTemplate(rankingTemplate, ranking)
	if err != nil {
		h.logger.Error("render seller ranking", "error", err)
		return
	}
	sse.PatchElements(html)

	detail := h.analytics.Detail(view)
	if len(detail) > maxTableRows {
		detail = detail[:maxTableRows]
	}
	html, err = renderTemplate(detailTemplate, detail)
	if err != nil {
		h.logger.Error("render detail table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"monthlyData":    metrics.RevenueByMonth,
		"storesData":     metrics.RevenueByStore,
		"sellersData":    metrics.RevenueBySeller,
		"quantityData":   metrics.QuantityValues,
		"comparisonData": metrics.StoreMonthComparison,
		"seasonalData":   metrics.RevenueByMonthName,
		"emptyResult":    view.Len() == 0,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefresh forces a full recompute for the current criteria. The
// computation is a pure function of the base set and criteria, so this is
// the dashboard recompute, not a dataset reload.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.HandleDashboard(w, r)
}
