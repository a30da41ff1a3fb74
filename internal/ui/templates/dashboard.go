// Package templates holds the dashboard page shell. The shell is static:
// every data-bearing section is patched in over SSE, so the components
// are written as plain templ component funcs instead of generated files.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const dashboardQuery = "store=${$store}&month=${$month}&seller=${$seller}&q=${$q}&start=${$start}&end=${$end}"

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/modern-normalize/modern-normalize.min.css">
<style>
body { font-family: system-ui, sans-serif; background: #121212; color: #e0e0e0; padding: 2rem; }
h1, h2 { color: #fff; border-bottom: 2px solid #fff; padding-bottom: .3rem; }
.metric-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; }
.metric-card { background: #ff6347; border-radius: 8px; padding: 1rem; color: #fff; }
.metric-label { display: block; font-size: .8rem; opacity: .85; }
.filter-panel { display: flex; flex-wrap: wrap; gap: .5rem; margin: 1rem 0; }
.filter-panel input, .filter-panel select { background: #1e1e1e; color: #e0e0e0; border: 1px solid #414345; border-radius: 8px; padding: .4rem; }
.modern-table { width: 100%; border-collapse: collapse; }
.modern-table th, .modern-table td { border-bottom: 1px solid #414345; padding: .4rem; text-align: left; }
progress { width: 100%; }
</style>
</head>
<body data-signals="{store:'',month:'',seller:'',q:'',start:'',end:''}"
      data-on-load="@get('/sse/dashboard')">
<h1>Sales Dashboard</h1>

<div class="filter-panel">
<input data-bind-store placeholder="Store" data-on-change="@get('/sse/dashboard?` + dashboardQuery + `')">
<input data-bind-month placeholder="Month (YYYY-MM)" data-on-change="@get('/sse/dashboard?` + dashboardQuery + `')">
<input data-bind-seller placeholder="Seller" data-on-change="@get('/sse/dashboard?` + dashboardQuery + `')">
<input data-bind-start type="date" data-on-change="@get('/sse/dashboard?` + dashboardQuery + `')">
<input data-bind-end type="date" data-on-change="@get('/sse/dashboard?` + dashboardQuery + `')">
<input data-bind-q placeholder="Search store or seller..." data-on-input__debounce.300ms="@get('/sse/dashboard?` + dashboardQuery + `')">
<button data-on-click="@get('/sse/refresh?` + dashboardQuery + `')">Refresh</button>
<a href="/api/detail/export">Download CSV</a>
</div>

<h2>Key Metrics</h2>
<div id="metrics-content">Loading metrics...</div>

<h2>Monthly Revenue Trend</h2>
<div id="monthly-content"><canvas id="monthly-chart"></canvas></div>

<h2>Revenue by Store and Seller</h2>
<div id="stores-content"><canvas id="stores-chart"></canvas></div>
<div id="sellers-content"><canvas id="sellers-chart"></canvas></div>

<h2>Quantity Distribution</h2>
<div id="quantity-content"><canvas id="quantity-chart"></canvas></div>

<h2>Revenue vs Target by Store</h2>
<div id="comparison-content"><canvas id="comparison-chart"></canvas></div>

<h2>Seller Ranking</h2>
<div id="ranking-content">Loading ranking...</div>

<h2>Seasonal Distribution</h2>
<div id="seasonal-content"><canvas id="seasonal-chart"></canvas></div>

<h2>Sales Detail</h2>
<div id="detail-content">Loading detail...</div>
</body>
</html>`

// Dashboard returns the page shell component.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}
