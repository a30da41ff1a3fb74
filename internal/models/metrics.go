package models

import "time"

// Leader is the best-performing store or seller in the filtered set.
// Name is "N/A" and Revenue 0 when the set is empty.
type Leader struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type StoreRevenue struct {
	Store   string  `json:"store"`
	Revenue float64 `json:"revenue"`
}

type SellerRevenue struct {
	Seller  string  `json:"seller"`
	Revenue float64 `json:"revenue"`
}

// StoreMonthRevenue compares actual revenue against the target for one
// store in one month.
type StoreMonthRevenue struct {
	Store   string  `json:"store"`
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Target  float64 `json:"target"`
}

type SellerRankingRow struct {
	Seller        string  `json:"seller"`
	TotalSales    float64 `json:"total_sales"`
	TotalQuantity float64 `json:"total_quantity"`
	Transactions  int     `json:"transactions"`
}

// MonthNameRevenue groups revenue by calendar month name regardless of
// year, ordered Jan through Dec.
type MonthNameRevenue struct {
	MonthName string  `json:"month_name"`
	Revenue   float64 `json:"revenue"`
}

// Metrics is everything the presentation layer consumes for one filtered
// view. Every field is well defined on an empty view: scalars are zero,
// AttainmentPct is nil ("N/A"), rollups are empty slices.
type Metrics struct {
	TotalRevenue       float64  `json:"total_revenue"`
	TotalTransactions  int      `json:"total_transactions"`
	TotalQuantity      float64  `json:"total_quantity"`
	AverageTicket      float64  `json:"average_ticket"`
	TotalTarget        float64  `json:"total_target"`
	AttainmentPct      *float64 `json:"attainment_pct"`
	AvgQuantityPerSale float64  `json:"avg_quantity_per_sale"`
	BestStore          Leader   `json:"best_store"`
	BestSeller         Leader   `json:"best_seller"`

	RevenueByMonth       []MonthRevenue      `json:"revenue_by_month"`
	RevenueByStore       []StoreRevenue      `json:"revenue_by_store"`
	RevenueBySeller      []SellerRevenue     `json:"revenue_by_seller"`
	QuantityValues       []float64           `json:"quantity_values"`
	StoreMonthComparison []StoreMonthRevenue `json:"store_month_comparison"`
	SellerRanking        []SellerRankingRow  `json:"seller_ranking"`
	RevenueByMonthName   []MonthNameRevenue  `json:"revenue_by_month_name"`
}

// DetailRow is one line of the drill-down table and of the CSV export.
type DetailRow struct {
	Date     time.Time `json:"date"`
	Seller   string    `json:"seller"`
	Store    string    `json:"store"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Revenue  float64   `json:"revenue"`
}

// FilterOptions are the selectable values offered by the filter panel.
// Sellers depends on the store passed to the options call: with a store
// selected only sellers who sold there are listed.
type FilterOptions struct {
	Stores  []string  `json:"stores"`
	Months  []string  `json:"months"`
	Sellers []string  `json:"sellers"`
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
}
