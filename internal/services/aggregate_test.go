package services

import (
	"reflect"
	"testing"

	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

// Five sales of the same store-month share one 1000 target. The group
// total must be 1000, not 5000: the target repeats on every joined row.
func TestAggregate_TargetCountedOncePerGroup(t *testing.T) {
	var sales []models.Sale
	for i := 0; i < 5; i++ {
		sales = append(sales, sale("2024-01-05", "Alice", "Store X", 1, 100, 1000))
	}
	a := newTestAnalytics(sales...)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	if !almostEqual(m.TotalTarget, 1000) {
		t.Errorf("total target = %f, want 1000", m.TotalTarget)
	}
	if m.AttainmentPct == nil || !almostEqual(*m.AttainmentPct, 50) {
		t.Errorf("attainment = %v, want 50", m.AttainmentPct)
	}
}

func TestAggregate_TargetsSumAcrossGroups(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-01-05", "Alice", "Store X", 1, 100, 300),
		sale("2024-02-05", "Alice", "Store X", 1, 100, 200),
		sale("2024-01-10", "Bruno", "Store Y", 1, 100, 500),
	)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	if !almostEqual(m.TotalTarget, 1000) {
		t.Errorf("total target = %f, want 300+200+500", m.TotalTarget)
	}
}

func TestAggregate_NoTargetMeansNilAttainment(t *testing.T) {
	a := newTestAnalytics(sale("2024-01-05", "Alice", "Store X", 2, 100, 0))

	m := a.Aggregate(a.Filter(models.Criteria{}))

	if m.AttainmentPct != nil {
		t.Errorf("attainment = %f, want nil when no target exists", *m.AttainmentPct)
	}
	if !almostEqual(m.TotalTarget, 0) {
		t.Errorf("total target = %f, want 0", m.TotalTarget)
	}
}

func TestAggregate_EmptyView(t *testing.T) {
	a := newTestAnalytics(testSales()...)

	m := a.Aggregate(a.Filter(models.Criteria{Store: "Store Z"}))

	if m.TotalRevenue != 0 || m.TotalTransactions != 0 || m.TotalQuantity != 0 {
		t.Errorf("expected zero scalars, got %+v", m)
	}
	if m.AverageTicket != 0 || m.AvgQuantityPerSale != 0 {
		t.Errorf("averages on an empty view must be 0, got %f / %f", m.AverageTicket, m.AvgQuantityPerSale)
	}
	if m.AttainmentPct != nil {
		t.Error("attainment must be nil on an empty view")
	}
	if m.BestStore.Name != "N/A" || m.BestSeller.Name != "N/A" {
		t.Errorf("leaders on an empty view must be N/A, got %q / %q", m.BestStore.Name, m.BestSeller.Name)
	}
	if len(m.RevenueByMonth) != 0 || len(m.RevenueByStore) != 0 || len(m.SellerRanking) != 0 {
		t.Errorf("rollups on an empty view must be empty, got %+v", m)
	}
	if m.RevenueByMonth == nil || m.QuantityValues == nil {
		t.Error("rollup slices must be empty, not nil")
	}
}

// Rows whose join produced no name, or whose date never parsed, stay in
// the scalar totals but drop out of the rollup grouping on that key.
func TestAggregate_EmptyKeysExcludedFromRollups(t *testing.T) {
	noSeller := sale("2024-01-05", "", "Store X", 1, 100, 0)
	noDate := sale("", "Alice", "Store X", 1, 40, 0)
	a := newTestAnalytics(
		sale("2024-01-10", "Alice", "Store X", 1, 60, 0),
		noSeller,
		noDate,
	)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	if !almostEqual(m.TotalRevenue, 200) {
		t.Errorf("scalar total must include every row, got %f", m.TotalRevenue)
	}
	if m.TotalTransactions != 3 {
		t.Errorf("transactions = %d, want 3", m.TotalTransactions)
	}

	if len(m.RevenueBySeller) != 1 || m.RevenueBySeller[0].Seller != "Alice" {
		t.Errorf("seller rollup = %+v, want Alice only", m.RevenueBySeller)
	}
	if !almostEqual(m.RevenueBySeller[0].Revenue, 100) {
		t.Errorf("Alice revenue = %f, want 60+40", m.RevenueBySeller[0].Revenue)
	}

	if len(m.RevenueByMonth) != 1 || !almostEqual(m.RevenueByMonth[0].Revenue, 160) {
		t.Errorf("month rollup = %+v, want one 2024-01 entry at 160", m.RevenueByMonth)
	}

	if len(m.SellerRanking) != 1 || m.SellerRanking[0].Transactions != 2 {
		t.Errorf("ranking = %+v, want Alice with 2 transactions", m.SellerRanking)
	}
}

func TestAggregate_RollupOrdering(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-03-01", "Alice", "Store Y", 1, 10, 0),
		sale("2024-01-01", "Bruno", "Store X", 1, 100, 0),
		sale("2024-02-01", "Carla", "Store Z", 1, 50, 0),
	)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	months := make([]string, 0, len(m.RevenueByMonth))
	for _, r := range m.RevenueByMonth {
		months = append(months, r.Month)
	}
	if want := []string{"2024-01", "2024-02", "2024-03"}; !reflect.DeepEqual(months, want) {
		t.Errorf("month rollup order = %v, want %v", months, want)
	}

	stores := make([]string, 0, len(m.RevenueByStore))
	for _, r := range m.RevenueByStore {
		stores = append(stores, r.Store)
	}
	if want := []string{"Store X", "Store Z", "Store Y"}; !reflect.DeepEqual(stores, want) {
		t.Errorf("store rollup order = %v, want revenue descending %v", stores, want)
	}
}

// The seasonal rollup follows calendar order regardless of the order the
// rows arrive in, with only the present months emitted.
func TestAggregate_SeasonalCalendarOrder(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-11-01", "Alice", "Store X", 1, 10, 0),
		sale("2024-02-01", "Alice", "Store X", 1, 20, 0),
		sale("2024-07-01", "Alice", "Store X", 1, 30, 0),
		sale("2023-02-10", "Alice", "Store X", 1, 5, 0),
	)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	names := make([]string, 0, len(m.RevenueByMonthName))
	for _, r := range m.RevenueByMonthName {
		names = append(names, r.MonthName)
	}
	if want := []string{"Feb", "Jul", "Nov"}; !reflect.DeepEqual(names, want) {
		t.Errorf("seasonal order = %v, want %v", names, want)
	}
	// Februaries of different years fold into the same bucket.
	if !almostEqual(m.RevenueByMonthName[0].Revenue, 25) {
		t.Errorf("Feb revenue = %f, want 25", m.RevenueByMonthName[0].Revenue)
	}
}

func TestAggregate_StoreMonthComparison(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-01-05", "Alice", "Store X", 2, 100, 300),
		sale("2024-01-20", "Bruno", "Store X", 1, 50, 300),
		sale("2024-02-03", "Alice", "Store Y", 3, 10, 0),
	)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	want := []models.StoreMonthRevenue{
		{Store: "Store X", Month: "2024-01", Revenue: 250, Target: 300},
		{Store: "Store Y", Month: "2024-02", Revenue: 30, Target: 0},
	}
	if !reflect.DeepEqual(m.StoreMonthComparison, want) {
		t.Errorf("comparison = %+v, want %+v", m.StoreMonthComparison, want)
	}
}

func TestLeader_TieBreaksLexicographically(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-01-05", "Zara", "Store X", 1, 100, 0),
		sale("2024-01-06", "Alice", "Store Y", 1, 100, 0),
	)

	m := a.Aggregate(a.Filter(models.Criteria{}))

	if m.BestSeller.Name != "Alice" {
		t.Errorf("tied leaders must resolve to the smaller name, got %q", m.BestSeller.Name)
	}
}

func BenchmarkFilterAggregate(b *testing.B) {
	sales := make([]models.Sale, 0, 10000)
	dates := []string{"2024-01-05", "2024-02-10", "2024-03-15", "2024-04-20"}
	sellers := []string{"Alice", "Bruno", "Carla"}
	stores := []string{"Store X", "Store Y"}
	for i := 0; i < 10000; i++ {
		sales = append(sales, sale(
			dates[i%len(dates)],
			sellers[i%len(sellers)],
			stores[i%len(stores)],
			float64(i%5+1), 50, 300,
		))
	}
	a := newTestAnalytics(sales...)
	criteria := models.Criteria{Store: "Store X", Search: "al"}

	for b.Loop() {
		v := a.Filter(criteria)
		_ = a.Aggregate(v)
	}
}
