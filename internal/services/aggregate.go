package services

import (
	"slices"
	"strings"
	"time"

	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

type storeMonth struct {
	Store string
	Month string
}

// Aggregate reduces a filtered view into the full metrics set in a single
// pass. Stateless: nothing is carried over between calls. Every output is
// defined on an empty view — scalars come back zero, AttainmentPct nil,
// rollups empty.
//
// Rows with an empty group key (unmatched reference name, unparseable
// date) count toward the scalar totals but drop out of the rollup that
// groups on that key.
func (a *Analytics) Aggregate(v *View) models.Metrics {
	m := models.Metrics{
		BestStore:            models.Leader{Name: "N/A"},
		BestSeller:           models.Leader{Name: "N/A"},
		RevenueByMonth:       []models.MonthRevenue{},
		RevenueByStore:       []models.StoreRevenue{},
		RevenueBySeller:      []models.SellerRevenue{},
		QuantityValues:       []float64{},
		StoreMonthComparison: []models.StoreMonthRevenue{},
		SellerRanking:        []models.SellerRankingRow{},
		RevenueByMonthName:   []models.MonthNameRevenue{},
	}

	storeRevenue := make(map[string]float64)
	sellerRevenue := make(map[string]float64)
	monthRevenue := make(map[string]float64)
	monthNameRevenue := make(map[time.Month]float64)
	comparison := make(map[storeMonth]*models.StoreMonthRevenue)
	ranking := make(map[string]*models.SellerRankingRow)
	groupTargets := make(map[storeMonth]float64)

	v.each(func(s models.Sale) {
		m.TotalRevenue += s.Revenue
		m.TotalTransactions++
		m.TotalQuantity += s.Quantity
		m.QuantityValues = append(m.QuantityValues, s.Quantity)

		if s.Store != "" {
			storeRevenue[s.Store] += s.Revenue
		}
		if s.Seller != "" {
			sellerRevenue[s.Seller] += s.Revenue

			r := ranking[s.Seller]
			if r == nil {
				r = &models.SellerRankingRow{Seller: s.Seller}
				ranking[s.Seller] = r
			}
			r.TotalSales += s.Revenue
			r.TotalQuantity += s.Quantity
			r.Transactions++
		}
		if s.Month != "" {
			monthRevenue[s.Month] += s.Revenue
			monthNameRevenue[s.Date.Month()] += s.Revenue
		}

		if s.Store != "" && s.Month != "" {
			key := storeMonth{Store: s.Store, Month: s.Month}

			c := comparison[key]
			if c == nil {
				c = &models.StoreMonthRevenue{Store: s.Store, Month: s.Month}
				comparison[key] = c
			}
			c.Revenue += s.Revenue
			if s.Target > c.Target {
				c.Target = s.Target
			}

			// The same target repeats on every row of its group, so the
			// group total takes the max instead of summing per row.
			if cur, ok := groupTargets[key]; !ok || s.Target > cur {
				groupTargets[key] = s.Target
			}
		}
	})

	if m.TotalTransactions > 0 {
		m.AverageTicket = m.TotalRevenue / float64(m.TotalTransactions)
		m.AvgQuantityPerSale = m.TotalQuantity / float64(m.TotalTransactions)
	}

	for _, t := range groupTargets {
		m.TotalTarget += t
	}
	if m.TotalTarget > 0 {
		pct := m.TotalRevenue / m.TotalTarget * 100
		m.AttainmentPct = &pct
	}

	m.BestStore = leader(storeRevenue)
	m.BestSeller = leader(sellerRevenue)

	m.RevenueByMonth = sortMonthRevenue(monthRevenue)
	m.RevenueByStore = sortStoreRevenue(storeRevenue)
	m.RevenueBySeller = sortSellerRevenue(sellerRevenue)
	m.StoreMonthComparison = sortComparison(comparison)
	m.SellerRanking = sortRanking(ranking)
	m.RevenueByMonthName = monthNameRollup(monthNameRevenue)

	return m
}

// leader picks the group with the highest revenue. Ties go to the
// lexicographically smaller name so the result is deterministic.
func leader(revenue map[string]float64) models.Leader {
	best := models.Leader{Name: "N/A"}
	found := false
	for name, rev := range revenue {
		if !found || rev > best.Revenue || (rev == best.Revenue && name < best.Name) {
			best = models.Leader{Name: name, Revenue: rev}
			found = true
		}
	}
	return best
}

// sortMonthRevenue orders the trend rollup by month ascending.
func sortMonthRevenue(groups map[string]float64) []models.MonthRevenue {
	result := make([]models.MonthRevenue, 0, len(groups))
	for month, rev := range groups {
		result = append(result, models.MonthRevenue{Month: month, Revenue: rev})
	}
	slices.SortFunc(result, func(a, b models.MonthRevenue) int {
		return strings.Compare(a.Month, b.Month)
	})
	return result
}

func sortStoreRevenue(groups map[string]float64) []models.StoreRevenue {
	result := make([]models.StoreRevenue, 0, len(groups))
	for store, rev := range groups {
		result = append(result, models.StoreRevenue{Store: store, Revenue: rev})
	}
	slices.SortFunc(result, func(a, b models.StoreRevenue) int {
		if a.Revenue > b.Revenue {
			return -1
		}
		if a.Revenue < b.Revenue {
			return 1
		}
		return strings.Compare(a.Store, b.Store)
	})
	return result
}

func sortSellerRevenue(groups map[string]float64) []models.SellerRevenue {
	result := make([]models.SellerRevenue, 0, len(groups))
	for seller, rev := range groups {
		result = append(result, models.SellerRevenue{Seller: seller, Revenue: rev})
	}
	slices.SortFunc(result, func(a, b models.SellerRevenue) int {
		if a.Revenue > b.Revenue {
			return -1
		}
		if a.Revenue < b.Revenue {
			return 1
		}
		return strings.Compare(a.Seller, b.Seller)
	})
	return result
}

// sortComparison orders the real-vs-target rollup by store then month.
func sortComparison(groups map[storeMonth]*models.StoreMonthRevenue) []models.StoreMonthRevenue {
	result := make([]models.StoreMonthRevenue, 0, len(groups))
	for _, c := range groups {
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b models.StoreMonthRevenue) int {
		if c := strings.Compare(a.Store, b.Store); c != 0 {
			return c
		}
		return strings.Compare(a.Month, b.Month)
	})
	return result
}

func sortRanking(groups map[string]*models.SellerRankingRow) []models.SellerRankingRow {
	result := make([]models.SellerRankingRow, 0, len(groups))
	for _, r := range groups {
		result = append(result, *r)
	}
	slices.SortFunc(result, func(a, b models.SellerRankingRow) int {
		if a.TotalSales > b.TotalSales {
			return -1
		}
		if a.TotalSales < b.TotalSales {
			return 1
		}
		return strings.Compare(a.Seller, b.Seller)
	})
	return result
}

// monthNameRollup emits the seasonal rollup in fixed calendar order,
// Jan through Dec, independent of locale and of the months present.
func monthNameRollup(groups map[time.Month]float64) []models.MonthNameRevenue {
	result := make([]models.MonthNameRevenue, 0, len(groups))
	for month := time.January; month <= time.December; month++ {
		if rev, ok := groups[month]; ok {
			result = append(result, models.MonthNameRevenue{
				MonthName: month.String()[:3],
				Revenue:   rev,
			})
		}
	}
	return result
}
