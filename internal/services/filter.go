package services

import (
	"slices"
	"strings"
	"time"

	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

// View is one filtered pass over the base set: a boolean mask aligned
// with the shared sales slice. Cheap to recompute on every criteria
// change because predicates only flip mask bits, never copy rows.
type View struct {
	sales []models.Sale
	mask  []bool
	count int
}

// Len is the number of rows the filter kept. Zero is a valid outcome.
func (v *View) Len() int {
	return v.count
}

// Rows materializes the kept rows in base-set order.
func (v *View) Rows() []models.Sale {
	rows := make([]models.Sale, 0, v.count)
	for i, keep := range v.mask {
		if keep {
			rows = append(rows, v.sales[i])
		}
	}
	return rows
}

// each visits every kept row in base-set order.
func (v *View) each(fn func(models.Sale)) {
	for i, keep := range v.mask {
		if keep {
			fn(v.sales[i])
		}
	}
}

// and narrows the mask by one predicate, skipping rows already excluded.
func (v *View) and(pred func(models.Sale) bool) {
	for i := range v.mask {
		if v.mask[i] && !pred(v.sales[i]) {
			v.mask[i] = false
			v.count--
		}
	}
}

// Filter evaluates the criteria against the current base set. Every
// active predicate ANDs into the mask; no active predicate yields the
// identity view. The base set itself is never modified.
func (a *Analytics) Filter(c models.Criteria) *View {
	sales := a.dataset().Sales

	v := &View{
		sales: sales,
		mask:  make([]bool, len(sales)),
		count: len(sales),
	}
	for i := range v.mask {
		v.mask[i] = true
	}

	if c.Store != "" {
		v.and(func(s models.Sale) bool { return s.Store == c.Store })
	}
	if c.Month != "" {
		v.and(func(s models.Sale) bool { return s.Month == c.Month })
	}
	if c.Seller != "" {
		v.and(func(s models.Sale) bool { return s.Seller == c.Seller })
	}
	if !c.StartDate.IsZero() {
		start := dateOnly(c.StartDate)
		v.and(func(s models.Sale) bool {
			return !s.Date.IsZero() && !dateOnly(s.Date).Before(start)
		})
	}
	if !c.EndDate.IsZero() {
		// Inclusive: a sale dated exactly on the end date stays in.
		end := dateOnly(c.EndDate)
		v.and(func(s models.Sale) bool {
			return !s.Date.IsZero() && !dateOnly(s.Date).After(end)
		})
	}
	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		v.and(func(s models.Sale) bool {
			return (s.Seller != "" && strings.Contains(strings.ToLower(s.Seller), term)) ||
				(s.Store != "" && strings.Contains(strings.ToLower(s.Store), term))
		})
	}

	return v
}

// Options lists the selectable filter values for the current base set.
// With a store selected, only sellers who sold in that store are offered;
// the filter itself still accepts any seller value.
func (a *Analytics) Options(store string) models.FilterOptions {
	sales := a.dataset().Sales

	stores := make(map[string]struct{})
	months := make(map[string]struct{})
	sellers := make(map[string]struct{})
	var minDate, maxDate time.Time

	for _, s := range sales {
		if s.Store != "" {
			stores[s.Store] = struct{}{}
		}
		if s.Month != "" {
			months[s.Month] = struct{}{}
		}
		if s.Seller != "" && (store == "" || s.Store == store) {
			sellers[s.Seller] = struct{}{}
		}
		if !s.Date.IsZero() {
			if minDate.IsZero() || s.Date.Before(minDate) {
				minDate = s.Date
			}
			if s.Date.After(maxDate) {
				maxDate = s.Date
			}
		}
	}

	return models.FilterOptions{
		Stores:  sortedKeys(stores),
		Months:  sortedKeys(months),
		Sellers: sortedKeys(sellers),
		MinDate: minDate,
		MaxDate: maxDate,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
