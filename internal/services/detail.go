package services

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

// Detail returns the drill-down rows for a view: only dated rows, newest
// first. Rows whose date never parsed stay in the aggregates but have no
// place on a date-sorted table.
func (a *Analytics) Detail(v *View) []models.DetailRow {
	rows := make([]models.DetailRow, 0, v.Len())
	v.each(func(s models.Sale) {
		if s.Date.IsZero() {
			return
		}
		rows = append(rows, models.DetailRow{
			Date:     s.Date,
			Seller:   s.Seller,
			Store:    s.Store,
			Quantity: s.Quantity,
			Price:    s.Price,
			Revenue:  s.Revenue,
		})
	})

	slices.SortStableFunc(rows, func(a, b models.DetailRow) int {
		return b.Date.Compare(a.Date)
	})
	return rows
}

// WriteDetailCSV streams detail rows as the downloadable delimited text.
func WriteDetailCSV(w io.Writer, rows []models.DetailRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Seller", "Store", "Quantity", "Price", "Revenue"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Date.Format("2006-01-02"),
			r.Seller,
			r.Store,
			formatNumber(r.Quantity),
			formatNumber(r.Price),
			formatNumber(r.Revenue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
