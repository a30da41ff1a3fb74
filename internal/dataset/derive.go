package dataset

import "github.com/DouglasAntonni/dashboard-vendas/internal/models"

// monthLayout is the month-bucket format shared by sales and targets.
const monthLayout = "2006-01"

// BuildTargetMap groups the target records by (store, month) and sums the
// amounts per group.
func BuildTargetMap(records []models.TargetRecord) TargetMap {
	m := make(TargetMap, len(records))
	for _, r := range records {
		m[TargetKey{StoreID: r.StoreID, Month: r.Month}] += r.Amount
	}
	return m
}

// Enrich turns raw transactions into the enriched base set: reference
// names joined in, revenue and month bucket computed, and the applicable
// target attached. Pure and deterministic.
//
// Joins are left outer. A transaction without a reference match keeps an
// empty name rather than being dropped; duplicate reference ids fan the
// row out into one enriched row per match. Key uniqueness is not
// validated, mirroring the source data contract.
func Enrich(txs []models.Transaction, sellers, stores map[string][]string, targets TargetMap) []models.Sale {
	sales := make([]models.Sale, 0, len(txs))

	for _, tx := range txs {
		var month string
		if !tx.Date.IsZero() {
			month = tx.Date.Format(monthLayout)
		}

		base := models.Sale{
			Transaction: tx,
			Month:       month,
			Revenue:     tx.Quantity * tx.Price,
			Target:      targets.Amount(tx.StoreID, month),
		}

		for _, sellerName := range joinNames(sellers, tx.SellerID) {
			for _, storeName := range joinNames(stores, tx.StoreID) {
				s := base
				s.Seller = sellerName
				s.Store = storeName
				sales = append(sales, s)
			}
		}
	}

	return sales
}

// joinNames returns the join partners for one key: every matching name,
// or a single empty name when there is none. A nil reference table means
// the dimension was skipped entirely (schema warning case).
func joinNames(ref map[string][]string, id string) []string {
	if ref != nil {
		if names := ref[id]; len(names) > 0 {
			return names
		}
	}
	return []string{""}
}
