package dataset

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

// Column names expected in the source files.
const (
	colDate          = "Date"
	colSellerID      = "IdSeller"
	colStoreID       = "IdStore"
	colQuantity      = "Quantity"
	colPrice         = "Price"
	colSellerName    = "Seller"
	colStoreName     = "Store"
	colRevenueTarget = "RevenueTarget"
)

// Sources names the four tabular inputs. The transaction table may be
// split across several files that get concatenated before processing.
type Sources struct {
	Transactions []string
	Sellers      string
	Stores       string
	Targets      string
}

// TargetKey identifies one revenue goal: a store in a month bucket.
type TargetKey struct {
	StoreID string
	Month   string
}

// TargetMap holds the summed target amount per (store, month). Built once
// per load and immutable afterwards.
type TargetMap map[TargetKey]float64

// Amount returns the target for the given store and month, 0 when no
// target exists.
func (m TargetMap) Amount(storeID, month string) float64 {
	return m[TargetKey{StoreID: storeID, Month: month}]
}

// Dataset is the immutable result of one load: the enriched base set,
// the target map, and any non-fatal schema warnings raised on the way.
type Dataset struct {
	Sales    []models.Sale
	Targets  TargetMap
	Warnings []SchemaWarning
	LoadedAt time.Time
}

// Load reads all four sources, merges the reference tables into the
// transactions and attaches the derived fields. Any unreadable or
// structurally broken required source fails the whole load with a
// *LoadError; reference tables that merely lack their join columns only
// produce a SchemaWarning and skip that dimension.
func Load(ctx context.Context, src Sources) (*Dataset, error) {
	if len(src.Transactions) == 0 {
		return nil, loadErrf("transactions", "no transaction files configured")
	}

	var (
		txs      []models.Transaction
		sellers  map[string][]string
		stores   map[string][]string
		targets  []models.TargetRecord
		warnings []SchemaWarning
	)

	var sellerWarn, storeWarn *SchemaWarning

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = loadTransactions(ctx, src.Transactions)
		return err
	})
	g.Go(func() error {
		var err error
		sellers, sellerWarn, err = loadReference(src.Sellers, "sellers", colSellerID, colSellerName)
		return err
	})
	g.Go(func() error {
		var err error
		stores, storeWarn, err = loadReference(src.Stores, "stores", colStoreID, colStoreName)
		return err
	})
	g.Go(func() error {
		var err error
		targets, err = loadTargets(src.Targets)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sellerWarn != nil {
		warnings = append(warnings, *sellerWarn)
	}
	if storeWarn != nil {
		warnings = append(warnings, *storeWarn)
	}

	targetMap := BuildTargetMap(targets)

	return &Dataset{
		Sales:    Enrich(txs, sellers, stores, targetMap),
		Targets:  targetMap,
		Warnings: warnings,
		LoadedAt: time.Now(),
	}, nil
}

func loadTransactions(ctx context.Context, paths []string) ([]models.Transaction, error) {
	var txs []models.Transaction

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source := filepath.Base(path)
		t, err := readTable(path)
		if err != nil {
			return nil, loadErr(source, err)
		}
		if missing := t.missing(colDate, colSellerID, colStoreID, colQuantity, colPrice); len(missing) > 0 {
			return nil, loadErrf(source, "missing required columns: %v", missing)
		}

		dateIdx, _ := t.col(colDate)
		sellerIdx, _ := t.col(colSellerID)
		storeIdx, _ := t.col(colStoreID)
		qtyIdx, _ := t.col(colQuantity)
		priceIdx, _ := t.col(colPrice)

		for _, row := range t.rows {
			sellerID := cell(row, sellerIdx)
			storeID := cell(row, storeIdx)
			if sellerID == "" && storeID == "" && cell(row, dateIdx) == "" {
				continue // trailing blank row
			}

			date, _ := parseDate(cell(row, dateIdx))
			txs = append(txs, models.Transaction{
				Date:     date,
				SellerID: sellerID,
				StoreID:  storeID,
				Quantity: parseNumber(cell(row, qtyIdx)),
				Price:    parseNumber(cell(row, priceIdx)),
			})
		}
	}

	if len(txs) == 0 {
		return nil, loadErrf("transactions", "no usable transaction rows in %d file(s)", len(paths))
	}
	return txs, nil
}

// loadReference reads a seller or store lookup table. A nil map with a
// warning means the join columns are absent and the dimension must be
// skipped; duplicate ids keep every name so the left join fans out.
func loadReference(path, tableName, idCol, nameCol string) (map[string][]string, *SchemaWarning, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, nil, loadErr(tableName, err)
	}
	if missing := t.missing(idCol, nameCol); len(missing) > 0 {
		return nil, &SchemaWarning{Table: tableName, MissingColumns: missing}, nil
	}

	idIdx, _ := t.col(idCol)
	nameIdx, _ := t.col(nameCol)

	names := make(map[string][]string, len(t.rows))
	for _, row := range t.rows {
		id := cell(row, idIdx)
		if id == "" {
			continue
		}
		names[id] = append(names[id], cell(row, nameIdx))
	}
	return names, nil, nil
}

func loadTargets(path string) ([]models.TargetRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, loadErr("targets", err)
	}
	if missing := t.missing(colDate, colStoreID, colRevenueTarget); len(missing) > 0 {
		return nil, loadErrf("targets", "missing required columns: %v", missing)
	}

	dateIdx, _ := t.col(colDate)
	storeIdx, _ := t.col(colStoreID)
	amountIdx, _ := t.col(colRevenueTarget)

	var records []models.TargetRecord
	for _, row := range t.rows {
		date, ok := parseDate(cell(row, dateIdx))
		storeID := cell(row, storeIdx)
		if !ok || storeID == "" {
			continue // a goal without a month or store can never match a sale
		}
		records = append(records, models.TargetRecord{
			StoreID: storeID,
			Month:   date.Format(monthLayout),
			Amount:  parseNumber(cell(row, amountIdx)),
		})
	}
	return records, nil
}

// Stats summarizes the dataset for monitoring endpoints.
func (d *Dataset) Stats() map[string]any {
	stores := make(map[string]struct{})
	sellers := make(map[string]struct{})
	months := make(map[string]struct{})
	for _, s := range d.Sales {
		if s.Store != "" {
			stores[s.Store] = struct{}{}
		}
		if s.Seller != "" {
			sellers[s.Seller] = struct{}{}
		}
		if s.Month != "" {
			months[s.Month] = struct{}{}
		}
	}

	warnings := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		warnings = append(warnings, w.String())
	}

	return map[string]any{
		"record_count": len(d.Sales),
		"loaded_at":    d.LoadedAt,
		"stores":       len(stores),
		"sellers":      len(sellers),
		"months":       len(months),
		"targets":      len(d.Targets),
		"warnings":     warnings,
	}
}
