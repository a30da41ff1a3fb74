package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DouglasAntonni/dashboard-vendas/internal/dataset"
	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

// Analytics owns the enriched base set and answers every filter/aggregate
// cycle against it. The dataset is loaded once, shared read-only, and
// only ever replaced wholesale by an explicit reload; no call mutates it.
type Analytics struct {
	mu      sync.RWMutex
	ds      *dataset.Dataset
	sources dataset.Sources
	logger  *slog.Logger
}

func NewAnalytics(src dataset.Sources, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		ds:      &dataset.Dataset{Targets: dataset.TargetMap{}},
		sources: src,
		logger:  logger,
	}
}

// Load reads the configured sources and swaps the result in. On failure
// the previously loaded dataset stays live untouched.
func (a *Analytics) Load(ctx context.Context) error {
	start := time.Now()

	ds, err := dataset.Load(ctx, a.sources)
	if err != nil {
		return err
	}

	for _, w := range ds.Warnings {
		a.logger.Warn("schema warning",
			"table", w.Table,
			"missing_columns", w.MissingColumns,
		)
	}

	a.mu.Lock()
	a.ds = ds
	a.mu.Unlock()

	a.logger.Info("dataset loaded",
		"records", len(ds.Sales),
		"targets", len(ds.Targets),
		"warnings", len(ds.Warnings),
		"duration", time.Since(start),
	)
	return nil
}

// SetDataset swaps in a prebuilt dataset directly.
func (a *Analytics) SetDataset(ds *dataset.Dataset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ds = ds
}

// SetData builds a dataset from already-enriched rows. Used by tests.
func (a *Analytics) SetData(sales []models.Sale) {
	a.SetDataset(&dataset.Dataset{
		Sales:    sales,
		Targets:  dataset.TargetMap{},
		LoadedAt: time.Now(),
	})
}

func (a *Analytics) dataset() *dataset.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ds
}

// Warnings returns the schema warnings raised by the last load.
func (a *Analytics) Warnings() []dataset.SchemaWarning {
	return a.dataset().Warnings
}

// Stats summarizes the loaded dataset for monitoring.
func (a *Analytics) Stats() map[string]any {
	return a.dataset().Stats()
}
