package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/DouglasAntonni/dashboard-vendas/internal/models"
)

func TestDetail_NewestFirstWithoutNullDates(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-01-05", "Alice", "Store X", 2, 100, 0),
		sale("", "Bruno", "Store X", 1, 20, 0),
		sale("2024-03-15", "Carla", "Store Y", 1, 80, 0),
		sale("2024-01-20", "Bruno", "Store X", 1, 50, 0),
	)

	rows := a.Detail(a.Filter(models.Criteria{}))

	if len(rows) != 3 {
		t.Fatalf("undated rows must be dropped from the table, got %d rows", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Date.After(rows[i-1].Date) {
			t.Errorf("rows out of order at %d: %s after %s",
				i, rows[i].Date.Format("2006-01-02"), rows[i-1].Date.Format("2006-01-02"))
		}
	}
	if rows[0].Seller != "Carla" {
		t.Errorf("newest row first, got %q", rows[0].Seller)
	}
}

func TestWriteDetailCSV(t *testing.T) {
	a := newTestAnalytics(
		sale("2024-01-05", "Alice", "Store X", 2, 100, 0),
		sale("2024-01-20", "Bruno", "Store X", 1, 50.5, 0),
	)

	var buf bytes.Buffer
	if err := WriteDetailCSV(&buf, a.Detail(a.Filter(models.Criteria{}))); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Seller,Store,Quantity,Price,Revenue" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2024-01-20,Bruno,Store X,1,50.5,50.5" {
		t.Errorf("unexpected first data row: %q", lines[1])
	}
	if lines[2] != "2024-01-05,Alice,Store X,2,100,200" {
		t.Errorf("unexpected second data row: %q", lines[2])
	}
}

func TestWriteDetailCSV_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDetailCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Date,Seller,Store,Quantity,Price,Revenue" {
		t.Errorf("expected header only, got %q", got)
	}
}
