package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// table is one tabular source held in memory: a case-insensitive header
// index plus the data rows.
type table struct {
	columns map[string]int
	rows    [][]string
}

func readTable(path string) (*table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(path)
	default:
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		header = strings.ToLower(strings.TrimSpace(header))
		if header == "" {
			continue
		}
		if _, ok := columns[header]; !ok {
			columns[header] = i
		}
	}

	return &table{columns: columns, rows: rows[1:]}, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found")
	}
	return f.GetRows(sheet)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// col resolves a column name to its index, case-insensitively.
func (t *table) col(name string) (int, bool) {
	i, ok := t.columns[strings.ToLower(name)]
	return i, ok
}

// missing returns the subset of names with no matching column.
func (t *table) missing(names ...string) []string {
	var absent []string
	for _, n := range names {
		if _, ok := t.col(n); !ok {
			absent = append(absent, n)
		}
	}
	return absent
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01-02-06",
	"01-02-06 15:04",
	"02/01/2006",
	time.RFC3339,
}

// parseDate coerces a cell to a timestamp. Excel sheets read with raw
// values yield serial day numbers; everything else goes through the known
// textual layouts. Unparseable values report ok=false, never an error.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber coerces a cell to a float64, treating blanks and garbage as
// zero so downstream sums stay defined.
func parseNumber(raw string) float64 {
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
