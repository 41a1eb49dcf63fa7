package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Field defaults for missing or unparseable cells.
const (
	DefaultState            = "Maharashtra"
	DefaultProduct          = "General Goods"
	DefaultSupplier         = "Standard Vendor"
	DefaultDestination      = "Main Hub"
	DefaultPlannedInventory = 100
	DefaultLeadTime         = 5
	DefaultSupplierName     = "Unknown"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// table is a header-indexed set of data rows. Blank rows are already dropped.
type table struct {
	columns map[string]int
	rows    [][]string
}

type tableRow struct {
	columns map[string]int
	cells   []string
}

func readTable(format Format, r io.Reader) (*table, error) {
	var (
		raw [][]string
		err error
	)
	switch format {
	case FormatCSV:
		raw, err = readCSV(r)
	case FormatXLSX:
		raw, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return newTable(raw), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func newTable(raw [][]string) *table {
	t := &table{columns: make(map[string]int)}
	if len(raw) == 0 {
		return t
	}

	for i, col := range raw[0] {
		key := normalizeHeader(col)
		if _, seen := t.columns[key]; !seen && key != "" {
			t.columns[key] = i
		}
	}

	for _, row := range raw[1:] {
		if isBlank(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func (t *table) row(idx int) tableRow {
	return tableRow{columns: t.columns, cells: t.rows[idx]}
}

func (r tableRow) value(column string) string {
	if idx, ok := r.columns[column]; ok && idx < len(r.cells) {
		return strings.TrimSpace(r.cells[idx])
	}
	return ""
}

func (r tableRow) text(column, fallback string) string {
	if v := r.value(column); v != "" {
		return v
	}
	return fallback
}

// number keeps explicit zeros; only empty, non-numeric and non-finite cells
// take the fallback.
func (r tableRow) number(column string, fallback float64) float64 {
	v := r.value(column)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func (r tableRow) date(column string, fallback time.Time) time.Time {
	v := r.value(column)
	if v == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts
		}
	}
	return fallback
}

func normalizeHeader(col string) string {
	col = strings.TrimPrefix(col, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(col) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
