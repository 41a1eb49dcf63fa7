// Package ingest reads logistics and supplier tables from CSV and XLSX files.
//
// Columns are matched by header name, ignoring case, spaces and underscores,
// so "inventoryLevel", "inventory_level" and "Inventory Level" are the same
// column. Missing or unparseable cells fall back to per-field defaults.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// Format is a tabular file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// FormatFromName picks the format from a file name extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Parser converts tables into domain records. The clock supplies the
// timestamp defaults.
type Parser struct {
	now func() time.Time
}

// NewParser returns a parser using now for time defaults. A nil clock uses
// time.Now.
func NewParser(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// ParseRecords reads a CSV logistics table.
func ParseRecords(r io.Reader) ([]domain.SupplyChainRecord, error) {
	return NewParser(nil).Records(FormatCSV, r)
}

// ParseSuppliers reads a CSV supplier table.
func ParseSuppliers(r io.Reader) ([]domain.SupplierRecord, error) {
	return NewParser(nil).Suppliers(FormatCSV, r)
}

// ReadRecordsFile reads a logistics table from a .csv or .xlsx file.
func ReadRecordsFile(path string) ([]domain.SupplyChainRecord, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := NewParser(nil).Records(format, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// ReadSuppliersFile reads a supplier table from a .csv or .xlsx file.
func ReadSuppliersFile(path string) ([]domain.SupplierRecord, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	suppliers, err := NewParser(nil).Suppliers(format, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return suppliers, nil
}

// Records parses a logistics table.
func (p *Parser) Records(format Format, r io.Reader) ([]domain.SupplyChainRecord, error) {
	t, err := readTable(format, r)
	if err != nil {
		return nil, err
	}

	now := p.now()
	out := make([]domain.SupplyChainRecord, 0, len(t.rows))
	for idx := range t.rows {
		row := t.row(idx)
		out = append(out, domain.SupplyChainRecord{
			ID:               row.text("id", fmt.Sprintf("csv-%d-%d", idx, now.UnixNano())),
			Timestamp:        row.date("timestamp", now),
			State:            row.text("state", row.text("region", DefaultState)),
			Product:          row.text("product", DefaultProduct),
			Supplier:         row.text("supplier", DefaultSupplier),
			InventoryLevel:   row.number("inventorylevel", 0),
			PlannedInventory: row.number("plannedinventory", DefaultPlannedInventory),
			LeadTime:         row.number("leadtime", DefaultLeadTime),
			PlannedLeadTime:  row.number("plannedleadtime", DefaultLeadTime),
			Cost:             row.number("cost", 0),
			Demand:           row.number("demand", 0),
			DeliveryDate:     row.date("deliverydate", now),
			Destination:      row.text("destination", DefaultDestination),
		})
	}
	return out, nil
}

// Suppliers parses a supplier table.
func (p *Parser) Suppliers(format Format, r io.Reader) ([]domain.SupplierRecord, error) {
	t, err := readTable(format, r)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SupplierRecord, 0, len(t.rows))
	for idx := range t.rows {
		row := t.row(idx)
		status, ok := domain.ParseContractStatus(row.text("contractstatus", ""))
		if !ok {
			status = domain.ContractActive
		}
		out = append(out, domain.SupplierRecord{
			Name:           row.text("name", DefaultSupplierName),
			Rating:         row.number("rating", 0),
			Reliability:    row.number("reliability", 0),
			BaseLeadTime:   row.number("baseleadtime", 0),
			ContactEmail:   row.text("contactemail", ""),
			ContractStatus: status,
		})
	}
	return out, nil
}
