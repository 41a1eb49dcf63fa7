package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

var (
	recordHeader = []string{
		"id", "timestamp", "state", "product", "supplier",
		"inventoryLevel", "plannedInventory", "leadTime", "plannedLeadTime",
		"cost", "demand", "deliveryDate", "destination",
	}
	supplierHeader = []string{
		"name", "rating", "reliability", "baseLeadTime", "contactEmail", "contractStatus",
	}
)

// WriteRecordsCSV writes records with the header ParseRecords reads back.
func WriteRecordsCSV(w io.Writer, records []domain.SupplyChainRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Timestamp.Format(time.RFC3339Nano),
			r.State,
			r.Product,
			r.Supplier,
			formatFloat(r.InventoryLevel),
			formatFloat(r.PlannedInventory),
			formatFloat(r.LeadTime),
			formatFloat(r.PlannedLeadTime),
			formatFloat(r.Cost),
			formatFloat(r.Demand),
			r.DeliveryDate.Format(time.RFC3339Nano),
			r.Destination,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSuppliersCSV writes supplier profiles with the header ParseSuppliers
// reads back.
func WriteSuppliersCSV(w io.Writer, suppliers []domain.SupplierRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(supplierHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range suppliers {
		row := []string{
			s.Name,
			formatFloat(s.Rating),
			formatFloat(s.Reliability),
			formatFloat(s.BaseLeadTime),
			s.ContactEmail,
			string(s.ContractStatus),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", s.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
