// backend-go/internal/domain/models.go
package domain

import "time"

// SupplyChainRecord is one logistics event as supplied by the record store.
// Records are immutable once created; the analytics engine never mutates them.
type SupplyChainRecord struct {
	ID               string    `json:"id" db:"id"`
	Timestamp        time.Time `json:"timestamp" db:"ts"`
	State            string    `json:"state" db:"state"`
	Product          string    `json:"product" db:"product"`
	Supplier         string    `json:"supplier" db:"supplier"`
	InventoryLevel   float64   `json:"inventory_level" db:"inventory_level"`
	PlannedInventory float64   `json:"planned_inventory" db:"planned_inventory"`
	LeadTime         float64   `json:"lead_time" db:"lead_time"` // days
	PlannedLeadTime  float64   `json:"planned_lead_time" db:"planned_lead_time"`
	Cost             float64   `json:"cost" db:"cost"`
	Demand           float64   `json:"demand" db:"demand"`
	DeliveryDate     time.Time `json:"delivery_date" db:"delivery_date"`
	Destination      string    `json:"destination" db:"destination"`
}

// SupplierRecord is a supplier profile, keyed by Name.
type SupplierRecord struct {
	Name           string         `json:"name" db:"name"`
	Rating         float64        `json:"rating" db:"rating"`           // 0-5
	Reliability    float64        `json:"reliability" db:"reliability"` // 0-100 percent
	BaseLeadTime   float64        `json:"base_lead_time" db:"base_lead_time"`
	ContactEmail   string         `json:"contact_email" db:"contact_email"`
	ContractStatus ContractStatus `json:"contract_status" db:"contract_status"`
}

// KPIStat is a single summary card. It has no identity beyond its position.
type KPIStat struct {
	Label   string  `json:"label"`
	Actual  float64 `json:"actual"`
	Planned float64 `json:"planned"`
	Unit    string  `json:"unit"`
	Trend   Trend   `json:"trend"`
}

// CategoryStock is the stock reduction for one product category.
type CategoryStock struct {
	Name       string  `json:"name"`
	Available  float64 `json:"available"`
	Delivering float64 `json:"delivering"`
	Remaining  float64 `json:"remaining"`
}

// SeriesPoint is one (index, value) input pair for the regression forecaster.
type SeriesPoint struct {
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	Date *time.Time `json:"date,omitempty"`
}

// RegressionPoint is a series point with its fitted value.
type RegressionPoint struct {
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	PredictedY float64    `json:"predicted_y"`
	Date       *time.Time `json:"date,omitempty"`
}

// ForecastPoint is a regression point labelled for display. Exactly one point of
// a labelled series is Present and it is always the last one.
type ForecastPoint struct {
	RegressionPoint
	Phase    Phase    `json:"phase"`
	Past     *float64 `json:"past_sales"`
	Present  *float64 `json:"present_sales"`
	Forecast float64  `json:"forecast"`
}

// ClusterPoint is one record projected into (lead time, cost) space with its
// cluster label. Labels are only stable within one clustering run.
type ClusterPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Cluster int     `json:"cluster"`
	Label   string  `json:"label"`
}

// Centroid is a cluster center in (lead time, cost) space.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrendPoint feeds the inventory/demand trend chart.
type TrendPoint struct {
	Date           time.Time `json:"date"`
	InventoryLevel float64   `json:"inventory_level"`
	Demand         float64   `json:"demand"`
	DemandAverage  float64   `json:"demand_average"`
}

// LedgerEntry is one row of the operations history table.
type LedgerEntry struct {
	ID               string         `json:"id"`
	ETA              time.Time      `json:"eta"`
	Product          string         `json:"product"`
	Destination      string         `json:"destination"`
	Supplier         string         `json:"supplier"`
	UnitsSent        float64        `json:"units_sent"`
	Reliability      *float64       `json:"reliability"`
	ReliabilityLabel string         `json:"reliability_label"`
	Status           DeliveryStatus `json:"status"`
}

// Dashboard aggregates everything the overview screen needs for one filter.
type Dashboard struct {
	Filter    FilterSummary   `json:"filter"`
	KPIs      []KPIStat       `json:"kpis"`
	Breakdown []CategoryStock `json:"breakdown"`
	Forecast  ForecastSeries  `json:"forecast"`
	Trend     []TrendPoint    `json:"trend"`
	Ledger    []LedgerEntry   `json:"ledger"`
	Records   int             `json:"records"`
}

// ForecastSeries is the labelled demand forecast for a single product.
type ForecastSeries struct {
	Product    string          `json:"product"`
	Slope      float64         `json:"slope"`
	Intercept  float64         `json:"intercept"`
	Degenerate bool            `json:"degenerate"`
	Points     []ForecastPoint `json:"points"`
}

// ClusterResult is the output of one clustering run.
type ClusterResult struct {
	K         int            `json:"k"`
	Rounds    int            `json:"rounds"`
	Centroids []Centroid     `json:"centroids"`
	Points    []ClusterPoint `json:"points"`
}

// Dataset is the pair of collections the record store supplies.
type Dataset struct {
	Records   []SupplyChainRecord `json:"records"`
	Suppliers []SupplierRecord    `json:"suppliers"`
}

// UploadedFile represents an uploaded file for import.
type UploadedFile struct {
	Filename string
	Path     string
	Size     int64
}

// ImportResult summarises one import run.
type ImportResult struct {
	Records    int       `json:"records"`
	Suppliers  int       `json:"suppliers"`
	Archived   []string  `json:"archived,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}
