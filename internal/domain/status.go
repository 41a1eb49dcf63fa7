package domain

import "strings"

// Trend is the direction shown on a KPI card.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Phase labels a forecast point as observed history or the current status.
type Phase string

const (
	PhasePast    Phase = "past"
	PhasePresent Phase = "present"
)

// DeliveryStatus is derived from a record's delivery date.
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "Delivered"
	StatusInTransit DeliveryStatus = "In Transit"
)

// ContractStatus is the state of a supplier contract.
type ContractStatus string

const (
	ContractActive  ContractStatus = "Active"
	ContractPending ContractStatus = "Pending"
	ContractExpired ContractStatus = "Expired"
)

var contractStatuses = map[string]ContractStatus{
	"active":  ContractActive,
	"pending": ContractPending,
	"expired": ContractExpired,
}

// ParseContractStatus returns the contract status for a label (case-insensitive).
func ParseContractStatus(label string) (ContractStatus, bool) {
	status, ok := contractStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}
