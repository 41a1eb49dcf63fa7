package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel labels used by clients to mean "no filter on this dimension".
const (
	AllStates    = "All States"
	AllProducts  = "All Products"
	AllSuppliers = "All Suppliers"
)

// ErrInvalidTimeRange is returned when a time range label is not one of 7d, 30d, 90d.
var ErrInvalidTimeRange = errors.New("invalid time range")

// Selector is a categorical filter value: either every value of a dimension or
// exactly one. The zero value selects everything.
type Selector struct {
	value string
	exact bool
}

// AllOf selects every value of a dimension.
func AllOf() Selector {
	return Selector{}
}

// Exactly selects a single value.
func Exactly(value string) Selector {
	return Selector{value: value, exact: true}
}

// ParseSelector maps a raw client value to a Selector. An empty value or the
// dimension's sentinel label selects everything.
func ParseSelector(raw, sentinel string) Selector {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, sentinel) {
		return AllOf()
	}
	return Exactly(v)
}

// IsAll reports whether the selector places no restriction.
func (s Selector) IsAll() bool {
	return !s.exact
}

// Value returns the selected value, or "" for AllOf.
func (s Selector) Value() string {
	return s.value
}

// Toggle is an optional switch. The zero value means the caller did not
// choose, so a configured default applies.
type Toggle uint8

const (
	ToggleUnset Toggle = iota
	ToggleOn
	ToggleOff
)

// ToggleOf turns an explicit choice into a Toggle.
func ToggleOf(on bool) Toggle {
	if on {
		return ToggleOn
	}
	return ToggleOff
}

// IsSet reports whether a choice was made.
func (t Toggle) IsSet() bool {
	return t != ToggleUnset
}

// Enabled reports whether the toggle is on. Unset reads as off.
func (t Toggle) Enabled() bool {
	return t == ToggleOn
}

// Matches reports whether v passes the selector.
func (s Selector) Matches(v string) bool {
	return !s.exact || s.value == v
}

// Label renders the selector for display, using the sentinel for AllOf.
func (s Selector) Label(sentinel string) string {
	if !s.exact {
		return sentinel
	}
	return s.value
}

// TimeRange is the trailing window selector.
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"

	DefaultTimeRange = Range30d
)

// ParseTimeRange validates a time range label. Empty input yields the default.
func ParseTimeRange(raw string) (TimeRange, error) {
	switch v := TimeRange(strings.ToLower(strings.TrimSpace(raw))); v {
	case "":
		return DefaultTimeRange, nil
	case Range7d, Range30d, Range90d:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, raw)
	}
}

// Days returns the number of trailing records the range keeps. Unknown values
// fall back to 90, matching the widest window.
func (r TimeRange) Days() int {
	switch r {
	case Range7d:
		return 7
	case Range30d:
		return 30
	default:
		return 90
	}
}

// RecordFilter narrows a record collection.
type RecordFilter struct {
	State   Selector
	Product Selector
	Range   TimeRange
}

// DashboardFilter is the full set of parameters a dashboard request carries.
type DashboardFilter struct {
	RecordFilter
	ForecastProduct string
	Clusters        int
	Iterations      int
	StopWhenStable  Toggle
	LedgerLimit     int
	SmoothingWindow int
}

// FilterSummary echoes the applied filter back to clients.
type FilterSummary struct {
	State           string    `json:"state"`
	Product         string    `json:"product"`
	TimeRange       TimeRange `json:"time_range"`
	ForecastProduct string    `json:"forecast_product"`
}

// Summary renders the filter for responses.
func (f DashboardFilter) Summary() FilterSummary {
	return FilterSummary{
		State:           f.State.Label(AllStates),
		Product:         f.Product.Label(AllProducts),
		TimeRange:       f.Range,
		ForecastProduct: f.ForecastProduct,
	}
}
