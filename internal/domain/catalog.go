package domain

// Catalog holds the enumerated categorical values the dashboard works with.
// Products order is the order category breakdowns are reported in.
type Catalog struct {
	States       []string `json:"states" yaml:"states"`
	Products     []string `json:"products" yaml:"products"`
	Suppliers    []string `json:"suppliers" yaml:"suppliers"`
	Destinations []string `json:"destinations" yaml:"destinations"`
}

var (
	States = []string{
		"Maharashtra",
		"Karnataka",
		"Tamil Nadu",
		"Delhi",
		"Gujarat",
		"West Bengal",
	}

	Products = []string{
		"Electronics",
		"Textiles",
		"Pharmaceuticals",
		"Automotive Parts",
		"Food & Beverage",
	}

	Suppliers = []string{
		"Reliance Logistics",
		"Tata Supply Chain",
		"Adani Ports",
		"Mahindra Logistics",
		"Blue Dart",
	}

	Destinations = []string{
		"Mumbai Hub",
		"Delhi Logistics Park",
		"Bangalore Tech Port",
		"Chennai Wharf",
		"Hyderabad Zone",
		"Pune Industrial Estate",
	}
)

// DefaultCatalog returns a copy of the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		States:       append([]string(nil), States...),
		Products:     append([]string(nil), Products...),
		Suppliers:    append([]string(nil), Suppliers...),
		Destinations: append([]string(nil), Destinations...),
	}
}

// Merge returns c with every empty list filled from fallback.
func (c Catalog) Merge(fallback Catalog) Catalog {
	if len(c.States) == 0 {
		c.States = fallback.States
	}
	if len(c.Products) == 0 {
		c.Products = fallback.Products
	}
	if len(c.Suppliers) == 0 {
		c.Suppliers = fallback.Suppliers
	}
	if len(c.Destinations) == 0 {
		c.Destinations = fallback.Destinations
	}
	return c
}
