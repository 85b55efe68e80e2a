package model

import "github.com/shopspring/decimal"

// Names used in Product.Synthesized.
const (
	FieldPrice = "price"
	FieldPower = "power"
)

// Product is the canonical record every source is normalized into.
// Values are built once by a source adapter and never modified afterwards.
type Product struct {
	ID       string
	Name     string
	Brand    string
	Category string
	Series   string
	Power    decimal.Decimal // capacity, kW
	Type     string          // installation form factor
	Price    decimal.Decimal
	Source   string
	Image    string
	Features []string

	// Synthesized lists the fields the adapter estimated instead of reading them upstream.
	Synthesized []string
}
