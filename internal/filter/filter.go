package filter

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"climaprj/internal/model"
)

// Query parameter names.
const (
	ParamMinPrice = "min_price"
	ParamMaxPrice = "max_price"
	ParamBrand    = "brand"
	ParamType     = "type"
)

// Criteria narrows a product list. Every field is optional: an invalid
// NullDecimal or an empty slice leaves that dimension unconstrained.
type Criteria struct {
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Brands   []string
	Types    []string
}

// ParseCriteria never fails: unparseable prices are treated as absent.
// brand and type may be repeated to accept any of several values.
func ParseCriteria(q url.Values) Criteria {
	return Criteria{
		MinPrice: parsePrice(q.Get(ParamMinPrice)),
		MaxPrice: parsePrice(q.Get(ParamMaxPrice)),
		Brands:   nonEmpty(q[ParamBrand]),
		Types:    nonEmpty(q[ParamType]),
	}
}

func parsePrice(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Apply returns the products matching every present criterion, in input order.
// The input slice is left untouched.
func Apply(products []model.Product, c Criteria) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether p satisfies c. Price bounds are inclusive; brand and
// type compare case-insensitively and must match a value exactly.
func (c Criteria) Match(p model.Product) bool {
	if c.MinPrice.Valid && p.Price.LessThan(c.MinPrice.Decimal) {
		return false
	}
	if c.MaxPrice.Valid && p.Price.GreaterThan(c.MaxPrice.Decimal) {
		return false
	}
	if len(c.Brands) > 0 && !equalsAny(p.Brand, c.Brands) {
		return false
	}
	if len(c.Types) > 0 && !equalsAny(p.Type, c.Types) {
		return false
	}
	return true
}

func equalsAny(value string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(value, c) {
			return true
		}
	}
	return false
}
