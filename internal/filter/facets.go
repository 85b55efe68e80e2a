package filter

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"climaprj/internal/model"
)

// Facets describes the values a caller can filter on.
type Facets struct {
	Brands   []string
	Types    []string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

// BuildFacets collects distinct brands and types (first spelling wins,
// compared case-insensitively) and the price range of products.
func BuildFacets(products []model.Product) Facets {
	f := Facets{Brands: []string{}, Types: []string{}}
	seenBrand := map[string]bool{}
	seenType := map[string]bool{}

	for i, p := range products {
		if k := strings.ToLower(p.Brand); k != "" && !seenBrand[k] {
			seenBrand[k] = true
			f.Brands = append(f.Brands, p.Brand)
		}
		if k := strings.ToLower(p.Type); k != "" && !seenType[k] {
			seenType[k] = true
			f.Types = append(f.Types, p.Type)
		}
		if i == 0 || p.Price.LessThan(f.MinPrice) {
			f.MinPrice = p.Price
		}
		if i == 0 || p.Price.GreaterThan(f.MaxPrice) {
			f.MaxPrice = p.Price
		}
	}

	// labels mix Cyrillic and Latin script
	col := collate.New(language.Russian, collate.IgnoreCase)
	col.SortStrings(f.Brands)
	col.SortStrings(f.Types)
	return f
}
