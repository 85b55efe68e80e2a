package api

import (
	"climaprj/internal/filter"
	"climaprj/internal/model"
)

type ProductResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Series      string   `json:"series"`
	Power       float64  `json:"power"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Source      string   `json:"source"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
	Synthesized []string `json:"synthesized,omitempty"`
}

// ProductsResponse is the envelope of GET /api/products.
type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Sources  []string          `json:"sources"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FiltersResponse is the envelope of GET /api/filters.
type FiltersResponse struct {
	Brands     []string   `json:"brands"`
	Types      []string   `json:"types"`
	PriceRange PriceRange `json:"price_range"`
	Sources    []string   `json:"sources"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewProductResponse(p model.Product) ProductResponse {
	features := make([]string, len(p.Features))
	copy(features, p.Features)
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Series:      p.Series,
		Power:       p.Power.InexactFloat64(),
		Type:        p.Type,
		Price:       p.Price.InexactFloat64(),
		Source:      p.Source,
		Image:       p.Image,
		Features:    features,
		Synthesized: p.Synthesized,
	}
}

func NewProductsResponse(products []model.Product, sources []string) ProductsResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = NewProductResponse(p)
	}
	if sources == nil {
		sources = []string{}
	}
	return ProductsResponse{Products: out, Total: len(out), Sources: sources}
}

func NewFiltersResponse(f filter.Facets, sources []string) FiltersResponse {
	if sources == nil {
		sources = []string{}
	}
	return FiltersResponse{
		Brands: f.Brands,
		Types:  f.Types,
		PriceRange: PriceRange{
			Min: f.MinPrice.InexactFloat64(),
			Max: f.MaxPrice.InexactFloat64(),
		},
		Sources: sources,
	}
}
