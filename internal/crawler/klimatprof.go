package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"climaprj/internal/model"
	"climaprj/internal/source"
)

const (
	KlimatprofName    = "klimatprof.online"
	KlimatprofBaseURL = "https://klimatprof.online"

	maxCategories       = 3
	maxCardsPerCategory = 5
	maxProducts         = 15
)

var (
	basePrice = decimal.NewFromInt(30000)
	stepPrice = decimal.NewFromInt(5000)
	basePower = decimal.RequireFromString("2.0")
	stepPower = decimal.RequireFromString("0.3")

	// ErrNoCategories means the catalog page no longer has the expected shape.
	ErrNoCategories = errors.New("no category links found")
)

// Klimatprof scrapes the klimatprof.online catalog. The site shows neither
// prices nor capacities on its listing cards, so both are estimated from the
// card position and flagged in Product.Synthesized.
type Klimatprof struct {
	client  *Client
	baseURL *url.URL
	log     *zap.Logger
}

func NewKlimatprof(client *Client, baseURL string, log *zap.Logger) (*Klimatprof, error) {
	if baseURL == "" {
		baseURL = KlimatprofBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid klimatprof base url %q: %w", baseURL, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Klimatprof{client: client, baseURL: u, log: log.Named("klimatprof")}, nil
}

func (k *Klimatprof) Name() string { return KlimatprofName }

// Products walks the catalog root, up to three category pages and up to five
// cards per page, stopping at fifteen products. A failing catalog root aborts
// the walk; a failing category is skipped and reported in the returned error.
func (k *Klimatprof) Products(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}

	catalogURL := k.baseURL.ResolveReference(&url.URL{Path: "catalog/"}).String()
	doc, err := k.client.FetchDocument(ctx, catalogURL)
	if err != nil {
		return products, fmt.Errorf("catalog: %w", err)
	}

	links := categoryLinks(doc, k.baseURL, maxCategories)
	if len(links) == 0 {
		return products, fmt.Errorf("catalog: %w", ErrNoCategories)
	}

	var errs []error
	for _, link := range links {
		if link == "" || strings.HasSuffix(link, "/catalog/") {
			continue
		}

		catDoc, err := k.client.FetchDocument(ctx, link)
		if err != nil {
			k.log.Debug("category skipped", zap.String("url", link), zap.Error(err))
			errs = append(errs, fmt.Errorf("category %s: %w", link, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		cards, skipped := parseCards(catDoc, k.baseURL, maxCardsPerCategory)
		if skipped > 0 {
			k.log.Debug("malformed cards dropped", zap.String("url", link), zap.Int("count", skipped))
		}

		for _, c := range cards {
			products = append(products, k.toProduct(len(products), c))
			if len(products) >= maxProducts {
				return products, errors.Join(errs...)
			}
		}
	}

	return products, errors.Join(errs...)
}

func (k *Klimatprof) toProduct(seq int, c card) model.Product {
	idx := decimal.NewFromInt(int64(c.Index))

	image := c.Image
	if image == "" {
		image = source.DefaultImage
	}

	return model.Product{
		ID:          fmt.Sprintf("klimatprof_%d", seq),
		Name:        c.Name,
		Brand:       brandOf(c.Name),
		Category:    "Кондиционеры",
		Series:      c.Name,
		Power:       basePower.Add(stepPower.Mul(idx)).Round(1),
		Type:        "Настенный",
		Price:       basePrice.Add(stepPrice.Mul(idx)),
		Source:      KlimatprofName,
		Image:       image,
		Features:    []string{"Инвертор", "Энергоэффективность класса A"},
		Synthesized: []string{model.FieldPrice, model.FieldPower},
	}
}

func brandOf(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}
