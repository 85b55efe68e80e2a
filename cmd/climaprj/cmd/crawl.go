package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"climaprj/internal/api"
	"climaprj/internal/app"
	"climaprj/internal/config"
	"climaprj/internal/filter"
)

type crawlOptions struct {
	minPrice string
	maxPrice string
	brands   []string
	types    []string
}

var crawlOpts crawlOptions

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run one aggregation and print the products as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log := setup()
		defer func() { _ = log.Sync() }()
		return runCrawl(cmd.Context(), cfg, log, crawlOpts.query(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	f := crawlCmd.Flags()
	f.StringVar(&crawlOpts.minPrice, "min-price", "", "Minimum price, inclusive")
	f.StringVar(&crawlOpts.maxPrice, "max-price", "", "Maximum price, inclusive")
	f.StringArrayVar(&crawlOpts.brands, "brand", nil, "Brand, case-insensitive (repeatable)")
	f.StringArrayVar(&crawlOpts.types, "type", nil, "Mounting type, case-insensitive (repeatable)")
}

// query renders the flags as the query string /api/products accepts.
func (o crawlOptions) query() url.Values {
	q := url.Values{}
	if o.minPrice != "" {
		q.Set(filter.ParamMinPrice, o.minPrice)
	}
	if o.maxPrice != "" {
		q.Set(filter.ParamMaxPrice, o.maxPrice)
	}
	for _, b := range o.brands {
		q.Add(filter.ParamBrand, b)
	}
	for _, t := range o.types {
		q.Add(filter.ParamType, t)
	}
	return q
}

func runCrawl(ctx context.Context, cfg *config.Config, log *zap.Logger, q url.Values, out io.Writer) error {
	a, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.Aggregator.Aggregate(ctx)
	products := filter.Apply(res.Products, filter.ParseCriteria(q))

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewProductsResponse(products, a.Aggregator.Sources()))
}
