package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"climaprj/internal/aggregator"
	"climaprj/internal/config"
	"climaprj/internal/crawler"
	"climaprj/internal/db"
	"climaprj/internal/feed"
	"climaprj/internal/observability"
	"climaprj/internal/repository"
	"climaprj/internal/source"
)

// App holds the wired sources and the aggregator built from a Config.
type App struct {
	Aggregator *aggregator.Aggregator
	Metrics    *observability.Metrics
	Log        *zap.Logger

	pool *pgxpool.Pool
}

// New builds the sources in their fixed order: the klimatprof scraper, the
// breez feed and, when DATABASE_URL is set, the knowledge base.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, metrics *observability.Metrics) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	client := crawler.NewClient(crawler.ClientOptions{
		Timeout:   cfg.ScraperTimeout,
		RPS:       cfg.ScraperRPS,
		UserAgent: cfg.ScraperUserAgent,
	})
	scraper, err := crawler.NewKlimatprof(client, cfg.KlimatprofBaseURL, log)
	if err != nil {
		return nil, err
	}

	doc, err := feed.Load(cfg.FeedPath)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	sources := []source.Source{scraper, feed.NewBreez(doc)}

	a := &App{Metrics: metrics, Log: log}
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		sources = append(sources, &repository.KnowledgeSource{
			Repo:  &repository.KnowledgeRepository{DB: pool},
			Limit: cfg.KnowledgeLimit,
			Log:   log.Named("knowledge"),
		})
	}

	a.Aggregator = aggregator.New(sources,
		aggregator.WithSourceTimeout(cfg.SourceTimeout),
		aggregator.WithLogger(log),
		aggregator.WithMetrics(metrics),
	)

	names := a.Aggregator.Sources()
	log.Info("sources configured", zap.Strings("sources", names))
	return a, nil
}

// Close releases the database pool, if one was opened.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
