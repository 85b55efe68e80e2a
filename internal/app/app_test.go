package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climaprj/internal/config"
	"climaprj/internal/crawler"
	"climaprj/internal/feed"
	"climaprj/internal/observability"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		KlimatprofBaseURL: baseURL,
		ScraperTimeout:    time.Second,
		SourceTimeout:     2 * time.Second,
	}
}

func TestNew_DefaultSources(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	a, err := New(context.Background(), testConfig(srv.URL), nil, observability.NewMetrics())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{crawler.KlimatprofName, feed.BreezName}, a.Aggregator.Sources())

	res := a.Aggregator.Aggregate(context.Background())
	assert.Len(t, res.Products, 8)
	assert.Error(t, res.Reports[0].Err)
}

func TestNew_MissingFeedFile(t *testing.T) {
	cfg := testConfig("")
	cfg.FeedPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}

func TestNew_InvalidDatabaseURL(t *testing.T) {
	cfg := testConfig("")
	cfg.DatabaseURL = "postgres://%zz"

	_, err := New(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}
