package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climaprj/internal/aggregator"
	"climaprj/internal/feed"
	"climaprj/internal/model"
	"climaprj/internal/observability"
	"climaprj/internal/source"
)

type fakeAggregator struct {
	products  []model.Product
	sources   []string
	calls     int
	panicWith any
}

func (f *fakeAggregator) Aggregate(context.Context) aggregator.Result {
	f.calls++
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return aggregator.Result{RunID: "test", Products: f.products}
}

func (f *fakeAggregator) Sources() []string { return f.sources }

func newFake() *fakeAggregator {
	return &fakeAggregator{
		sources: []string{"klimatprof.online", "breez.ru"},
		products: []model.Product{
			{
				ID: "klimatprof_0", Name: "Fujitsu ASYG09", Brand: "Fujitsu", Type: "Настенный",
				Price: decimal.NewFromInt(30000), Power: decimal.RequireFromString("2.0"),
				Source: "klimatprof.online", Features: []string{"Инвертор"},
				Synthesized: []string{model.FieldPrice, model.FieldPower},
			},
			{
				ID: "breez_0", Name: "Cooper&Hunter Nordic", Brand: "Cooper&Hunter", Type: "Настенный",
				Price: decimal.NewFromInt(42900), Power: decimal.RequireFromString("2.6"),
				Source: "breez.ru",
			},
			{
				ID: "breez_1", Name: "Hitachi RAK-18", Brand: "Hitachi", Type: "Напольный",
				Price: decimal.NewFromInt(67900), Power: decimal.RequireFromString("5.0"),
				Source: "breez.ru",
			},
		},
	}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeProducts(t *testing.T, rec *httptest.ResponseRecorder) ProductsResponse {
	t.Helper()
	var resp ProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestProducts_Get(t *testing.T) {
	agg := newFake()
	h := NewHandler(agg, nil, nil).Products()

	rec := do(t, h, http.MethodGet, "/api/products")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "Cooper&Hunter")

	resp := decodeProducts(t, rec)
	assert.Equal(t, len(resp.Products), resp.Total)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []string{"klimatprof.online", "breez.ru"}, resp.Sources)

	first := resp.Products[0]
	assert.Equal(t, "klimatprof_0", first.ID)
	assert.Equal(t, 30000.0, first.Price)
	assert.Equal(t, 2.0, first.Power)
	assert.Equal(t, "Настенный", first.Type)
	assert.Equal(t, []string{"price", "power"}, first.Synthesized)
	assert.NotNil(t, resp.Products[1].Features)
}

func TestProducts_Filters(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"brand=fujitsu", []string{"klimatprof_0"}},
		{"brand=fuji", []string{}},
		{"brand=cooper%26hunter", []string{"breez_0"}},
		{"min_price=40000", []string{"breez_0", "breez_1"}},
		{"min_price=abc&max_price=50000", []string{"klimatprof_0", "breez_0"}},
		{"type=%D0%BD%D0%B0%D0%BF%D0%BE%D0%BB%D1%8C%D0%BD%D1%8B%D0%B9", []string{"breez_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, NewHandler(newFake(), nil, nil).Products(), http.MethodGet, "/api/products?"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			resp := decodeProducts(t, rec)
			got := make([]string, len(resp.Products))
			for i, p := range resp.Products {
				got[i] = p.ID
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), resp.Total)
		})
	}
}

func TestProducts_UnparseableMinEqualsAbsent(t *testing.T) {
	h := NewHandler(newFake(), nil, nil).Products()
	withBad := do(t, h, http.MethodGet, "/api/products?min_price=abc&max_price=45000")
	without := do(t, h, http.MethodGet, "/api/products?max_price=45000")
	assert.JSONEq(t, without.Body.String(), withBad.Body.String())
}

func TestProducts_Options(t *testing.T) {
	agg := newFake()
	rec := do(t, NewHandler(agg, nil, nil).Products(), http.MethodOptions, "/api/products")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	assert.Zero(t, agg.calls)
}

func TestProducts_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			agg := newFake()
			rec := do(t, NewHandler(agg, nil, nil).Products(), method, "/api/products")

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
			assert.Zero(t, agg.calls)
		})
	}
}

func TestProducts_PanicBecomes500(t *testing.T) {
	agg := newFake()
	agg.panicWith = "unexpected upstream shape"
	m := observability.NewMetrics()

	rec := do(t, NewHandler(agg, nil, m).Products(), http.MethodGet, "/api/products")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"unexpected upstream shape"}`, rec.Body.String())
}

func TestFilters_Get(t *testing.T) {
	rec := do(t, NewHandler(newFake(), nil, nil).Filters(), http.MethodGet, "/api/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FiltersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Cooper&Hunter", "Fujitsu", "Hitachi"}, resp.Brands)
	assert.Len(t, resp.Types, 2)
	assert.Equal(t, 30000.0, resp.PriceRange.Min)
	assert.Equal(t, 67900.0, resp.PriceRange.Max)
}

func TestProducts_WithFeedSource(t *testing.T) {
	doc, err := feed.Load("")
	require.NoError(t, err)
	agg := aggregator.New([]source.Source{feed.NewBreez(doc)})

	rec := do(t, NewHandler(agg, nil, nil).Products(), http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeProducts(t, rec)
	assert.Equal(t, len(resp.Products), resp.Total)
	assert.Equal(t, []string{feed.BreezName}, resp.Sources)
	for _, p := range resp.Products {
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.GreaterOrEqual(t, p.Power, 0.0)
	}
}

func TestRoutes(t *testing.T) {
	agg := newFake()
	m := observability.NewMetrics()
	router := NewHandler(agg, nil, m).Routes()

	rec := do(t, router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/products?brand=hitachi")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeProducts(t, rec).Total)

	rec = do(t, router, http.MethodPatch, "/api/products")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "climaprj_http_requests_total"))
}

func TestRoutes_BrowserPreflight(t *testing.T) {
	tests := []struct {
		name           string
		requestHeaders string
	}{
		{"simple", ""},
		{"content type", "Content-Type"},
		{"unlisted header", "X-Requested-With"},
	}
	for _, path := range []string{"/api/products", "/api/filters"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				agg := newFake()
				router := NewHandler(agg, nil, observability.NewMetrics()).Routes()

				req := httptest.NewRequest(http.MethodOptions, path, nil)
				req.Header.Set("Origin", "https://shop.example.com")
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
				if tt.requestHeaders != "" {
					req.Header.Set("Access-Control-Request-Headers", tt.requestHeaders)
				}
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Empty(t, rec.Body.String())
				assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
				assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
				assert.Zero(t, agg.calls)
			})
		}
	}
}
