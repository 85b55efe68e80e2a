package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"climaprj/internal/aggregator"
	"climaprj/internal/filter"
	"climaprj/internal/observability"
)

// Aggregator is what the handlers need from aggregator.Aggregator.
type Aggregator interface {
	Aggregate(ctx context.Context) aggregator.Result
	Sources() []string
}

type Handler struct {
	agg     Aggregator
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewHandler(agg Aggregator, log *zap.Logger, metrics *observability.Metrics) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{agg: agg, log: log.Named("api"), metrics: metrics}
}

// Products serves the aggregated, filtered product list.
func (h *Handler) Products() http.HandlerFunc {
	return h.endpoint("/api/products", func(r *http.Request) any {
		res := h.agg.Aggregate(r.Context())
		products := filter.Apply(res.Products, filter.ParseCriteria(r.URL.Query()))
		return NewProductsResponse(products, h.agg.Sources())
	})
}

// Filters serves the brands, types and price range of the unfiltered list.
func (h *Handler) Filters() http.HandlerFunc {
	return h.endpoint("/api/filters", func(r *http.Request) any {
		res := h.agg.Aggregate(r.Context())
		return NewFiltersResponse(filter.BuildFacets(res.Products), h.agg.Sources())
	})
}

// endpoint wraps a GET body with the method dispatch shared by every route:
// OPTIONS answers with CORS headers only, anything else but GET is rejected,
// and a panic becomes a 500 instead of killing the connection.
func (h *Handler) endpoint(path string, get func(r *http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		defer func() { h.metrics.ObserveRequest(path, r.Method, code) }()
		defer func() {
			if rec := recover(); rec != nil {
				code = http.StatusInternalServerError
				h.log.Error("request failed",
					zap.String("path", path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Any("panic", rec),
				)
				writeJSON(w, code, ErrorResponse{Error: fmt.Sprint(rec)})
			}
		}()

		w.Header().Set("Access-Control-Allow-Origin", "*")

		switch r.Method {
		case http.MethodOptions:
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(code)
		case http.MethodGet:
			writeJSON(w, code, get(r))
		default:
			code = http.StatusMethodNotAllowed
			writeJSON(w, code, ErrorResponse{Error: "Method not allowed"})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}
