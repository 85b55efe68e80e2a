package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"climaprj/internal/model"
	"climaprj/internal/observability"
	"climaprj/internal/source"
)

const defaultSourceTimeout = 25 * time.Second

// Report describes how one source behaved during an aggregation.
type Report struct {
	Source   string
	Count    int
	Err      error
	Duration time.Duration
}

// Result is the outcome of one aggregation. Products is never nil.
type Result struct {
	RunID    string
	Products []model.Product
	Reports  []Report
}

// Aggregator queries every configured source and concatenates what they return.
type Aggregator struct {
	sources []source.Source
	timeout time.Duration
	log     *zap.Logger
	metrics *observability.Metrics
}

type Option func(*Aggregator)

// WithSourceTimeout bounds how long a single source may run.
func WithSourceTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

func New(sources []source.Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources: sources,
		timeout: defaultSourceTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.Named("aggregator")
	return a
}

// Sources returns the configured source names in invocation order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, s := range a.sources {
		names[i] = s.Name()
	}
	return names
}

// Aggregate runs all sources concurrently. A failing source is logged and
// contributes whatever it returned; it never prevents a result. Output order
// follows the configured source order, not completion order.
func (a *Aggregator) Aggregate(ctx context.Context) Result {
	runID := uuid.NewString()
	reports := make([]Report, len(a.sources))
	batches := make([][]model.Product, len(a.sources))

	var wg sync.WaitGroup
	for i, s := range a.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batches[i], reports[i] = a.collect(ctx, s)
		}()
	}
	wg.Wait()

	products := []model.Product{}
	for i, r := range reports {
		a.metrics.ObserveSource(r.Source, r.Count, r.Err, r.Duration)
		if r.Err != nil {
			a.log.Warn("source failed",
				zap.String("run_id", runID),
				zap.String("source", r.Source),
				zap.Int("products", r.Count),
				zap.Duration("duration", r.Duration),
				zap.Error(r.Err),
			)
		}
		products = append(products, batches[i]...)
	}

	a.log.Info("aggregation finished",
		zap.String("run_id", runID),
		zap.Int("sources", len(a.sources)),
		zap.Int("products", len(products)),
	)
	return Result{RunID: runID, Products: products, Reports: reports}
}

type outcome struct {
	products []model.Product
	err      error
}

// collect runs one source under its own deadline. A source that ignores
// cancellation is abandoned at the deadline and contributes nothing.
func (a *Aggregator) collect(ctx context.Context, s source.Source) ([]model.Product, Report) {
	name := s.Name()
	report := Report{Source: name}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("source %s panicked: %v", name, r)}
			}
		}()
		products, err := s.Products(ctx)
		done <- outcome{products: products, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		select {
		case out = <-done:
		default:
			out = outcome{err: fmt.Errorf("source %s: %w", name, ctx.Err())}
		}
	}

	report.Count = len(out.products)
	report.Err = out.err
	report.Duration = time.Since(start)
	return out.products, report
}
