// Package inventory implements product management, sale recording and
// revenue reporting on top of a storage.Store.
package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/xenking/inventory-pos/internal/storage"
)

const instrumentationName = "github.com/xenking/inventory-pos/internal/domain/inventory"

// Options configures optional Service dependencies.
type Options struct {
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.MeterProvider == nil {
		o.MeterProvider = metricnoop.NewMeterProvider()
	}
	if o.TracerProvider == nil {
		o.TracerProvider = tracenoop.NewTracerProvider()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Service encapsulates inventory business logic. Every operation re-reads the
// store; mutations are serialized so concurrent requests cannot lose updates
// or oversell.
type Service struct {
	store storage.Store
	now   func() time.Time

	// mu guards the load, mutate, save cycle.
	mu sync.Mutex

	tracer       trace.Tracer
	salesCounter metric.Int64Counter
	unitsCounter metric.Int64Counter
	revenue      metric.Float64Counter
}

// NewService creates a Service persisting to store.
func NewService(store storage.Store, opts Options) (*Service, error) {
	opts.setDefaults()
	meter := opts.MeterProvider.Meter(instrumentationName)

	s := &Service{
		store:  store,
		now:    opts.Now,
		tracer: opts.TracerProvider.Tracer(instrumentationName),
	}

	var err error
	if s.salesCounter, err = meter.Int64Counter("pos.sales.recorded",
		metric.WithDescription("Number of recorded sales"),
	); err != nil {
		return nil, errors.Wrap(err, "sales counter")
	}
	if s.unitsCounter, err = meter.Int64Counter("pos.sales.units",
		metric.WithDescription("Number of units sold"),
	); err != nil {
		return nil, errors.Wrap(err, "units counter")
	}
	if s.revenue, err = meter.Float64Counter("pos.sales.revenue",
		metric.WithDescription("Revenue of recorded sales"),
	); err != nil {
		return nil, errors.Wrap(err, "revenue counter")
	}
	return s, nil
}

// load reads a fresh copy of the document.
func (s *Service) load(ctx context.Context) (*storage.Document, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	return doc, nil
}

// mutate runs fn against a fresh document and persists the result unless fn
// fails.
func (s *Service) mutate(ctx context.Context, fn func(doc *storage.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return errors.Wrap(err, "save store")
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "inventory."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
