package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"productapi/internal/catalog"
	"productapi/internal/exporter"
	"productapi/internal/infrastructure"
)

// Product change events sent to subscribers
const (
	EventProductCreated = "product:created"
	EventProductUpdated = "product:updated"
	EventProductDeleted = "product:deleted"
)

// EventPublisher receives product change events. The chat hub implements it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// DeletedEvent is the payload of product:deleted
type DeletedEvent struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// CatalogService wraps the product store with id parsing, logging, tracing,
// metrics and change events. The store itself stays free of all four.
type CatalogService struct {
	store     *catalog.Store
	policy    catalog.IDPolicy
	publisher EventPublisher
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// CatalogOption configures a CatalogService
type CatalogOption func(*CatalogService)

// WithPublisher sets the receiver of product change events
func WithPublisher(p EventPublisher) CatalogOption {
	return func(s *CatalogService) { s.publisher = p }
}

// WithMetrics records catalog_operations_total on m
func WithMetrics(m *infrastructure.BusinessMetrics) CatalogOption {
	return func(s *CatalogService) { s.metrics = m }
}

// WithTracer overrides the global tracer
func WithTracer(t trace.Tracer) CatalogOption {
	return func(s *CatalogService) { s.tracer = t }
}

// NewCatalogService creates a catalog service over store
func NewCatalogService(store *catalog.Store, policy catalog.IDPolicy, logger *slog.Logger, opts ...CatalogOption) *CatalogService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	s := &CatalogService{
		store:  store,
		policy: policy,
		tracer: otel.Tracer(infrastructure.MeterName + ".catalog"),
		logger: logger.With(slog.String("component", "catalog_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IDPolicy reports how malformed ids are treated
func (s *CatalogService) IDPolicy() catalog.IDPolicy {
	return s.policy
}

// Count returns the number of stored products
func (s *CatalogService) Count() int {
	return s.store.Len()
}

// List returns every product in insertion order
func (s *CatalogService) List(ctx context.Context) []catalog.Record {
	ctx, span := s.start(ctx, "list")
	defer span.End()

	records := s.store.List()
	span.SetAttributes(attribute.Int("product.count", len(records)))
	s.record(ctx, "list", nil)
	return records
}

// Get returns the first product whose id matches rawID
func (s *CatalogService) Get(ctx context.Context, rawID string) (catalog.Record, error) {
	ctx, span := s.start(ctx, "get", attribute.String("product.id", rawID))
	defer span.End()

	id, err := catalog.ParseID(rawID, s.policy)
	if err != nil {
		s.record(ctx, "get", err)
		return catalog.Record{}, err
	}

	rec, err := s.store.Get(id)
	s.record(ctx, "get", err)
	return rec, err
}

// Update applies patch to the first product whose id matches rawID
func (s *CatalogService) Update(ctx context.Context, rawID string, patch catalog.Patch) (catalog.Record, error) {
	ctx, span := s.start(ctx, "update", attribute.String("product.id", rawID))
	defer span.End()

	id, err := catalog.ParseID(rawID, s.policy)
	if err != nil {
		s.record(ctx, "update", err)
		return catalog.Record{}, err
	}

	rec, err := s.store.Update(id, patch)
	s.record(ctx, "update", err)
	if err != nil {
		return catalog.Record{}, err
	}

	// Nothing changed, so there is nothing to announce
	if patch.IsEmpty() {
		s.logger.DebugContext(ctx, "empty product update", slog.Int("id", rec.ID))
		return rec, nil
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.Int("id", rec.ID),
		slog.Bool("name_changed", patch.Name != nil),
		slog.Bool("price_changed", patch.Price != nil))
	s.publish(ctx, EventProductUpdated, rec)
	return rec, nil
}

// Delete removes every product whose id matches rawID and returns the rest.
// Only the strict id policy can make it fail.
func (s *CatalogService) Delete(ctx context.Context, rawID string) ([]catalog.Record, error) {
	ctx, span := s.start(ctx, "delete", attribute.String("product.id", rawID))
	defer span.End()

	id, err := catalog.ParseID(rawID, s.policy)
	if err != nil {
		s.record(ctx, "delete", err)
		return nil, err
	}

	before := s.store.Len()
	remaining := s.store.Delete(id)
	s.record(ctx, "delete", nil)

	if removed := before - len(remaining); removed > 0 {
		s.logger.InfoContext(ctx, "product deleted",
			slog.String("id", id.String()),
			slog.Int("removed", removed))
		s.publish(ctx, EventProductDeleted, DeletedEvent{ID: id.String(), Remaining: len(remaining)})
	}
	return remaining, nil
}

// Create appends rec as given
func (s *CatalogService) Create(ctx context.Context, rec catalog.Record) catalog.Record {
	ctx, span := s.start(ctx, "create", attribute.Int("product.id", rec.ID))
	defer span.End()

	created := s.store.Create(rec)
	s.record(ctx, "create", nil)

	s.logger.InfoContext(ctx, "product created",
		slog.Int("id", created.ID),
		slog.String("name", created.Name))
	s.publish(ctx, EventProductCreated, created)
	return created
}

// Export writes the current collection to w in the given format
func (s *CatalogService) Export(ctx context.Context, w io.Writer, format exporter.Format) error {
	ctx, span := s.start(ctx, "export", attribute.String("export.format", string(format)))
	defer span.End()

	records := s.store.List()
	err := exporter.Write(w, format, records)
	s.record(ctx, "export", err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	s.logger.InfoContext(ctx, "products exported",
		slog.String("format", string(format)),
		slog.Int("count", len(records)))
	return nil
}

func (s *CatalogService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("catalog.operation", op))
	return s.tracer.Start(ctx, "catalog."+op, trace.WithAttributes(attrs...))
}

// record counts the operation and tags the span with its outcome
func (s *CatalogService) record(ctx context.Context, op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, catalog.ErrInvalidInput):
		outcome = "invalid"
	default:
		outcome = "error"
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("catalog.outcome", outcome))
	infrastructure.RecordCatalogOperation(ctx, s.metrics, op, outcome)

	if outcome != "ok" {
		s.logger.DebugContext(ctx, "catalog operation did not succeed",
			slog.String("operation", op),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()))
	}
}

// publish is best-effort: a failing subscriber never fails the operation
func (s *CatalogService) publish(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, eventType, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product event",
			slog.String("event", eventType),
			slog.String("error", err.Error()))
		return
	}
	if s.metrics != nil {
		s.metrics.CatalogEventsPublished.Add(ctx, 1)
	}
}
