package http

import (
	"context"
	"io"

	"productapi/internal/catalog"
	"productapi/internal/exporter"
)

// CatalogServiceInterface defines the product operations the handlers use
type CatalogServiceInterface interface {
	List(ctx context.Context) []catalog.Record
	Get(ctx context.Context, rawID string) (catalog.Record, error)
	Update(ctx context.Context, rawID string, patch catalog.Patch) (catalog.Record, error)
	Delete(ctx context.Context, rawID string) ([]catalog.Record, error)
	Create(ctx context.Context, rec catalog.Record) catalog.Record
	Export(ctx context.Context, w io.Writer, format exporter.Format) error
}
