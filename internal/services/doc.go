// Package services implements the business layer between HTTP handlers and
// the product store.
//
// # Services
//
//	- CatalogService: parses ids, calls the store, and adds logging, one
//	  span per operation, catalog_operations_total{operation,outcome},
//	  product change events and xlsx/CSV export
//	- HealthService: liveness, readiness and version information
//
// # Errors
//
// CatalogService returns catalog.ErrNotFound and catalog.ErrInvalidInput
// wrapped with %w; handlers map them with errors.Is. Event publication is
// best-effort and never turns a successful store operation into a failure.
//
// # Testing
//
// Dependencies are small interfaces. MockEventPublisher records published
// events:
//
//	pub := &MockEventPublisher{}
//	pub.On("Publish", mock.Anything, EventProductCreated, mock.Anything).Return(nil)
//	svc := NewCatalogService(store, catalog.IDPolicyLenient, logger, WithPublisher(pub))
package services
