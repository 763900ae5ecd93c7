// Package http implements the HTTP handlers of the product API.
// Handlers are a thin layer between the chi router and the service layer:
// they parse the request, call a service and write the response envelope.
//
// # Response Envelope
//
// Successful JSON responses share one shape:
//
//	{"success": true, "data": ...}
//
// Failures are rendered by the errors package:
//
//	{"success": false, "message": "No product found", "error_code": "NOT_FOUND"}
//
// # Handler Structure
//
// Each handler owns a group of routes and registers them on a router:
//
//	h := NewCatalogHandler(service, logger, errorHandler)
//	r.Route("/api", h.RegisterRoutes)
//
// The greeting routes are also exposed as a standalone router
// (DemoHandler.GreetingRoutes) so they can be mounted under /profile as well.
//
// # Downloads
//
// GET /api/products/export streams an xlsx workbook, or CSV with
// ?format=csv, as an attachment instead of the JSON envelope.
//
// # Error Handling
//
// Handlers never write error bodies themselves. Domain errors are passed to
// the ErrorHandler, which maps them with errors.Is and renders the envelope.
package http
