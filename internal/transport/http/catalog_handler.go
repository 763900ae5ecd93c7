package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"productapi/internal/catalog"
	apierrors "productapi/internal/errors"
	"productapi/internal/exporter"
	apimiddleware "productapi/internal/middleware"
)

// CreatedMessage accompanies a 201 from the create route
const CreatedMessage = "Product added successfully"

// CatalogHandler handles the product REST routes
type CatalogHandler struct {
	service      CatalogServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CatalogHandler {
	return &CatalogHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "catalog_handler")),
		errorHandler: errorHandler,
	}
}

// RegisterRoutes adds the product routes to r, which is mounted at /api
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Post("/create-product", h.CreateProduct)

		// Only the known versions are routed; other segments fall through to 404
		for _, v := range catalog.Versions() {
			r.Get("/"+string(v)+"/products", h.ListVersion(v))
		}

		r.With(apimiddleware.APIVersion).Get("/newproducts", h.ListByHeader)
	})

	r.Get("/products/export", h.ExportProducts)
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.service.List(r.Context()))
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rec)
}

// UpdateProduct handles PUT /api/products/{id}. Fields absent from the body
// or set to null are left unchanged.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch catalog.Patch
	if err := decodeJSON(r, &patch); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	rec, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rec)
}

// DeleteProduct handles DELETE /api/products/{id} and answers with the
// remaining collection, whether or not anything matched.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	remaining, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, remaining)
}

// CreateProduct handles POST /api/create-product. The record is stored as
// given; ids are not checked for uniqueness.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var rec catalog.Record
	if err := decodeJSON(r, &rec); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	created := h.service.Create(r.Context(), rec)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, DataResponse{Success: true, Message: CreatedMessage, Data: created})
}

// ListVersion returns the handler for GET /api/{version}/products
func (h *CatalogHandler) ListVersion(v catalog.Version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, ok := catalog.ListByPathVersion(v)
		if !ok {
			h.errorHandler.NotFound(w, r)
			return
		}
		respond(w, r, http.StatusOK, records)
	}
}

// ListByHeader handles GET /api/newproducts. The version comes from the
// api-version header; unknown versions are echoed with an empty list.
func (h *CatalogHandler) ListByHeader(w http.ResponseWriter, r *http.Request) {
	version, records := catalog.ListByHeaderVersion(string(apimiddleware.VersionFromContext(r.Context())))
	if !version.IsKnown() {
		h.logger.DebugContext(r.Context(), "unknown listing version requested",
			slog.String("version", string(version)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
	render.JSON(w, r, VersionedResponse{Success: true, Version: version, Data: records})
}

// ExportProducts handles GET /api/products/export. The format query
// parameter selects xlsx (default) or csv.
func (h *CatalogHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest.WithDetails(err.Error()))
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
		return
	}

	filename := "products-" + time.Now().UTC().Format("20060102-150405") + format.Extension()
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
