package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"productapi/internal/catalog"
	apierrors "productapi/internal/errors"
	apimiddleware "productapi/internal/middleware"
)

// Plain-text bodies of the routing demos
const (
	HelloWorldText = "Hello, World!"
	SubmitText     = "Form submitted!"
	UpdateText     = "Data updated!"
	DeleteText     = "Data deleted!"
	GreetingText   = "Hello from the greeting router"
	GetDataText    = "Here is your data"
)

// DemoHandler serves the routing demonstrations: path and query parameters,
// verb routes, a reusable sub-router, the bootcamp listings and user creation.
type DemoHandler struct {
	validator *apimiddleware.Validator
	logger    *slog.Logger
}

// NewDemoHandler creates a new demo handler
func NewDemoHandler(validator *apimiddleware.Validator, logger *slog.Logger) *DemoHandler {
	return &DemoHandler{
		validator: validator,
		logger:    logger.With(slog.String("component", "demo_handler")),
	}
}

// RegisterRoutes adds the root-level demo routes to r
func (h *DemoHandler) RegisterRoutes(r chi.Router) {
	r.Get("/hello-world", h.HelloWorld)
	r.Get("/product/{id}/{name}", h.ProductParams)
	r.Get("/search", h.Search)
	r.Post("/submit", h.text(SubmitText))
	r.Put("/update", h.text(UpdateText))
	r.Delete("/delete", h.text(DeleteText))
	r.Post("/user", h.CreateUser)
}

// RegisterAPIRoutes adds the demo routes that live under /api
func (h *DemoHandler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/v1/bootcamps", h.Bootcamps)
	r.Get("/v1/languages", h.Languages)
	h.greetingRoutes(r)
}

// GreetingRoutes returns the greeting sub-router. The same routes are also
// registered under /api by RegisterAPIRoutes.
func (h *DemoHandler) GreetingRoutes() chi.Router {
	r := chi.NewRouter()
	h.greetingRoutes(r)
	return r
}

func (h *DemoHandler) greetingRoutes(r chi.Router) {
	r.Get("/hello", h.text(GreetingText))
	r.Get("/getData", h.text(GetDataText))
}

func (h *DemoHandler) text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondText(w, http.StatusOK, body)
	}
}

// HelloWorld handles GET /hello-world
func (h *DemoHandler) HelloWorld(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, HelloWorldText)
}

// ProductParams handles GET /product/{id}/{name}
func (h *DemoHandler) ProductParams(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, fmt.Sprintf("Product id is %s and name is %s",
		chi.URLParam(r, "id"), chi.URLParam(r, "name")))
}

// Search handles GET /search?title=&price=
func (h *DemoHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondText(w, http.StatusOK, fmt.Sprintf("You searched for : %s with price %s",
		q.Get("title"), q.Get("price")))
}

// Bootcamps handles GET /api/v1/bootcamps
func (h *DemoHandler) Bootcamps(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, catalog.Bootcamps())
}

// Languages handles GET /api/v1/languages
func (h *DemoHandler) Languages(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, catalog.Languages())
}

// CreateUserRequest is the body of POST /user
type CreateUserRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateUser handles POST /user. Both outcomes are plain text.
func (h *DemoHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondText(w, http.StatusBadRequest, apierrors.ErrInvalidRequest.Message)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		h.logger.DebugContext(r.Context(), "user rejected", slog.String("error", err.Error()))
		respondText(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "user created", slog.String("name", req.Name))
	respondText(w, http.StatusCreated, fmt.Sprintf("User %s created", req.Name))
}
