package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"productapi/internal/catalog"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to the failure envelope and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	apiErr := ToAPIError(err)

	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", apiErr.StatusCode),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	resp := NewErrorResponse(apiErr)
	resp.RequestID = reqID
	render.Render(w, r, resp)
}

// ToAPIError maps domain and context errors onto API errors
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, catalog.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, catalog.ErrInvalidInput):
		return ErrInvalidID.WithDetails(err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrRequestTimeout
	default:
		return ErrInternalServer
	}
}

// HandlePanic answers a recovered panic with a 500 envelope
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	stack := debug.Stack()
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(stack)),
	)

	apiErr := ErrInternalServer
	if h.includeStack {
		apiErr = ErrPanic(recovered, stack)
	}

	resp := NewErrorResponse(apiErr)
	resp.RequestID = reqID
	render.Render(w, r, resp)
}

// NotFound answers unrouted paths
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	resp := NewErrorResponse(ErrRouteNotFound)
	resp.RequestID = middleware.GetReqID(r.Context())
	render.Render(w, r, resp)
}

// MethodNotAllowed answers a known path with an unsupported method
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	resp := NewErrorResponse(ErrMethodNotAllowed.WithDetails(
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method)))
	resp.RequestID = middleware.GetReqID(r.Context())
	render.Render(w, r, resp)
}
