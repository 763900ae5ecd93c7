package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"productapi/internal/catalog"
	"productapi/internal/config"
	apierrors "productapi/internal/errors"
	"productapi/internal/infrastructure"
	customMiddleware "productapi/internal/middleware"
	"productapi/internal/services"
	handlers "productapi/internal/transport/http"
	ws "productapi/internal/websocket"
)

const (
	AppName = "productapi"
	VERSION = infrastructure.ServiceVersion
)

// BuildTime is set at compile time
var BuildTime = time.Now().Format(time.RFC3339)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Store          *catalog.Store
	CatalogService *services.CatalogService
	HealthService  *services.HealthService
	WebSocketHub   *ws.Hub
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	WebFS          fs.FS // Embedded templates/ and static/ directories

	errorHandler *apierrors.ErrorHandler
	upgrader     websocket.Upgrader
	stopOnce     sync.Once
	stopErr      error
}

// NewApplication loads configuration from file and environment, initializes
// the global logger and builds the application.
func NewApplication(webFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging,
		slog.String("service", cfg.Telemetry.ServiceName),
		slog.String("version", VERSION),
		slog.String("environment", cfg.Telemetry.Environment))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger, webFS)
}

// New builds an application from an explicit configuration and logger
func New(cfg *config.Config, logger *slog.Logger, webFS fs.FS) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", cfg.Server.Port))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		WebFS:         webFS,
		errorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		app.WebSocketHub.Stop()
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices builds the store, the chat hub and the services on top
func (a *Application) initializeServices() error {
	policy, err := catalog.ParseIDPolicy(a.Config.Catalog.IDPolicy)
	if err != nil {
		return err
	}

	seed := catalog.DefaultSeed()
	if a.Config.Catalog.SeedFile != "" {
		seed, err = catalog.LoadSeedFile(a.Config.Catalog.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		a.Logger.Info("Loaded product seed file",
			slog.String("path", a.Config.Catalog.SeedFile),
			slog.Int("products", len(seed)))
	}
	a.Store = catalog.NewStore(seed)

	hub := ws.NewHub(a.Logger, a.Metrics)
	hub.Start()
	a.WebSocketHub = hub

	a.CatalogService = services.NewCatalogService(a.Store, policy, a.Logger,
		services.WithPublisher(hub),
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer),
	)

	a.HealthService = services.NewHealthService(VERSION, BuildTime, a.CatalogService, hub, a.Logger)

	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		CheckOrigin:     a.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			apiErr := apierrors.ErrWebSocketUpgrade.WithDetails(reason.Error())
			apiErr.StatusCode = status
			apierrors.WriteError(w, apiErr)
		},
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	// Minimal middleware only: the full stack wraps the ResponseWriter
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Get("/ws", a.handleWebSocket)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	pageHandler, err := a.newPageHandler()
	if err != nil {
		return err
	}

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	catalogHandler := handlers.NewCatalogHandler(a.CatalogService, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	demoHandler := handlers.NewDemoHandler(customMiddleware.NewValidator(), a.Logger)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → CORS
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.errorHandler))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}

		r.Use(customMiddleware.AuditLog(a.Logger))

		// Only the HTML pages and static assets are rate limited
		if pageHandler != nil {
			r.Group(func(r chi.Router) {
				if a.Config.Security.RateLimit.Enabled {
					r.Use(customMiddleware.NewRateLimiter(
						a.Config.Security.RateLimit.RPS,
						a.Config.Security.RateLimit.Burst,
						a.Logger,
						a.Metrics,
					).Handler)
				}
				pageHandler.RegisterRoutes(r)
			})
		}
		demoHandler.RegisterRoutes(r)
		r.Mount("/profile", demoHandler.GreetingRoutes())

		r.Route("/api", func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

			catalogHandler.RegisterRoutes(r)
			healthHandler.RegisterRoutes(r)
			demoHandler.RegisterAPIRoutes(r)
		})
	})

	a.Router = r
	return nil
}

// newPageHandler resolves the template and static filesystems. Directory
// overrides from config win over the embedded copies. Without templates the
// pages are not served.
func (a *Application) newPageHandler() (*handlers.PageHandler, error) {
	templates := a.webDir(a.Config.Web.TemplatesDir, "templates")
	if templates == nil {
		a.Logger.Warn("No page templates available, HTML pages disabled")
		return nil, nil
	}
	static := a.webDir(a.Config.Web.StaticDir, "static")

	h, err := handlers.NewPageHandler(templates, static, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	return h, nil
}

func (a *Application) webDir(override, embedded string) fs.FS {
	if override != "" {
		return os.DirFS(override)
	}
	if a.WebFS == nil {
		return nil
	}
	sub, err := fs.Sub(a.WebFS, embedded)
	if err != nil {
		return nil
	}
	if _, err := fs.Stat(sub, "."); err != nil {
		return nil
	}
	return sub
}

// corsConfig returns CORS configuration from the security section
func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
}

// checkOrigin admits same-origin and configured origins on /ws
func (a *Application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}

	if a.Config.Security.EnableCORS {
		for _, allowed := range a.Config.Security.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
	}

	a.Logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", a.Config.Security.AllowedOrigins))
	return false
}

// handleWebSocket upgrades the connection and hands it to the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := customMiddleware.GetRequestID(ctx)

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the request
		a.Logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := ws.NewClient(a.WebSocketHub, ws.NewConnectionWrapper(conn), a.Logger,
		ws.WithTraceID(reqID),
		ws.WithKeepalive(a.Config.WebSocket.PingPeriod, a.Config.WebSocket.PongWait),
	)
	if err := client.Serve(); err != nil {
		a.Logger.WarnContext(ctx, "WebSocket client rejected",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		return
	}

	a.Logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("request_id", reqID))
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		_ = a.Stop(context.Background())
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or the server
// fails, then shuts everything down.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "Application started",
			slog.String("address", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(ctx, "Shutdown requested")
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application. Only the first call does any work.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.Logger.InfoContext(ctx, "Shutting down application")

		shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}

		a.WebSocketHub.Stop()

		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}

		a.Logger.InfoContext(ctx, "Application shutdown complete")
		a.stopErr = errors.Join(errs...)
	})
	return a.stopErr
}
