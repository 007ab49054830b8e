package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/carton-fit/internal/api"
	"github.com/eugenenazirov/carton-fit/internal/catalog"
	"github.com/eugenenazirov/carton-fit/internal/config"
	"github.com/eugenenazirov/carton-fit/internal/metrics"
	"github.com/eugenenazirov/carton-fit/internal/selector"
	"github.com/eugenenazirov/carton-fit/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage   storage.Storage
	evaluator *selector.Evaluator
	metrics   *metrics.Collector
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	cat, err := LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("source", catalogSource(cfg.CatalogFile)),
		zap.Int("cartons", len(cat.Cartons)),
		zap.Int("packages", len(cat.Packages)),
	)

	store, err := storage.NewMemoryStorageFrom(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to apply catalog: %w", err)
	}

	collector := metrics.New()
	evaluator := selector.New(
		selector.WithPoolSize(cfg.PoolSize),
		selector.WithMaxAttempts(cfg.MaxAttempts),
		selector.WithWorkers(cfg.Workers),
		selector.WithLogger(logger.Named("selector")),
		selector.WithRecorder(collector),
	)

	handler := api.NewHandler(evaluator, store)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(collector),
	)

	server := NewServer(cfg, BuildRootHandler(apiRouter, collector.Handler()))

	return &App{
		storage:   store,
		evaluator: evaluator,
		metrics:   collector,
		handler:   handler,
		router:    apiRouter,
		logger:    logger,
		server:    server,
	}, nil
}

// LoadCatalog reads the catalog file, or returns the built-in catalog when
// path is empty. Relative paths are also looked up from parent directories.
func LoadCatalog(path string) (catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default(), nil
	}

	resolved, err := resolveProjectPath(path)
	if err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.Load(resolved)
}

func catalogSource(path string) string {
	if strings.TrimSpace(path) == "" {
		return "built-in"
	}
	return path
}

// BuildRootHandler mounts the API under /api/ and the metrics endpoint.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// resolveProjectPath returns path unchanged when it exists or is absolute,
// otherwise walks up the directory tree looking for it.
func resolveProjectPath(relative string) (string, error) {
	if filepath.IsAbs(relative) {
		return relative, nil
	}
	if _, err := os.Stat(relative); err == nil {
		return relative, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
