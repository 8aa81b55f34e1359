package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Siddarth2230/shortlink/internal/config"
	"github.com/Siddarth2230/shortlink/internal/handler"
	"github.com/Siddarth2230/shortlink/internal/middleware"
	"github.com/Siddarth2230/shortlink/internal/repository"
	"github.com/Siddarth2230/shortlink/internal/service"
	"github.com/Siddarth2230/shortlink/pkg/cache"
	"github.com/Siddarth2230/shortlink/pkg/idgen"
	"github.com/Siddarth2230/shortlink/pkg/metrics"
)

// ShutdownTimeout bounds how long in-flight requests get after a stop signal.
const ShutdownTimeout = 10 * time.Second

// App owns everything built from a Config. Close releases it.
type App struct {
	cfg       *config.Config
	Store     repository.LinkStore
	Redis     *redis.Client // nil when cache.redis_addr is empty
	Shortener *service.Shortener
	Resolver  *service.Resolver

	l2 *cache.RedisCache // nil without redis
}

// Build wires store, caches, generator and services from cfg.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := repository.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app := &App{cfg: cfg, Store: store}

	if m, ok := store.(repository.Migrator); ok && cfg.Store.AutoMigrate {
		if err := m.Migrate(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("migrate store: %w", err)
		}
	}
	log.Printf("link store ready (driver=%s)", cfg.Store.Driver)

	if cfg.Cache.RedisAddr != "" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:        cfg.Cache.RedisAddr,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		})
		// Try pinging Redis so we fail fast if it's down
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		log.Printf("redis connected at %s", cfg.Cache.RedisAddr)
	}

	gen, err := idgen.New(idgen.Options{
		Strategy: cfg.Shortener.Generator,
		Length:   cfg.Shortener.CodeLength,
		NodeID:   cfg.Shortener.NodeID,
		Redis:    app.Redis,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("build generator: %w", err)
	}

	var l1 *cache.LRU[string]
	if cfg.Cache.LRUSize > 0 {
		l1 = cache.NewLRU[string](cfg.Cache.LRUSize)
	}
	if app.Redis != nil {
		app.l2 = cache.NewRedisCache(app.Redis, "shortlink:link:", cfg.Cache.RedisTTL)
	}

	app.Shortener = service.NewShortener(store, gen, cfg.Shortener.MaxAttempts)
	app.Resolver = service.NewResolver(store, l1, app.l2)
	return app, nil
}

// Handler returns the full middleware chain around the router.
func (a *App) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.MetricsMiddleware)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	h := handler.NewURLHandler(a.Shortener, a.Resolver, a.cfg.Server.BaseURL)
	if a.l2 != nil {
		h.AddHealthCheck("redis", a.l2.Ping)
	}
	h.Register(r)

	cors := handlers.CORS(
		handlers.AllowedOrigins(a.cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))

	return handlers.CombinedLoggingHandler(os.Stdout, recovery(cors(r)))
}

// Run listens on the configured port until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then drains
// in-flight requests for up to ShutdownTimeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Println("server stopped")
	return nil
}

// Close releases the store and the redis client.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
