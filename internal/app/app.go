// Package app wires configuration, adapters, services and transports into
// the runnable server and worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/transport/dataloader"
	"github.com/heartmarshall/iati-publisher/internal/transport/graphql"
	"github.com/heartmarshall/iati-publisher/internal/transport/middleware"
	"github.com/heartmarshall/iati-publisher/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to the
// database and the search index, serves the HTTP API and shuts down
// gracefully when ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	shutdownTracing, err := SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("shutdown tracing", slog.String("error", err.Error()))
		}
	}()

	deps, err := NewDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(deps.Pool, deps.Index, BuildVersion()),
		Auth:      rest.NewAuthHandler(deps.Auth, logger),
		Publisher: rest.NewPublisherHandler(deps.Publishers, logger),
		CodeList:  rest.NewCodeListHandler(deps.CodeLists, logger),
		Activity:  rest.NewActivityHandler(deps.Activity, deps.Elements, deps.Results, deps.Balances, logger),
		Element:   rest.NewElementHandler(deps.Elements, logger),
		Result:    rest.NewResultHandler(deps.Results, logger),
		Search:    rest.NewSearchHandler(deps.Search, logger),
		GraphQL:   graphql.NewHandler(graphql.NewResolver(deps.Activity), logger),
		Loaders: &dataloader.Repos{
			Narratives: deps.Narratives,
			Balances:   deps.Balances,
		},
		Metrics:    middleware.NewMetrics(reg),
		Gatherer:   reg,
		MaxBodyLen: cfg.Server.MaxBodyBytes,
	})

	mws, stop := middlewares(cfg, logger, deps.Auth)
	defer stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      middleware.Chain(mws...)(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, logger, srv, cfg.Server.ShutdownTimeout)
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, domain.Role, error)
}

// middlewares returns the HTTP middleware chain, outermost first. CORS runs
// before Auth so that rejected requests still carry CORS headers. The
// returned func stops the rate limiter's background sweep.
func middlewares(cfg *config.Config, logger *slog.Logger, auth tokenValidator) ([]middleware.Middleware, func()) {
	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.Tracing,
		middleware.Auth(auth),
		middleware.Logger(logger),
	}
	if !cfg.RateLimit.Enabled {
		return mws, func() {}
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	return append(mws, limiter.Middleware()), limiter.Stop
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for
// at most timeout.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
