package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/triprules/internal/config"
	httpAdapter "github.com/aretw0/triprules/pkg/adapters/http"
	"github.com/aretw0/triprules/pkg/observability"
)

// NewServer builds the itinerary backend described by cfg. The backend always
// renders with the local templates.
func NewServer(cfg *config.Config, logger *slog.Logger) (*http.Server, error) {
	gen, err := NewLocalGenerator(cfg.Generator.Catalog, logger)
	if err != nil {
		return nil, err
	}

	opts := []httpAdapter.Option{
		httpAdapter.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		httpAdapter.WithLogger(logger),
	}
	if cfg.Server.Metrics {
		opts = append(opts, httpAdapter.WithMetrics(observability.NewMetrics()))
	}

	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           httpAdapter.NewHandler(gen, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Serve runs srv on ln until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting itinerary server", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		<-serverErrors
		logger.Info("Server stopped gracefully")
		return nil
	}
}

// RunServer listens on the configured address and serves until SIGINT or SIGTERM.
func RunServer(parent context.Context, cfg *config.Config, logger *slog.Logger) error {
	srv, err := NewServer(cfg, logger)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	sigCtx := NewSignalContext(parent)
	defer sigCtx.Cancel()
	return Serve(sigCtx, srv, ln, cfg.Server.ShutdownTimeout, logger)
}
