package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/garm/internal/adapters/httpapi"
	"github.com/bnema/garm/internal/config"
	"github.com/bnema/garm/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *app) *cobra.Command {
	var listen string
	var publicURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve actor documents over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.config.Server
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("public-url") {
				if _, err := domain.NewURLBuilder(publicURL); err != nil {
					return fmt.Errorf("--public-url: %w", err)
				}
				cfg.PublicURL = publicURL
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Listen, err)
			}

			handler := httpapi.New(app.service,
				httpapi.WithLogger(app.logger.Named("http")),
				httpapi.WithPublicURL(cfg.PublicURL),
				httpapi.WithForwardedHeaders(cfg.TrustForwardedHeaders),
			)

			return runServer(ctx, listener, handler, cfg, app.logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (overrides server.listen)")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "Public base URL used in actor documents (overrides server.public_url)")

	return cmd
}

// runServer serves handler on listener until ctx is done, then drains
// in-flight requests for at most cfg.ShutdownTimeout.
func runServer(ctx context.Context, listener net.Listener, handler http.Handler, cfg config.ServerConfig, logger *zap.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(logger.Named("http.server")),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	logger.Info("serving actor documents",
		zap.String("addr", listener.Addr().String()),
		zap.String("public_url", cfg.PublicURL),
		zap.Bool("trust_forwarded_headers", cfg.TrustForwardedHeaders),
	)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
