package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// StartHTTPServer serves handler until ctx is cancelled, then shuts down
// gracefully. TLS is used when both certificate files are configured.
func StartHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	tls := cfg.HTTPSCertFile != "" && cfg.HTTPSKeyFile != ""

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddress), zap.Bool("tls", tls))
		var err error
		if tls {
			err = srv.ListenAndServeTLS(cfg.HTTPSCertFile, cfg.HTTPSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "serve http")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("ctx cancelled, stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return errors.Wrap(err, "shutdown http")
	}
	logger.Info("HTTP server stopped")
	return <-errCh
}
