package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pdf2docx/internal/shared/server"
	"pdf2docx/internal/shared/telemetry"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// Serve listens on the configured port until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, app *App) error {
	ln, err := net.Listen("tcp", server.Addr(app.Config.Port))
	if err != nil {
		return err
	}
	return serveListener(ctx, app, ln)
}

func serveListener(ctx context.Context, app *App, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	telemetry.Info("Servidor rodando na porta "+app.Config.Port, map[string]any{
		"addr": ln.Addr().String(),
		"env":  app.Config.Env,
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := app.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	telemetry.Info("server.shutdown", map[string]any{"timeout_ms": timeout.Milliseconds()})
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
