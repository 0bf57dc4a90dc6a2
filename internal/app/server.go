package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start launches both servers and returns a channel closed on shutdown.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	a.goroutine.Go(a.ctx, func(context.Context) error {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}

		return nil
	})

	a.goroutine.Go(a.ctx, func(context.Context) error {
		ln, err := a.vaultListener()
		if err != nil {
			slog.Error("failed to listen on vault socket", "socket", a.vaultSocket, "error", err)
			os.Exit(1)
		}

		slog.Info("vault server listening", "socket", a.vaultSocket)

		if err := a.vaultServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve vault server", "error", err)
			os.Exit(1)
		}

		return nil
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// vaultListener binds the unix domain socket, replacing a stale socket file
// left by a previous run. Socket permissions restrict the surface to the
// local user.
func (a *App) vaultListener() (net.Listener, error) {
	if err := os.Remove(a.vaultSocket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	ln, err := net.Listen("unix", a.vaultSocket)
	if err != nil {
		return nil, err
	}

	if err := os.Chmod(a.vaultSocket, 0o600); err != nil {
		ln.Close()

		return nil, err
	}

	return ln, nil
}

// Serve runs the HTTP server on the provided listener for tests.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- a.httpServer.Serve(l)
		close(errChan)
	}()

	return errChan
}

// Stop gracefully shuts down both servers and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}
	if err := a.vaultServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "Vault Server", "error", err)
	}

	if err := os.Remove(a.vaultSocket); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.ErrorContext(ctx, "failed to remove vault socket", "socket", a.vaultSocket, "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
