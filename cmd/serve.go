package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/vowfolio/internal/server"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/store"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// newMockServer builds the mock gallery API from the [server] config section.
func (r *Runner) newMockServer() (http.Handler, error) {
	s, err := store.NewWithDataset(r.logger, store.MockDataset())
	if err != nil {
		return nil, err
	}

	cfg := r.config.Server
	return server.New(server.Options{
		Store:    s,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL(),
		Admin: services.Credentials{
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		},
		Logger: r.logger,
	})
}

// Serve runs the mock gallery API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	handler, err := r.newMockServer()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		r.logger.Info("mock API listening", "addr", addr, "admin", r.config.Server.AdminEmail)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
