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

	"github.com/desertthunder/ponyseeo/internal/repositories"
	"github.com/desertthunder/ponyseeo/internal/server"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"github.com/desertthunder/ponyseeo/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve starts the web gallery and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("dev") {
		r.config.Server.Dev = true
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	if r.google == nil {
		return fmt.Errorf("%w: google client_id and client_secret must be set in %s", shared.ErrMissingCredentials, r.configPath)
	}

	var recorder server.LoginRecorder
	if db, _, err := r.openDatabase(); err != nil {
		r.logger.Warn("sign-in ledger disabled", "error", err)
	} else {
		defer db.Close()
		recorder = repositories.NewUserRepository(db)
	}

	addr := r.config.Server.Addr()
	if a := cmd.String("addr"); a != "" {
		addr = a
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r.newRouter(recorder),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("serving gallery", "addr", addr, "strategy", r.media.Name(), "dev", r.config.Server.Dev)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

// newRouter wires every gallery route. recorder may be nil.
func (r *Runner) newRouter(recorder server.LoginRecorder) *server.BasicRouter {
	cfg := r.config.Server

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.RateLimit(server.NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst, 0)),
		server.Gate(),
	)

	router.Handler(server.HealthHandler{})
	router.Handler(server.NewAuthHandler(server.AuthOptions{
		OAuth:    r.google,
		BaseURL:  cfg.BaseURL,
		Secure:   !cfg.Dev,
		Logger:   r.logger,
		Recorder: recorder,
	}))
	router.Handler(server.NewMediaHandler(r.media, r.logger))
	router.Handler(web.NewPageHandler(r.media, cfg.BaseURL, r.logger))

	return router
}
