package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xraph/locator"
	"github.com/xraph/locator/bootstrap"
	"github.com/xraph/locator/internal/demo"
	"github.com/xraph/locator/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo controllers until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}

			l, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return multierr.Append(serve(ctx, cfg.Server.Addr, l), l.Close())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")

	return cmd
}

func serve(ctx context.Context, addr string, l locator.Locator) error {
	logger, err := locator.Resolve[*zap.Logger](l)
	if err != nil {
		return err
	}

	if err := demo.Register(l.Batch()); err != nil {
		return err
	}

	router := web.NewRouter(l)
	web.NewControllerFactory(logger).Mount(router, demo.Routes()...)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
