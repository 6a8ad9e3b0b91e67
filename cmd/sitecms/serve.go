package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	sitecms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and uploaded images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, cfg, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.HTTP.Addr = addr
			}
			ctx := cmd.Context()
			module.Start(ctx)
			return serve(ctx, module.Handler(), cfg.HTTP, commandLogger(module))
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides SITECMS_HTTP_ADDR)")
	return cmd
}

// serve blocks until ctx is done or the listener fails, then drains
// in-flight requests for at most cfg.ShutdownTimeout.
func serve(ctx context.Context, handler http.Handler, cfg sitecms.HTTPConfig, logger interfaces.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("http.listening", "addr", cfg.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http.shutdown", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
