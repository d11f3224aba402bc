package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/surf-report/internal/api/http"
)

// providerCallsPerReport is the most sequential provider requests one report
// can make.
const providerCallsPerReport = 13

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve reports as JSON over HTTP on PORT",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			srv := httpapi.NewApp(a.service, a.cfg.Spot.Location(), providerCallsPerReport*a.cfg.HTTPTimeout, true)

			errc := make(chan error, 1)
			go func() {
				a.logger.Info("http server listening", zap.String("port", a.cfg.Port))
				errc <- srv.Listen(":" + a.cfg.Port)
			}()

			// Wait for termination signal
			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				a.logger.Error("error during shutdown", zap.Error(err))
			}
			return nil
		},
	}
}
