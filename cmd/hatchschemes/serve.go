package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mugiliam/hatchschemesrv/internal/app"
	"github.com/mugiliam/hatchschemesrv/internal/config"
	"github.com/mugiliam/hatchschemesrv/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the schemes over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = log.Logger.WithContext(ctx)

			c := config.Config()
			a, err := app.Init(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := server.CreateNewServer()
			if err != nil {
				return err
			}
			s.MountHandlers()
			srv := &http.Server{
				Addr:              ":" + c.ServerPort,
				Handler:           s.Router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("scheme server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				log.Info().Msg("shutting down")
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("unable to shut down server")
			}
			_, err = a.SaveAll(log.Logger.WithContext(shutdownCtx))
			return err
		},
	}
}
