package command

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/communityboard/board/internal/api"
	"github.com/communityboard/board/pkg/logger"
)

// Server timeouts.
const (
	readHeaderTimeout = 2 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed the administrator if needed and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.WithoutCancel(cmd.Context())); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if err := a.seedAdmin(cmd.Context()); err != nil {
				a.log.Error().Err(err).Msg("admin seeding failed")
				return err
			}

			router := api.NewRouter(api.Deps{
				Auth:         a.auth,
				Posts:        a.posts,
				Authn:        a.gate,
				Checks:       a.checks,
				Logger:       logger.Component("http"),
				AllowOrigins: a.cfg.CORSAllowOrigins,
			})

			var lc net.ListenConfig
			listener, err := lc.Listen(cmd.Context(), "tcp", a.cfg.Addr())
			if err != nil {
				return err
			}

			srv := &http.Server{
				Handler:           router,
				ReadHeaderTimeout: readHeaderTimeout,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
			}

			grp, ctx := errgroup.WithContext(cmd.Context())
			grp.Go(func() error {
				a.log.Info().Str("address", listener.Addr().String()).Msg("starting HTTP server")
				err := srv.Serve(listener)
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			})
			grp.Go(func() error {
				<-ctx.Done()
				a.log.Info().Msg("shutting down HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return grp.Wait()
		},
	}
}
