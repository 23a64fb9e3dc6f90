package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/logging"
	"github.com/dougwollison/index-pages/internal/web/router"
	"github.com/dougwollison/index-pages/internal/web/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and the lookup API over HTTP",
		Long: `Start the HTTP server.

Every path not under /api is resolved the way the site would route it:
index page URLs are rewritten into archive requests and the resulting
query is returned as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			closeApp := sync.OnceValue(a.Close)
			defer closeApp() //nolint:errcheck

			srvConfig := server.DefaultConfig(router.New(a, router.DefaultConfig(logger)))
			srvConfig.Address = cfg.Server.Address()
			srv, err := server.New(srvConfig)
			if err != nil {
				return err
			}

			shutdownConfig := server.DefaultShutdownConfig()
			shutdownConfig.Logger = logger
			gs := server.NewGracefulShutdown(srv, shutdownConfig)
			gs.RegisterHook(func(context.Context) error {
				logger.Info("closing option storage")
				return closeApp()
			})

			if err := gs.Start(ctx); err != nil {
				logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}
