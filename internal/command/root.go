// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityboard/board/internal/pkg/config"
	"github.com/communityboard/board/pkg/logger"
)

const serviceName = "community-board"

// Version is overridden at build time with -ldflags.
var Version = "dev"

type configKey struct{}

// RootCommand instantiates the root command, with all sub-commands bound.
// Configuration comes from the environment.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "board [command]",
		Short:        "Community board API server",
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: serviceName,
			})
			log.Debug().
				Str("env", cfg.Env).
				Str("store_backend", cfg.Store.Backend).
				Bool("redis", cfg.Redis.Addr != "").
				Msg("configuration loaded")
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.AddCommand(
		serveCommand(),
		seedAdminCommand(),
	)

	return cmd
}
