package command

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func seedAdminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the administrator from ADMIN_* settings if none exists",
		Long: "Creates the administrator account from ADMIN_USERNAME and ADMIN_PASSWORD\n" +
			"when the board has no administrator yet. Does nothing otherwise.",
		Args: cobra.NoArgs,
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
			a.log.Info().Msg("administrator present")
			return nil
		},
	}
}
