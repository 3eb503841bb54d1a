package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/campshare/internal/config"
	"github.com/example/campshare/internal/logging"
)

// runtime carries what every subcommand needs after configuration is loaded.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}
	var envFiles []string

	root := &cobra.Command{
		Use:           "campshare",
		Short:         "Camp calendar, maintenance, cleaning and staff management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load instead of ./.env")

	root.AddCommand(
		newServeCmd(rt),
		newInviteCmd(rt),
		newUsersCmd(rt),
	)
	return root
}
