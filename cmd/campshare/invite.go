package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/campshare/internal/application"
)

func newInviteCmd(rt *runtime) *cobra.Command {
	var (
		phone       string
		name        string
		permissions []string
	)

	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Text a temporary password to a new or existing staff member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, closeStore, err := openContainer(cmd.Context(), rt, newSender(rt.cfg, rt.logger))
			if err != nil {
				return err
			}
			defer closeStore()

			perms := make([]application.Permission, 0, len(permissions))
			for _, p := range permissions {
				perms = append(perms, application.Permission(p))
			}

			result, err := container.InviteUserBySMS(cmd.Context(), phone, name, perms)
			if err != nil {
				return fmt.Errorf("invitation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user %s (%s) invited\n", result.User.ID, result.User.PhoneNumber)
			if result.Delivered {
				fmt.Fprintln(out, "SMS delivered")
			} else {
				fmt.Fprintf(out, "SMS not delivered: %s\n", result.Detail)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number to invite")
	cmd.Flags().StringVar(&name, "name", "", "display name for a new user")
	cmd.Flags().StringSliceVar(&permissions, "permission", nil, "permission to grant (repeatable)")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}
