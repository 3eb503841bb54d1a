package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/campshare/internal/application"
)

func newUsersCmd(rt *runtime) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users with their invitation status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, closeStore, err := openContainer(cmd.Context(), rt, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			var users []application.User
			switch strings.ToLower(status) {
			case "":
				users = container.Users()
			case "pending":
				users = container.PendingUsers()
			case "active":
				users = container.ActiveUsers()
			default:
				return fmt.Errorf("unknown status %q: use pending or active", status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-38s  %-20s  %-12s  %-9s  %s\n", "ID", "Name", "Phone", "Status", "Permissions")
			for _, u := range users {
				perms := make([]string, 0, len(u.Permissions))
				for _, p := range u.Permissions {
					perms = append(perms, string(p))
				}
				fmt.Fprintf(out, "%-38s  %-20s  %-12s  %-9s  %s\n", u.ID, u.Name, u.PhoneNumber, u.InvitationStatus, strings.Join(perms, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by pending or active")
	return cmd
}
