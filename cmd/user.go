package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/render/output"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *app, format func() (output.Format, error)) *cobra.Command {
	users, _ := domain.LookupResource(domain.ResourceUser)

	cmd := &cobra.Command{
		Use:   users.Name,
		Short: "Manage " + users.Title,
	}

	cmd.AddCommand(
		newResourceListCmd(app, users, format),
		newResourceWriteCmd(app, users, format, "add", "Add a user"),
		newUserUpdateCmd(app, users),
		newResourceDeleteCmd(app, users, format),
		newUserSearchCmd(app, users, format),
		newUserResetPasswordCmd(app, users, format),
	)

	return cmd
}

// newUserUpdateCmd goes through the session store so editing yourself refreshes the
// stored profile.
func newUserUpdateCmd(app *app, users domain.Resource) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a user (refreshes the session when it is you)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.empty() {
				return errors.New("provide the user with --data or --field")
			}
			record, err := flags.record()
			if err != nil {
				return err
			}
			if err := enterView(cmd.Context(), app, users.Name); err != nil {
				return err
			}

			result := app.session.UpdateUserInfo(cmd.Context(), domain.Profile(record))
			if !result.Success {
				return errors.New(result.Message)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Profile != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session profile refreshed")
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newUserSearchCmd(app *app, users domain.Resource, format func() (output.Format, error)) *cobra.Command {
	var flags recordFlags
	var username string
	var role string
	var pageNo int
	var pageSize int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search users by name and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.record()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("username") {
				criteria["username"] = username
			}
			if cmd.Flags().Changed("role") {
				criteria["role"] = role
			}
			if pageNo > 0 {
				criteria["pageNo"] = pageNo
			}
			if pageSize > 0 {
				criteria["pageSize"] = pageSize
			}

			return runResourceCall(cmd, app, users, format, func() (json.RawMessage, error) {
				return app.resources.Search(cmd.Context(), users, criteria)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&username, "username", "", "Username filter")
	cmd.Flags().StringVar(&role, "role", "", "Role filter")
	cmd.Flags().IntVar(&pageNo, "page", 0, "Page number (default 1)")
	cmd.Flags().IntVar(&pageSize, "size", 0, "Page size (default 10)")

	return cmd
}

func newUserResetPasswordCmd(app *app, users domain.Resource, format func() (output.Format, error)) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a user's password by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResourceCall(cmd, app, users, format, func() (json.RawMessage, error) {
				return app.resources.UpdatePasswordByEmail(cmd.Context(), email, password)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
