package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/render/output"
	sessionrender "github.com/bnema/iot-warehouse-cli/internal/adapters/render/session"
	"github.com/bnema/iot-warehouse-cli/internal/application"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open the dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result application.Result
			err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Signing in...", func(ctx context.Context) {
				result = app.session.Login(ctx, username, password)
			})
			if err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Message)
			}

			nav, err := app.navigator.Navigate(cmd.Context(), "/dashboard")
			if err != nil {
				return err
			}

			name := result.Profile.Username()
			if name == "" {
				name = username
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Current view: %s\n", nav.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logoutErr := app.session.Logout(cmd.Context())

			if _, err := app.navigator.Navigate(cmd.Context(), domain.PathLogin); err != nil {
				return errors.Join(logoutErr, err)
			}
			if logoutErr != nil {
				return fmt.Errorf("logged out locally, but stored session could not be fully removed: %w", logoutErr)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newRegisterCmd(app *app) *cobra.Command {
	var register application.RegisterCommand

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result application.Result
			err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Registering...", func(ctx context.Context) {
				result = app.session.Register(ctx, register)
			})
			if err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Message)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return err
		},
	}

	cmd.Flags().StringVar(&register.Username, "username", "", "Account username")
	cmd.Flags().StringVar(&register.PasswordHash, "password", "", "Account password")
	cmd.Flags().StringVar(&register.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&register.BiometricToken, "biometric-token", "", "Biometric enrolment token")
	cmd.Flags().StringVar(&register.Role, "role", "", "Requested role")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

type whoamiOutput struct {
	LoggedIn bool           `json:"loggedIn"`
	Username string         `json:"username,omitempty"`
	Role     string         `json:"role,omitempty"`
	Route    string         `json:"route"`
	Profile  domain.Profile `json:"profile"`
}

func newWhoamiCmd(app *app, format func() (output.Format, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := format()
			if err != nil {
				return err
			}

			route, err := app.navigator.Current(cmd.Context())
			if err != nil {
				return err
			}

			profile := app.session.Profile()
			if outputFormat != output.FormatTable {
				return output.WriteValue(cmd.OutOrStdout(), outputFormat, whoamiOutput{
					LoggedIn: app.session.IsLoggedIn(),
					Username: app.session.Username(),
					Role:     app.session.Role(),
					Route:    route,
					Profile:  profile.Redacted(),
				})
			}

			rendered, err := app.sessionRender(sessionrender.View{
				LoggedIn: app.session.IsLoggedIn(),
				Token:    app.session.Token(),
				Profile:  profile,
				Route:    route,
			}, sessionrender.RenderOptions{Now: app.clock.Now()})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}
