package cmd

import (
	"context"
	"errors"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/render/output"
	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd, closeApp := newRootCmd()
	return errors.Join(rootCmd.Execute(), closeApp())
}

// newRootCmd returns the command tree and a func releasing the storage handles.
// The release func must run whether or not the command failed.
func newRootCmd() (*cobra.Command, func() error) {
	var outputFormat string

	rootCmd := &cobra.Command{
		Use:           "wa",
		Short:         "IoT warehouse admin CLI (wa): session, navigation and resource management",
		Long:          "wa signs in to the IoT warehouse management server, keeps the session on disk, guards navigation between console views, and manages users, warehouses, goods, shelves, devices and environment readings from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(output.FormatTable), "Output format: table, json or yaml")

	app, err := wireApp(context.Background(), commandStderr{cmd: rootCmd})
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		rootCmd.AddCommand(newVersionCmd())
		return rootCmd, func() error { return nil }
	}

	format := func() (output.Format, error) {
		return output.ParseFormat(outputFormat)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newWhoamiCmd(app, format),
		newOpenCmd(app, format),
		newRoutesCmd(app, format),
		newUserCmd(app, format),
		newEnvironmentCmd(app, format),
		newProxyCmd(app),
	)
	for _, resource := range catalogueResources() {
		rootCmd.AddCommand(newResourceCmd(app, resource, format))
	}

	return rootCmd, app.close
}

// commandStderr resolves the command's stderr at write time so logs follow SetErr.
type commandStderr struct {
	cmd *cobra.Command
}

func (w commandStderr) Write(p []byte) (int, error) {
	return w.cmd.ErrOrStderr().Write(p)
}
