package cmd

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/render/output"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newEnvironmentCmd(app *app, format func() (output.Format, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "environment",
		Aliases: []string{"env"},
		Short:   "Inspect and edit sensor readings",
	}

	run := func(cmd *cobra.Command, call func(ctx context.Context) (json.RawMessage, error)) error {
		outputFormat, err := format()
		if err != nil {
			return err
		}
		if err := enterView(cmd.Context(), app, domain.ResourceEnvironment); err != nil {
			return err
		}
		payload, err := call(cmd.Context())
		if err != nil {
			return err
		}
		return writePayload(cmd.OutOrStdout(), outputFormat, payload)
	}

	readingCmd := func(use, short string, send func(ctx context.Context, reading domain.EnvironmentReading) (json.RawMessage, error)) *cobra.Command {
		var flags recordFlags
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if flags.empty() {
					return errors.New("provide the reading with --data or --field")
				}
				record, err := flags.record()
				if err != nil {
					return err
				}
				return run(cmd, func(ctx context.Context) (json.RawMessage, error) {
					return send(ctx, domain.EnvironmentReading(record))
				})
			},
		}
		flags.register(c)
		return c
	}

	var params []string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search readings by query parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := queryValues(params)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context) (json.RawMessage, error) {
				return app.environment.Search(ctx, query)
			})
		},
	}
	searchCmd.Flags().StringArrayVar(&params, "param", nil, "Query parameter as key=value (repeatable)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all readings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, app.environment.List)
			},
		},
		&cobra.Command{
			Use:   "get <sensorId>",
			Short: "Show readings of one sensor",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context) (json.RawMessage, error) {
					return app.environment.GetBySensor(ctx, args[0])
				})
			},
		},
		searchCmd,
		readingCmd("add", "Record a reading", app.environment.Add),
		readingCmd("update", "Replace a reading identified by sensorId and timestamp", app.environment.Update),
		&cobra.Command{
			Use:   "delete <sensorId> <timestamp>",
			Short: "Delete one reading",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context) (json.RawMessage, error) {
					return app.environment.Delete(ctx, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show aggregate statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, app.environment.Stats)
			},
		},
	)

	return cmd
}
