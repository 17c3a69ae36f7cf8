package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/render/output"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/cobra"
)

// catalogueResources are the envelope resources with a generic command; users get
// their own command with session-aware updates.
func catalogueResources() []domain.Resource {
	var out []domain.Resource
	for _, resource := range domain.Resources() {
		if resource.Name != domain.ResourceUser {
			out = append(out, resource)
		}
	}
	return out
}

func newResourceCmd(app *app, resource domain.Resource, format func() (output.Format, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   resource.Name,
		Short: "Manage " + resource.Title,
	}

	cmd.AddCommand(
		newResourceListCmd(app, resource, format),
		newResourceWriteCmd(app, resource, format, "add", "Add a record"),
		newResourceWriteCmd(app, resource, format, "update", "Update a record"),
		newResourceDeleteCmd(app, resource, format),
		newResourceSearchCmd(app, resource, format),
	)

	return cmd
}

func newResourceListCmd(app *app, resource domain.Resource, format func() (output.Format, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all " + resource.Title,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResourceCall(cmd, app, resource, format, func() (json.RawMessage, error) {
				return app.resources.List(cmd.Context(), resource)
			})
		},
	}
}

func newResourceWriteCmd(app *app, resource domain.Resource, format func() (output.Format, error), op string, short string) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   op,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.empty() {
				return errors.New("provide the record with --data or --field")
			}
			record, err := flags.record()
			if err != nil {
				return err
			}

			return runResourceCall(cmd, app, resource, format, func() (json.RawMessage, error) {
				if op == "add" {
					return app.resources.Add(cmd.Context(), resource, record)
				}
				return app.resources.Update(cmd.Context(), resource, record)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func newResourceDeleteCmd(app *app, resource domain.Resource, format func() (output.Format, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <" + resource.IDParam + ">",
		Short: "Delete a record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceCall(cmd, app, resource, format, func() (json.RawMessage, error) {
				return app.resources.Delete(cmd.Context(), resource, args[0])
			})
		},
	}
}

func newResourceSearchCmd(app *app, resource domain.Resource, format func() (output.Format, error)) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search " + resource.Title + " by criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.record()
			if err != nil {
				return err
			}
			return runResourceCall(cmd, app, resource, format, func() (json.RawMessage, error) {
				return app.resources.Search(cmd.Context(), resource, criteria)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func runResourceCall(cmd *cobra.Command, app *app, resource domain.Resource, format func() (output.Format, error), call func() (json.RawMessage, error)) error {
	outputFormat, err := format()
	if err != nil {
		return err
	}
	if err := enterView(cmd.Context(), app, resource.Name); err != nil {
		return err
	}

	payload, err := call()
	if err != nil {
		return err
	}
	return writePayload(cmd.OutOrStdout(), outputFormat, payload)
}

func writePayload(w io.Writer, format output.Format, payload json.RawMessage) error {
	if len(payload) == 0 || string(payload) == "null" {
		_, err := fmt.Fprintln(w, "OK")
		return err
	}
	return output.Write(w, format, payload)
}
