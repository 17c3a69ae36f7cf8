package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/render/output"
	"github.com/bnema/iot-warehouse-cli/internal/application"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newOpenCmd(app *app, format func() (output.Format, error)) *cobra.Command {
	var noData bool

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a console view and show its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := format()
			if err != nil {
				return err
			}

			nav, err := app.navigator.Navigate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printHops(out, nav)
			leaf := nav.Leaf()
			_, _ = fmt.Fprintf(out, "%s (%s)\n", nav.Path, viewName(leaf))

			if noData || leaf.Resource == "" {
				return nil
			}

			payload, err := loadView(cmd.Context(), app, leaf.Resource)
			if err != nil {
				return err
			}
			return output.Write(out, outputFormat, payload)
		},
	}

	cmd.Flags().BoolVar(&noData, "no-data", false, "Only navigate; do not fetch the view's records")

	return cmd
}

type routeRow struct {
	Path         string `json:"path"`
	Name         string `json:"name,omitempty"`
	RequiresAuth bool   `json:"requiresAuth"`
	Redirect     string `json:"redirect,omitempty"`
	Resource     string `json:"resource,omitempty"`
}

func newRoutesCmd(app *app, format func() (output.Format, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List console routes and their access rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := format()
			if err != nil {
				return err
			}

			var rows []routeRow
			var cells [][]string
			app.routes.Walk(func(route domain.Route, fullPath string, depth int, inheritedAuth bool) {
				row := routeRow{
					Path:         fullPath,
					Name:         route.Name,
					RequiresAuth: inheritedAuth,
					Redirect:     route.Redirect,
					Resource:     route.Resource,
				}
				rows = append(rows, row)

				auth := "public"
				if row.RequiresAuth {
					auth = "login"
				}
				cells = append(cells, []string{strings.Repeat("  ", depth) + row.Path, row.Name, auth, row.Redirect, row.Resource})
			})

			if outputFormat != output.FormatTable {
				return output.WriteValue(cmd.OutOrStdout(), outputFormat, rows)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output.Table([]string{"PATH", "NAME", "ACCESS", "REDIRECT", "RESOURCE"}, cells))
			return err
		},
	}
}

// enterView navigates to the view bound to resource and fails when the guard sends
// the user elsewhere.
func enterView(ctx context.Context, app *app, resource string) error {
	path, ok := app.routes.ViewPath(resource)
	if !ok {
		return fmt.Errorf("no console view for %s", resource)
	}

	nav, err := app.navigator.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if nav.Path == path {
		return nil
	}
	if nav.Path == domain.PathLogin {
		return fmt.Errorf("%w: run `wa login`", domain.ErrNotLoggedIn)
	}
	return fmt.Errorf("navigation to %s ended at %s", path, nav.Path)
}

func loadView(ctx context.Context, app *app, resourceName string) (json.RawMessage, error) {
	if resourceName == domain.ResourceEnvironment {
		return app.environment.List(ctx)
	}

	resource, ok := domain.LookupResource(resourceName)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resourceName)
	}
	return app.resources.List(ctx, resource)
}

func printHops(w io.Writer, nav application.Navigation) {
	for _, hop := range nav.Hops {
		_, _ = fmt.Fprintf(w, "%s -> %s (%s)\n", hop.From, hop.To, hop.Reason)
	}
}

func viewName(route domain.Route) string {
	if route.Name == "" {
		return "view"
	}
	return route.Name
}
