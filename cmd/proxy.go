package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/proxy"
	"github.com/spf13/cobra"
)

func newProxyCmd(app *app) *cobra.Command {
	var listenAddr string
	var target string
	var prefix string
	var insecure bool

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run a local development proxy in front of the warehouse API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaultTarget, defaultPrefix := proxyDefaults(app.cfg.API.BaseURL)
			if target == "" {
				target = defaultTarget
			}
			if prefix == "" {
				prefix = defaultPrefix
			}

			router, err := proxy.NewRouter(proxy.Options{
				Target:   target,
				Prefix:   prefix,
				Insecure: insecure,
				Logger:   app.logger.With(slog.String("component", "proxy")),
			})
			if err != nil {
				return err
			}

			listener, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listenAddr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Proxying http://%s%s -> %s\n", listener.Addr(), prefix, target)
			return proxy.Serve(ctx, listener, router)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", proxy.DefaultListenAddr, "Address to listen on")
	cmd.Flags().StringVar(&target, "target", "", "Upstream origin (default: scheme and host of api.base_url)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Path prefix to forward (default: path of api.base_url)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS verification against the upstream")

	return cmd
}

func proxyDefaults(baseURL string) (string, string) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return "", proxy.DefaultPrefix
	}

	prefix := strings.TrimRight(parsed.Path, "/")
	if prefix == "" {
		prefix = proxy.DefaultPrefix
	}
	return parsed.Scheme + "://" + parsed.Host, prefix
}
