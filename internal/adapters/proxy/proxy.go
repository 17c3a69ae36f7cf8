package proxy

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

const (
	DefaultListenAddr = "127.0.0.1:5173"
	DefaultPrefix     = "/iot-warehouse"
)

type Options struct {
	Target string
	Prefix string
	// Insecure skips TLS verification against the target.
	Insecure bool
	Logger   *slog.Logger
}

// NewRouter forwards every request under Prefix to Target with the Host header
// rewritten to the target's. /health answers locally.
func NewRouter(opts Options) (*mux.Router, error) {
	target, err := parseTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	prefix := "/" + strings.Trim(opts.Prefix, "/")
	if prefix == "/" {
		prefix = DefaultPrefix
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reverse := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("proxy upstream failed", slog.String("path", r.URL.Path), slog.Any("error", err))
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		},
	}
	if opts.Insecure {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		reverse.Transport = transport
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.PathPrefix(prefix).Handler(logRequests(logger, reverse))

	return r, nil
}

// Serve accepts on listener until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown proxy: %w", err)
		}
		return nil
	}
}

func parseTarget(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("proxy target is required")
	}
	target, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy target: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, errors.New("proxy target must use http or https")
	}
	if target.Host == "" {
		return nil, errors.New("proxy target host is required")
	}
	return target, nil
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("proxied",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(started)),
		)
	})
}
