package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/bnema/iot-warehouse-cli/internal/adapters/httpapi"
	sessionrender "github.com/bnema/iot-warehouse-cli/internal/adapters/render/session"
	chainstore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/chain"
	filestore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/file"
	passstore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/pass"
	redisstore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/redis"
	sqlitestore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/sqlite"
	tomlstore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/toml"
	"github.com/bnema/iot-warehouse-cli/internal/application"
	"github.com/bnema/iot-warehouse-cli/internal/config"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg           config.Config
	logger        *slog.Logger
	storage       ports.Storage
	routes        domain.RouteTable
	session       *application.SessionStore
	navigator     *application.Navigator
	resources     *application.ResourceService
	environment   *application.EnvironmentService
	sessionRender func(sessionrender.View, sessionrender.RenderOptions) (string, error)
	clock         ports.Clock
	closers       []func() error
}

func wireApp(ctx context.Context, logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log, logOutput)

	storage, closers, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("wire %s storage: %w", cfg.Storage.Backend, err)
	}

	httpClient := &http.Client{}
	apiClient := &httpapi.Client{
		BaseURL:        cfg.API.BaseURL,
		HTTPClient:     httpClient,
		RequestTimeout: cfg.API.Timeout,
		Tokens:         storage,
		Logger:         logger.With(slog.String("api", "warehouse")),
	}
	environmentClient := &httpapi.Client{
		BaseURL:        cfg.API.EnvironmentURL,
		HTTPClient:     httpClient,
		RequestTimeout: cfg.API.Timeout,
		Tokens:         storage,
		Logger:         logger.With(slog.String("api", "environment")),
	}

	session, err := application.NewSessionStore(ctx, httpapi.UserAPI{Client: apiClient}, storage, application.SuccessPolicy{
		Login:    cfg.API.LoginSuccessCodes,
		Mutation: cfg.API.SuccessCodes,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	routes := domain.DefaultRouteTable()
	guard := application.NewGuard(routes, session, cfg.Routes.Landing, logger)

	return &app{
		cfg:           cfg,
		logger:        logger,
		storage:       storage,
		routes:        routes,
		session:       session,
		navigator:     application.NewNavigator(routes, guard, storage, logger),
		resources:     application.NewResourceService(apiClient, cfg.API.SuccessCodes, cfg.Users.SearchMode, logger),
		environment:   application.NewEnvironmentService(environmentClient),
		sessionRender: sessionrender.Render,
		clock:         ports.SystemClock{},
		closers:       closers,
	}, nil
}

func (a *app) close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (ports.Storage, []func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return filestore.NewStore(cfg.Path), nil, nil
	case config.BackendPass:
		return passstore.NewStore(cfg.Prefix), nil, nil
	case config.BackendPassFile:
		store, err := chainstore.NewPassFirstWithFileFallback(cfg.Prefix, cfg.Path)
		return store, nil, err
	case config.BackendRedis:
		client, err := redisstore.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client, cfg.Prefix), []func() error{client.Close}, nil
	case config.BackendSQLite:
		store, err := sqlitestore.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, []func() error{store.Close}, nil
	default:
		store, err := tomlstore.NewStore(filepath.Clean(cfg.Path))
		return store, nil, err
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
