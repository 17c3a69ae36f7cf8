// Package config loads ~/.iot-warehouse/config.toml with WA_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/iot-warehouse-cli/internal/application"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".iot-warehouse"
	envPrefix  = "WA"
)

const (
	keyAPIBaseURL        = "api.base_url"
	keyAPIEnvironmentURL = "api.environment_url"
	keyAPITimeout        = "api.timeout"
	keyAPILoginCodes     = "api.login_success_codes"
	keyAPISuccessCodes   = "api.success_codes"
	keyUsersSearchMode   = "users.search_mode"
	keyRoutesLanding     = "routes.landing"
	keyStorageBackend    = "storage.backend"
	keyStoragePath       = "storage.path"
	keyStorageRedisAddr  = "storage.redis_addr"
	keyStoragePrefix     = "storage.prefix"
	keyLogLevel          = "log.level"
	keyLogFormat         = "log.format"
)

type StorageBackend string

const (
	BackendTOML     StorageBackend = "toml"
	BackendFile     StorageBackend = "file"
	BackendPass     StorageBackend = "pass"
	BackendPassFile StorageBackend = "pass+file"
	BackendRedis    StorageBackend = "redis"
	BackendSQLite   StorageBackend = "sqlite"
)

type Config struct {
	// Dir holds config.toml and the default storage locations.
	Dir string

	API     APIConfig
	Users   UsersConfig
	Routes  RoutesConfig
	Storage StorageConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL           string
	EnvironmentURL    string
	Timeout           time.Duration
	LoginSuccessCodes domain.SuccessCodes
	SuccessCodes      domain.SuccessCodes
}

type UsersConfig struct {
	SearchMode application.SearchMode
}

type RoutesConfig struct {
	Landing string
}

type StorageConfig struct {
	Backend StorageBackend
	// Path is backend specific: a TOML file, a directory, or a sqlite database.
	Path      string
	RedisAddr string
	// Prefix namespaces keys in redis and pass.
	Prefix string
}

type LogConfig struct {
	Level  slog.Level
	Format string
}

// Load reads the config file (if any) from ~/.iot-warehouse and applies defaults and
// WA_ environment overrides. A nil v uses a fresh viper instance.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	loginCodes, err := intList(v.Get(keyAPILoginCodes))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", keyAPILoginCodes, err)
	}
	successCodes, err := intList(v.Get(keyAPISuccessCodes))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", keyAPISuccessCodes, err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", keyLogLevel, err)
	}

	cfg := Config{
		Dir: dir,
		API: APIConfig{
			BaseURL:           strings.TrimSpace(v.GetString(keyAPIBaseURL)),
			EnvironmentURL:    strings.TrimSpace(v.GetString(keyAPIEnvironmentURL)),
			Timeout:           v.GetDuration(keyAPITimeout),
			LoginSuccessCodes: loginCodes,
			SuccessCodes:      successCodes,
		},
		Users:  UsersConfig{SearchMode: application.SearchMode(strings.ToLower(v.GetString(keyUsersSearchMode)))},
		Routes: RoutesConfig{Landing: domain.NormalizePath(v.GetString(keyRoutesLanding))},
		Storage: StorageConfig{
			Backend:   StorageBackend(strings.ToLower(v.GetString(keyStorageBackend))),
			Path:      v.GetString(keyStoragePath),
			RedisAddr: v.GetString(keyStorageRedisAddr),
			Prefix:    v.GetString(keyStoragePrefix),
		},
		Log: LogConfig{Level: level, Format: strings.ToLower(v.GetString(keyLogFormat))},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = cfg.defaultStoragePath()
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyAPIBaseURL, "http://localhost:8080/iot-warehouse")
	v.SetDefault(keyAPIEnvironmentURL, "http://localhost:3000/api")
	v.SetDefault(keyAPITimeout, "15s")
	v.SetDefault(keyAPILoginCodes, []int(domain.DefaultLoginSuccessCodes))
	v.SetDefault(keyAPISuccessCodes, []int(domain.DefaultMutationSuccessCodes))
	v.SetDefault(keyUsersSearchMode, string(application.SearchModeFiltered))
	v.SetDefault(keyRoutesLanding, domain.DefaultLandingPath)
	v.SetDefault(keyStorageBackend, string(BackendTOML))
	v.SetDefault(keyStoragePath, "")
	v.SetDefault(keyStorageRedisAddr, "localhost:6379")
	v.SetDefault(keyStoragePrefix, "")
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyLogFormat, "text")
}

func (c Config) validate() error {
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", keyAPITimeout)
	}
	if len(c.API.LoginSuccessCodes) == 0 || len(c.API.SuccessCodes) == 0 {
		return errors.New("success code lists must not be empty")
	}
	if !c.Users.SearchMode.Valid() {
		return fmt.Errorf("unsupported %s %q (want filtered or raw)", keyUsersSearchMode, c.Users.SearchMode)
	}
	switch c.Storage.Backend {
	case BackendTOML, BackendFile, BackendPass, BackendPassFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unsupported %s %q", keyStorageBackend, c.Storage.Backend)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported %s %q (want text or json)", keyLogFormat, c.Log.Format)
	}
	return nil
}

func (c Config) defaultStoragePath() string {
	switch c.Storage.Backend {
	case BackendSQLite:
		return filepath.Join(c.Dir, "storage.db")
	case BackendFile, BackendPassFile:
		return filepath.Join(c.Dir, "storage")
	default:
		return filepath.Join(c.Dir, "storage.toml")
	}
}

// intList accepts a TOML array or a comma separated env value such as "200,20000".
func intList(raw any) (domain.SuccessCodes, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case []int:
		return domain.SuccessCodes(typed), nil
	case []int64:
		codes := make(domain.SuccessCodes, 0, len(typed))
		for _, code := range typed {
			codes = append(codes, int(code))
		}
		return codes, nil
	case []any:
		codes := make(domain.SuccessCodes, 0, len(typed))
		for _, item := range typed {
			code, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(item)))
			if err != nil {
				return nil, fmt.Errorf("invalid code %v", item)
			}
			codes = append(codes, code)
		}
		return codes, nil
	case string:
		var codes domain.SuccessCodes
		for _, part := range strings.FieldsFunc(typed, func(r rune) bool { return r == ',' || r == ' ' }) {
			code, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid code %q", part)
			}
			codes = append(codes, code)
		}
		return codes, nil
	default:
		return nil, fmt.Errorf("unsupported value %v", raw)
	}
}
