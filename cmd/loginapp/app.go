package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sakhura/loginapp/pkg/authentication"
	"github.com/sakhura/loginapp/pkg/logging"
	"github.com/sakhura/loginapp/pkg/login"
	"github.com/sakhura/loginapp/pkg/users"
)

// app bundles the wired login components
type app struct {
	config *Config
	store  *users.Store
	repo   *authentication.Repository
	policy *login.Policy
}

// loadAppConfig reads path, or returns the defaults when path is empty
func loadAppConfig(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	// Convert to absolute path if needed
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = abs
	}

	var config Config
	if err := LoadConfig(fs, path, &config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &config, nil
}

// setupLogging initializes the global loggers from config
func setupLogging(config *Config) error {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	if err := logging.Initialize(&logging.Config{
		AccessLogPath: config.AccessLogPath,
		AppLogPath:    config.AppLogPath,
		Level:         level,
		MaxSize:       int64(config.LogMaxSizeMB) * 1024 * 1024,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// newApp builds the store, the optional secondary source, the repository
// and the policy from config.
func newApp(fs afero.Fs, config *Config) (*app, error) {
	store := users.NewDefaultStore()
	if config.SeedFile != "" {
		seed, err := users.LoadSeedFile(fs, config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		store = users.NewStore(seed)
	}

	remote, err := newRemoteSource(fs, config)
	if err != nil {
		return nil, err
	}

	repo, err := authentication.NewRepository(store, remote)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	policy, err := login.NewPolicy(repo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create login policy: %w", err)
	}

	logging.App.Info("Login components ready", "users", store.Len(), "remote", remoteKind(config))

	return &app{
		config: config,
		store:  store,
		repo:   repo,
		policy: policy,
	}, nil
}

func newRemoteSource(fs afero.Fs, config *Config) (authentication.RemoteSource, error) {
	switch {
	case config.RemoteURL != "":
		src, err := authentication.NewHTTPSource(config.RemoteURL, config.remoteTimeout(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create remote source: %w", err)
		}
		return src, nil
	case config.RemoteSeedFile != "":
		seed, err := users.LoadSeedFile(fs, config.RemoteSeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load remote seed file: %w", err)
		}
		src, err := authentication.NewStoreSource(users.NewStore(seed))
		if err != nil {
			return nil, fmt.Errorf("failed to create remote source: %w", err)
		}
		return src, nil
	default:
		return nil, nil
	}
}

func remoteKind(config *Config) string {
	switch {
	case config.RemoteURL != "":
		return "http"
	case config.RemoteSeedFile != "":
		return "file"
	default:
		return "none"
	}
}
