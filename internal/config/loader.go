package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"configmirror/pkg/logging"
)

const configFileName = "config.yaml"

// Environment variable keys, all consumed once at startup.
const (
	EnvLabel              = "LABEL"
	EnvLabelValue         = "LABEL_VALUE"
	EnvResource           = "RESOURCE"
	EnvFolder             = "FOLDER"
	EnvUniqueFilenames    = "UNIQUE_FILENAMES"
	EnvEventLogging       = "EVENT_LOGGING"
	EnvNamespace          = "NAMESPACE"
	EnvWatchClientTimeout = "WATCH_CLIENT_TIMEOUT"
	EnvWatchServerTimeout = "WATCH_SERVER_TIMEOUT"
	EnvWorkerCount        = "WORKER_COUNT"
)

// Load builds the configuration: defaults, then an optional config.yaml in
// configPath, then environment variable overrides. configPath may be empty.
func Load(configPath string) (Config, error) {
	cfg := GetDefaultConfig()

	if configPath != "" {
		loaded, err := loadFile(filepath.Join(configPath, configFileName))
		if err != nil {
			return Config{}, err
		}
		if loaded != nil {
			cfg = *loaded
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// loadFile reads a config.yaml over the defaults. A missing file is not an
// error, a malformed one is.
func loadFile(path string) (*Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No %s found at %s, using defaults", configFileName, path)
			return nil, nil
		}
		return nil, fmt.Errorf("error reading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return &cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvLabel); ok {
		cfg.LabelKey = v
	}
	if v, ok := os.LookupEnv(EnvLabelValue); ok {
		cfg.LabelValue = v
	}
	if v, ok := os.LookupEnv(EnvResource); ok {
		cfg.Resource = v
	}
	if v, ok := os.LookupEnv(EnvFolder); ok {
		cfg.Folder = v
	}
	if v, ok := os.LookupEnv(EnvNamespace); ok {
		cfg.Namespace = v
	}
	cfg.UniqueFilenames = envBool(EnvUniqueFilenames, cfg.UniqueFilenames)
	cfg.EventLogging = envBool(EnvEventLogging, cfg.EventLogging)
	cfg.WatchClientTimeoutSeconds = envInt(EnvWatchClientTimeout, cfg.WatchClientTimeoutSeconds)
	cfg.WatchServerTimeoutSeconds = envInt(EnvWatchServerTimeout, cfg.WatchServerTimeoutSeconds)
	cfg.WorkerCount = envInt(EnvWorkerCount, cfg.WorkerCount)
}

// envBool reads a boolean environment variable, falling back on absence or
// a value strconv cannot parse.
func envBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		logging.Warn("ConfigLoader", "%s=%q is not a boolean, using %v", key, raw, fallback)
		return fallback
	}
	return value
}

// envInt reads an integer environment variable, falling back on absence or
// a value strconv cannot parse.
func envInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logging.Warn("ConfigLoader", "%s=%q is not an integer, using %d", key, raw, fallback)
		return fallback
	}
	return value
}
