// Package config loads the ws configuration file.
//
// Lookup order is the --config flag, then <workspace>/.ws.yaml, then
// $HOME/.config/ws/config.yaml. A missing file is not an error: every field
// has a default. Environment variables from .env files are loaded first, are
// expanded inside the YAML, and WS_* variables override file values.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
)

// WorkspaceFile is the per-workspace configuration file name.
const WorkspaceFile = ".ws.yaml"

// Config is the complete ws configuration.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Run     RunConfig     `yaml:"run"`
	Graph   GraphConfig   `yaml:"graph"`
	Logs    LogsConfig    `yaml:"logs"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// BuildConfig configures `ws bbr`.
type BuildConfig struct {
	// Command is the base build command; the target is appended.
	Command string `yaml:"command"`
	Threads int    `yaml:"threads"`
}

// RunConfig configures `ws run`.
type RunConfig struct {
	Threads int `yaml:"threads"`
}

// GraphConfig configures how dependency graphs are produced and rendered.
type GraphConfig struct {
	// Command prints the path of a dot file describing the package's graph.
	Command    string `yaml:"command"`
	PaintColor string `yaml:"paint_color"`
	// Renderer is run with the dot file path appended.
	Renderer string `yaml:"renderer"`
	// Recipes maps a recipe name to the package name prefix it keeps.
	Recipes map[string]string `yaml:"recipes"`
}

// LogsConfig configures build log retention.
type LogsConfig struct {
	Retention string `yaml:"retention"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile receives Prometheus text exposition after each run.
	Textfile string `yaml:"textfile"`
}

// Load resolves the configuration file and reads it. explicit is the --config
// flag value and wsRoot the workspace root; both may be empty.
func Load(explicit, wsRoot string) (*Config, error) {
	loadEnvFiles(wsRoot)

	path, err := resolvePath(explicit, wsRoot)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Path = path
		slog.Debug("Loaded configuration", logfields.Path(path))
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	// defaults on an empty config cannot fail
	_ = ApplyDefaults(cfg)
	return cfg
}

func resolvePath(explicit, wsRoot string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", werrors.ConfigInvalid(explicit, fmt.Errorf("configuration file not found: %w", err))
		}
		return explicit, nil
	}

	var candidates []string
	if wsRoot != "" {
		candidates = append(candidates, filepath.Join(wsRoot, WorkspaceFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ws", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return werrors.ConfigInvalid(path, fmt.Errorf("failed to read config file: %w", err))
	}
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return werrors.ConfigInvalid(path, fmt.Errorf("failed to unmarshal config: %w", err))
	}
	return nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return werrors.ConfigInvalid(path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return werrors.FileSystemError("create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return werrors.FileSystemError("write config", err).WithContext("path", path)
	}
	return nil
}
