package config

import "fmt"

// Default values.
const (
	DefaultBuildCommand = "build"
	DefaultBuildThreads = 5
	DefaultRunThreads   = 10
	DefaultGraphCommand = "brazil-build-tool dependency-graph --dot"
	DefaultPaintColor   = "lightblue"
	DefaultRenderer     = "dot -Tsvg -O"
	DefaultRetention    = "7d"
)

// DefaultRecipes are the prefix recipes used when the file defines none.
func DefaultRecipes() map[string]string {
	return map[string]string{"dra": "Dra", "adn": "Adn"}
}

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// BuildDefaultApplier handles build and run defaults.
type BuildDefaultApplier struct{}

func (b *BuildDefaultApplier) Domain() string { return "build" }

func (b *BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Command == "" {
		cfg.Build.Command = DefaultBuildCommand
	}
	if cfg.Build.Threads == 0 {
		cfg.Build.Threads = DefaultBuildThreads
	}
	if cfg.Run.Threads == 0 {
		cfg.Run.Threads = DefaultRunThreads
	}
	return nil
}

// GraphDefaultApplier handles graph defaults.
type GraphDefaultApplier struct{}

func (g *GraphDefaultApplier) Domain() string { return "graph" }

func (g *GraphDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Graph.Command == "" {
		cfg.Graph.Command = DefaultGraphCommand
	}
	if cfg.Graph.PaintColor == "" {
		cfg.Graph.PaintColor = DefaultPaintColor
	}
	if cfg.Graph.Renderer == "" {
		cfg.Graph.Renderer = DefaultRenderer
	}
	if len(cfg.Graph.Recipes) == 0 {
		cfg.Graph.Recipes = DefaultRecipes()
	}
	return nil
}

// LogsDefaultApplier handles log retention and logging output defaults.
type LogsDefaultApplier struct{}

func (l *LogsDefaultApplier) Domain() string { return "logs" }

func (l *LogsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logs.Retention == "" {
		cfg.Logs.Retention = DefaultRetention
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	&BuildDefaultApplier{},
	&GraphDefaultApplier{},
	&LogsDefaultApplier{},
}

// ApplyDefaults fills every unset field. Explicit values are kept.
func ApplyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}
