package config

import (
	"fmt"
	"regexp"
	"time"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/workspace"
)

var recipeName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Reserved recipe names handled by `ws graph` itself.
const (
	RecipeAll     = "all"
	RecipeChecked = "checked"
)

// Validate checks a configuration after defaults were applied.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateBuild(); err != nil {
		return err
	}
	if err := cv.validateGraph(); err != nil {
		return err
	}
	if err := cv.validateLogs(); err != nil {
		return err
	}
	return cv.validateLogging()
}

func (cv *configurationValidator) validateBuild() error {
	if cv.config.Build.Threads < 1 {
		return werrors.ValidationFailed("build.threads", fmt.Sprintf("must be at least 1, got %d", cv.config.Build.Threads))
	}
	if cv.config.Run.Threads < 1 {
		return werrors.ValidationFailed("run.threads", fmt.Sprintf("must be at least 1, got %d", cv.config.Run.Threads))
	}
	return nil
}

func (cv *configurationValidator) validateGraph() error {
	for name, prefix := range cv.config.Graph.Recipes {
		if name == RecipeAll || name == RecipeChecked {
			return werrors.ValidationFailed("graph.recipes", fmt.Sprintf("recipe name %q is reserved", name))
		}
		if !recipeName.MatchString(name) {
			return werrors.ValidationFailed("graph.recipes", fmt.Sprintf("invalid recipe name %q", name))
		}
		if prefix == "" {
			return werrors.ValidationFailed("graph.recipes", fmt.Sprintf("recipe %q has an empty prefix", name))
		}
	}
	return nil
}

func (cv *configurationValidator) validateLogs() error {
	if _, err := workspace.ParseAge(cv.config.Logs.Retention); err != nil {
		return werrors.ValidationFailed("logs.retention", err.Error())
	}
	return nil
}

func (cv *configurationValidator) validateLogging() error {
	if NormalizeLogLevel(cv.config.Logging.Level) == "" {
		return werrors.ValidationFailed("logging.level", fmt.Sprintf("unknown level %q", cv.config.Logging.Level))
	}
	if NormalizeLogFormat(cv.config.Logging.Format) == "" {
		return werrors.ValidationFailed("logging.format", fmt.Sprintf("unknown format %q", cv.config.Logging.Format))
	}
	return nil
}

// Retention returns the parsed log retention age.
func (c *Config) Retention() (time.Duration, error) {
	return workspace.ParseAge(c.Logs.Retention)
}
