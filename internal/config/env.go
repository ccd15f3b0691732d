package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
)

// Environment variables that override file values.
const (
	EnvThreads      = "WS_THREADS"
	EnvBuildCommand = "WS_BUILD_COMMAND"
	EnvGraphCommand = "WS_GRAPH_COMMAND"
	EnvLogLevel     = "WS_LOG_LEVEL"
	EnvLogFormat    = "WS_LOG_FORMAT"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files from the working directory and the workspace
// root. Variables already present in the process environment win.
func loadEnvFiles(wsRoot string) {
	dirs := []string{"."}
	if wsRoot != "" {
		dirs = append(dirs, wsRoot)
	}
	for _, dir := range dirs {
		for _, name := range envFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := godotenv.Load(path); err != nil {
				slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
				continue
			}
			slog.Debug("Loaded environment variables", logfields.Path(path))
		}
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvThreads)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return werrors.ValidationFailed(EnvThreads, fmt.Sprintf("not an integer: %q", v))
		}
		cfg.Build.Threads = n
		cfg.Run.Threads = n
	}
	if v := os.Getenv(EnvBuildCommand); v != "" {
		cfg.Build.Command = v
	}
	if v := os.Getenv(EnvGraphCommand); v != "" {
		cfg.Graph.Command = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}
