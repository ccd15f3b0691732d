package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ws/internal/config"
	"git.home.luguber.info/inful/ws/internal/console"
	"git.home.luguber.info/inful/ws/internal/execution"
	"git.home.luguber.info/inful/ws/internal/util/sets"
	"git.home.luguber.info/inful/ws/internal/workspace"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	// Context is cancelled on SIGINT/SIGTERM.
	Context context.Context
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `help:"Configuration file path (default: <workspace>/.ws.yaml, then ~/.config/ws/config.yaml)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Bbr        BbrCmd       `cmd:"" help:"Build the current package and its checked-out dependencies in parallel, respecting build order"`
	Graph      GraphCmd     `cmd:"" help:"Generate the dependency graph of the current package and render it"`
	Run        RunCmd       `cmd:"" help:"Execute an arbitrary command in parallel in the selected packages"`
	Packages   PackagesCmd  `cmd:"" help:"List checked-out packages with their version and git state"`
	Status     StatusCmd    `cmd:"" help:"Run 'git status' in every package with uncommitted changes"`
	Stash      StashCmd     `cmd:"" help:"Stash uncommitted changes in every package that has some"`
	Check      CheckCmd     `cmd:"" help:"Run a check in every package with unpushed local commits"`
	CleanLogs  CleanLogsCmd `cmd:"" name:"clean-logs" help:"Delete build logs older than the given age (e.g. 1d34m)"`
	Init       InitCmd      `cmd:"" help:"Write a default configuration file for the workspace"`
	VersionCmd VersionCmd   `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel))
	format := config.NormalizeLogFormat(os.Getenv(config.EnvLogFormat))
	configureLogging(level, format, c.Verbose)
	return nil
}

// configureLogging installs the default slog logger. --verbose always wins
// over the configured level.
func configureLogging(level config.LogLevel, format config.LogFormat, verbose bool) {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// env is what every workspace command works with.
type env struct {
	ws      *workspace.Workspace
	cfg     *config.Config
	console *console.Console
	runner  *execution.Runner
	cwd     string
}

// openEnv finds the workspace around the working directory and loads the
// configuration.
func openEnv(root *CLI) (*env, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	ws, err := workspace.Find(cwd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root.Config, ws.Root())
	if err != nil {
		return nil, err
	}
	configureLogging(config.NormalizeLogLevel(cfg.Logging.Level), config.NormalizeLogFormat(cfg.Logging.Format), root.Verbose)

	return &env{
		ws:      ws,
		cfg:     cfg,
		console: console.New(os.Stdout),
		runner:  execution.NewRunner(ws),
		cwd:     cwd,
	}, nil
}

// checkedSet returns the checked-out packages as a set.
func (e *env) checkedSet() (sets.Set[string], error) {
	return e.ws.Checked()
}

// splitPackages parses a comma separated package list.
func splitPackages(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
