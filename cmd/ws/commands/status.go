package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/ws/internal/console"
	"git.home.luguber.info/inful/ws/internal/execution"
	"git.home.luguber.info/inful/ws/internal/git"
	"git.home.luguber.info/inful/ws/internal/logfields"
)

const gitStatusCommand = "git status"

// StatusCmd implements the 'status' command.
type StatusCmd struct {
	Threads int `short:"t" help:"Number of parallel commands (default: run.threads)"`
}

func (s *StatusCmd) Run(g *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}
	dirty, err := e.dirtyPackages()
	if err != nil {
		return err
	}
	return e.runInPackages(g.ctx(), dirty, gitStatusCommand, s.Threads, false)
}

// dirtyPackages returns the checked-out packages with uncommitted changes.
// Packages whose repository cannot be read are skipped with a warning.
func (e *env) dirtyPackages() ([]string, error) {
	checked, err := e.ws.CheckedPackages()
	if err != nil {
		return nil, err
	}
	e.console.Info("Looking for packages with unstaged changes...")

	var dirty []string
	for _, pkg := range checked {
		st, err := git.ReadState(e.ws.PackageDir(pkg))
		if err != nil {
			slog.Warn("Skipping package without readable repository", logfields.Package(pkg), logfields.Error(err))
			continue
		}
		if st.Dirty {
			dirty = append(dirty, pkg)
		}
	}
	e.console.Info("Found %d package(s) with unstaged changes", len(dirty))
	return dirty, nil
}

// runInPackages runs command in packages and prints the execution summary.
// Nothing runs when packages is empty. threads 0 means run.threads.
func (e *env) runInPackages(ctx context.Context, packages []string, command string, threads int, template bool) error {
	if len(packages) == 0 {
		return nil
	}
	if threads == 0 {
		threads = e.cfg.Run.Threads
	}
	summary, err := e.runner.RunAll(ctx, packages, command, execution.RunOptions{
		Threads:  threads,
		Template: template,
		Observer: console.NewRunObserver(e.console),
	})
	e.console.RunSummary(summary)
	if err != nil {
		return err
	}
	return failedPackagesError(summary)
}
