package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/ws/internal/console"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/execution"
	"git.home.luguber.info/inful/ws/internal/metrics"
	"git.home.luguber.info/inful/ws/internal/workspace"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Command  string `short:"c" required:"" help:"Command to run in each selected package"`
	Packages string `short:"p" default:"all" help:"Comma separated packages, or 'all' for every checked-out package"`
	Threads  int    `short:"t" help:"Number of parallel commands (default: run.threads)"`
	Template bool   `help:"Replace {} in the command with the package name"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}

	packages, err := r.selectPackages(e)
	if err != nil {
		return err
	}
	threads := r.Threads
	if threads == 0 {
		threads = e.cfg.Run.Threads
	}

	runDir, err := e.ws.Logs().RunDir()
	if err != nil {
		return err
	}
	e.console.RunStarted(r.Command, len(packages), runDir)

	started := time.Now()
	summary, runErr := e.runner.RunAll(g.ctx(), packages, r.Command, execution.RunOptions{
		Threads:  threads,
		Template: r.Template,
		Observer: console.NewRunObserver(e.console),
	})
	e.console.RunSummary(summary)
	writeRunManifest(e, summary, threads, started, runErr)

	if runErr != nil {
		return runErr
	}
	return failedPackagesError(summary)
}

// failedPackagesError is a build error naming how many packages failed, or
// nil when every package succeeded.
func failedPackagesError(summary execution.RunSummary) error {
	failed := summary.Failed()
	if len(failed) == 0 {
		return nil
	}
	return werrors.New(werrors.CategoryBuild, werrors.SeverityError,
		fmt.Sprintf("command failed in %d of %d package(s)", len(failed), len(summary.Results)))
}

func (r *RunCmd) selectPackages(e *env) ([]string, error) {
	checked, err := e.ws.CheckedPackages()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Packages) == "all" {
		return checked, nil
	}
	selected := splitPackages(r.Packages)
	if len(selected) == 0 {
		return nil, werrors.ValidationFailed("packages", "no package selected")
	}
	for _, pkg := range selected {
		if !e.ws.IsReal(pkg) {
			return nil, werrors.ValidationFailed("packages", fmt.Sprintf("%s is not checked out in this workspace", pkg))
		}
	}
	return selected, nil
}

func writeRunManifest(e *env, summary execution.RunSummary, threads int, started time.Time, runErr error) {
	m := workspace.RunManifest{
		RunID:     uuid.NewString(),
		Command:   summary.Command,
		Threads:   threads,
		StartedAt: started,
		Elapsed:   summary.Elapsed,
		Outcome:   outcomeOf(runErr),
	}
	for _, r := range summary.Results {
		m.Packages = append(m.Packages, r.Package)
	}
	if runErr == nil && len(summary.Failed()) > 0 {
		m.Outcome = string(metrics.OutcomeFailed)
	}
	if runErr != nil {
		m.Error = runErr.Error()
	}
	if _, err := e.ws.Logs().WriteManifest(m); err != nil {
		e.console.Warning("Could not write run manifest: %v", err)
	}
}
