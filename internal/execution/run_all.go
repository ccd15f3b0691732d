package execution

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
	"git.home.luguber.info/inful/ws/internal/scheduler"
)

// TemplatePlaceholder is replaced by the package name in template commands.
const TemplatePlaceholder = "{}"

// RunOptions configures RunAll.
type RunOptions struct {
	Threads int
	// Template substitutes TemplatePlaceholder with each package name.
	Template bool
	// WorkingDir overrides the package directory as the working directory.
	WorkingDir string
	Observer   Observer
}

// Observer is notified around each package command. Calls come from several
// goroutines at once.
type Observer interface {
	BeforePackage(pkg, command, dir string)
	AfterPackage(result scheduler.TaskResult, err error)
}

type nopObserver struct{}

func (nopObserver) BeforePackage(string, string, string)     {}
func (nopObserver) AfterPackage(scheduler.TaskResult, error) {}

// PackageResult pairs a package command result with the error, if the
// command could not be run at all.
type PackageResult struct {
	scheduler.TaskResult
	Err error
}

// Success reports whether the command ran and exited zero.
func (r PackageResult) Success() bool { return r.Err == nil && r.TaskResult.Success() }

// RunSummary is the outcome of RunAll, ordered by package name.
type RunSummary struct {
	Command string
	Results []PackageResult
	Elapsed time.Duration
}

// Succeeded returns the successful results.
func (s RunSummary) Succeeded() []PackageResult {
	return s.filter(true)
}

// Failed returns the failed results.
func (s RunSummary) Failed() []PackageResult {
	return s.filter(false)
}

func (s RunSummary) filter(success bool) []PackageResult {
	var out []PackageResult
	for _, r := range s.Results {
		if r.Success() == success {
			out = append(out, r)
		}
	}
	return out
}

// RunAll runs command in every package with at most opts.Threads commands at
// a time. A failing package does not stop the others; failures are reported
// in the summary. Only cancellation of ctx ends the run early.
func (r *Runner) RunAll(ctx context.Context, packages []string, command string, opts RunOptions) (RunSummary, error) {
	if opts.Threads < 1 {
		return RunSummary{}, werrors.ValidationFailed("threads", fmt.Sprintf("must be at least 1, got %d", opts.Threads))
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	// the run directory must exist before the goroutines ask for it
	if _, err := r.layout.Logs().RunDir(); err != nil {
		return RunSummary{}, err
	}

	sorted := slices.Clone(packages)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	slog.Info("Running command in packages",
		logfields.Command(command),
		logfields.Threads(opts.Threads),
		slog.Int("packages", len(sorted)))

	results := make([]PackageResult, len(sorted))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(opts.Threads)
	for i, pkg := range sorted {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = PackageResult{TaskResult: scheduler.TaskResult{Package: pkg, Command: command}, Err: ctx.Err()}
				return nil
			}
			cmd := command
			if opts.Template {
				cmd = strings.ReplaceAll(command, TemplatePlaceholder, pkg)
			}
			dir := opts.WorkingDir
			if dir == "" {
				dir = r.layout.PackageDir(pkg)
			}
			opts.Observer.BeforePackage(pkg, cmd, dir)
			res, err := r.runInPackage(ctx, pkg, cmd, dir)
			opts.Observer.AfterPackage(res, err)
			results[i] = PackageResult{TaskResult: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	summary := RunSummary{Command: command, Results: results, Elapsed: time.Since(start)}
	if ctx.Err() != nil {
		return summary, werrors.Interrupted(context.Cause(ctx))
	}
	return summary, nil
}
