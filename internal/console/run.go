package console

import (
	"git.home.luguber.info/inful/ws/internal/execution"
	"git.home.luguber.info/inful/ws/internal/scheduler"
)

// RunObserver prints per-package lines of `ws run`.
type RunObserver struct {
	c *Console
}

// NewRunObserver returns an execution.Observer writing to c.
func NewRunObserver(c *Console) *RunObserver {
	return &RunObserver{c: c}
}

var _ execution.Observer = (*RunObserver)(nil)

func (o *RunObserver) BeforePackage(pkg, command, dir string) {
	o.c.Info("Executing '%s' in %s...", command, dir)
}

func (o *RunObserver) AfterPackage(result scheduler.TaskResult, err error) {
	switch {
	case err != nil:
		o.c.Failure("Could not execute '%s' in %s: %v", result.Command, result.Package, err)
	case result.Success():
		o.c.Success("Executed '%s' in %s.", result.Command, result.Package)
	default:
		o.c.Failure("'%s' failed in %s with return code %d. You can check the logs under %s",
			result.Command, result.Package, result.ExitCode, result.LogDir())
	}
}

// RunStarted announces a `ws run` invocation.
func (c *Console) RunStarted(command string, packages int, logDir string) {
	c.Heading("Executing command '%s' in %d package(s). Logs will be located under %s", command, packages, logDir)
}

// RunSummary prints the successes and failures of a `ws run` invocation.
func (c *Console) RunSummary(summary execution.RunSummary) {
	c.Heading("======= Execution summary =======")
	if ok := summary.Succeeded(); len(ok) > 0 {
		c.Success("==== Successes ====")
		for _, r := range ok {
			c.Success("%s", r.Package)
		}
	}
	if failed := summary.Failed(); len(failed) > 0 {
		c.Failure("==== Failures ====")
		for _, r := range failed {
			c.Failure("%s", r.Package)
		}
	}
	c.Heading("Executed command '%s' in %d package(s) in %s", summary.Command, len(summary.Results), seconds(summary.Elapsed))
}
