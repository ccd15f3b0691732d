package console

import (
	"git.home.luguber.info/inful/ws/internal/scheduler"
)

// BuildReporter prints scheduler progress.
type BuildReporter struct {
	c *Console
	// LogDir maps a package to the directory its build logs go to.
	LogDir func(pkg string) string
}

// NewBuildReporter returns a scheduler.Reporter writing to c.
func NewBuildReporter(c *Console, logDir func(pkg string) string) *BuildReporter {
	return &BuildReporter{c: c, LogDir: logDir}
}

var _ scheduler.Reporter = (*BuildReporter)(nil)

func (r *BuildReporter) Started(pkg string) {
	if r.LogDir == nil {
		return
	}
	r.c.Info("Build logs for %s will be located at %s", pkg, r.LogDir(pkg))
}

func (r *BuildReporter) Completed(result scheduler.TaskResult) {
	if result.Success() {
		r.c.Success("Command '%s' for package %s succeeded in %s.", result.Command, result.Package, seconds(result.Duration))
		return
	}
	r.c.Failure("Command '%s' for package %s failed with return code %d in %s. You can check the logs under %s",
		result.Command, result.Package, result.ExitCode, seconds(result.Duration), result.LogDir())
}

func (r *BuildReporter) Progress(built, total int) {
	r.c.Heading("Built %d/%d package(s)", built, total)
}

func (r *BuildReporter) Finished(summary scheduler.Summary) {
	r.c.Success("Built %d packages in %s", summary.Built, seconds(summary.Elapsed))
	// a negative saving is reported as is
	r.c.Success("You saved approximately %s compared to running sequentially", seconds(summary.Saved))
}
