package scheduler

import (
	"context"
	"path/filepath"
	"time"
)

// StatSequentialRunningTime is the stats key accumulating the duration of
// every successful build, i.e. the time a one-at-a-time run would have taken.
const StatSequentialRunningTime = "sequential_running_time"

// Registry tells the scheduler which graph nodes are packages that need an
// actual build. Other nodes complete immediately.
type Registry interface {
	IsReal(name string) bool
}

// Loader is implemented by registries whose listing can fail. Run calls Load
// before scheduling anything and returns its error.
type Loader interface {
	Load() error
}

// Builder runs the build command for one package. A non-nil error or a
// non-zero exit code both count as a failed build.
type Builder interface {
	Build(ctx context.Context, name, command string) (TaskResult, error)
}

// TaskResult describes one finished build.
type TaskResult struct {
	Package    string
	Command    string
	ExitCode   int
	Duration   time.Duration
	WorkingDir string
	StdoutPath string
	StderrPath string
}

// Success reports whether the build exited with status zero.
func (r TaskResult) Success() bool { return r.ExitCode == 0 }

// LogDir is the directory holding the build's stdout and stderr files.
func (r TaskResult) LogDir() string {
	if r.StdoutPath == "" {
		return ""
	}
	return filepath.Dir(r.StdoutPath)
}

// Summary is returned by a successful run.
type Summary struct {
	RunID      string
	Built      int
	Elapsed    time.Duration
	Sequential time.Duration
	// Saved is Sequential minus Elapsed. It is negative when the parallel run
	// was slower than building one package at a time.
	Saved time.Duration
}

// Reporter receives progress events. Started is called from worker
// goroutines, so implementations must be safe for concurrent use.
type Reporter interface {
	Started(pkg string)
	Completed(result TaskResult)
	Progress(built, total int)
	Finished(summary Summary)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) Started(string)       {}
func (NopReporter) Completed(TaskResult) {}
func (NopReporter) Progress(int, int)    {}
func (NopReporter) Finished(Summary)     {}
