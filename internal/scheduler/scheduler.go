// Package scheduler builds every package of a dependency graph in dependency
// order with a bounded number of concurrent builds.
//
// A single coordinator goroutine owns the run state (which nodes are left,
// how many unfinished dependencies each has, accumulated statistics). Workers
// only execute builds and report back over a channel. The first failure
// cancels the run context: nothing new is dispatched, queued jobs are skipped
// and running builds see a cancelled context.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/ws/internal/depgraph"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
	"git.home.luguber.info/inful/ws/internal/metrics"
	"git.home.luguber.info/inful/ws/internal/util/sets"
)

// Options configures a Scheduler.
type Options struct {
	Command  string
	Threads  int
	RunID    string
	Reporter Reporter
	Recorder metrics.Recorder
}

// Scheduler runs a build command over a dependency graph.
type Scheduler struct {
	registry Registry
	builder  Builder
	opts     Options
}

// New returns a Scheduler. A nil Reporter or Recorder is replaced by a no-op.
func New(registry Registry, builder Builder, opts Options) *Scheduler {
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Scheduler{registry: registry, builder: builder, opts: opts}
}

// RunID identifies the run in logs and manifests.
func (s *Scheduler) RunID() string { return s.opts.RunID }

// completion is sent by a worker when a job finishes, or queued by the
// coordinator itself for nodes that need no build.
type completion struct {
	name   string
	real   bool
	result TaskResult
	err    error
}

// Run builds every real node of g once all of its dependencies completed.
// Every dependency named by a node must itself be a node of g; graphs from
// depgraph always satisfy this. Cycles are not detected: a cyclic graph
// blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, g *depgraph.Graph) (Summary, error) {
	if s.opts.Threads < 1 {
		return Summary{}, werrors.ValidationFailed("threads", fmt.Sprintf("must be at least 1, got %d", s.opts.Threads))
	}
	if l, ok := s.registry.(Loader); ok {
		if err := l.Load(); err != nil {
			return Summary{}, err
		}
	}

	state := newRunState(g, s.registry)
	total := state.total
	logger := slog.Default().With(logfields.RunID(s.opts.RunID))
	logger.Info("Starting build",
		logfields.Command(s.opts.Command),
		logfields.Threads(s.opts.Threads),
		logfields.Nodes(g.Len()),
		slog.Int("real", total))

	s.opts.Recorder.SetWorkers(s.opts.Threads)
	start := time.Now()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	jobs := make(chan string, g.Len())
	events := make(chan completion, g.Len())
	built := make(chan TaskResult, total)
	done := make(chan error, 1)

	var workers sync.WaitGroup
	for i := 0; i < s.opts.Threads; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			s.worker(runCtx, jobs, events)
		}()
	}

	go func() {
		done <- s.coordinate(runCtx, state, jobs, events, built, logger)
	}()

	fail := func(err error) (Summary, error) {
		cancel(err)
		workers.Wait()
		s.recordRun(time.Since(start), 0, err)
		logger.Error("Build aborted", logfields.Error(err))
		return Summary{}, err
	}

	coordinatorDone := false
	for i := 0; i < total; {
		select {
		case <-built:
			i++
			s.opts.Reporter.Progress(i, total)
		case err := <-done:
			if err != nil {
				return fail(err)
			}
			// every remaining result is already buffered in built
			coordinatorDone = true
			done = nil
		}
	}
	if !coordinatorDone {
		if err := <-done; err != nil {
			return fail(err)
		}
	}
	workers.Wait()

	elapsed := time.Since(start)
	sequential := state.stats[StatSequentialRunningTime]
	summary := Summary{
		RunID:      s.opts.RunID,
		Built:      total,
		Elapsed:    elapsed,
		Sequential: sequential,
		Saved:      sequential - elapsed,
	}
	s.recordRun(elapsed, summary.Saved, nil)
	logger.Info("Build finished",
		slog.Int("built", total),
		logfields.Duration(elapsed),
		slog.Float64("sequential_s", sequential.Seconds()))
	s.opts.Reporter.Finished(summary)
	return summary, nil
}

func (s *Scheduler) worker(ctx context.Context, jobs <-chan string, events chan<- completion) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-jobs:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			s.opts.Reporter.Started(name)
			result, err := s.builder.Build(ctx, name, s.opts.Command)
			result.Package = name
			events <- completion{name: name, real: true, result: result, err: err}
		}
	}
}

// coordinate owns state for the lifetime of the run. It returns nil once
// every node completed, or the first error.
func (s *Scheduler) coordinate(
	ctx context.Context,
	state *runState,
	jobs chan<- string,
	events <-chan completion,
	built chan<- TaskResult,
	logger *slog.Logger,
) error {
	defer close(jobs)

	var pending []string
	dispatch := func(name string) {
		if !state.registry.IsReal(name) {
			logger.Debug("Skipping package that is not checked out", logfields.Package(name))
			pending = append(pending, name)
			return
		}
		logger.Debug("Dispatching build", logfields.Package(name))
		jobs <- name
	}

	for _, name := range state.leaves() {
		dispatch(name)
	}

	for state.toBuild.Len() > 0 {
		var c completion
		if len(pending) > 0 {
			c = completion{name: pending[0]}
			pending = pending[1:]
		} else {
			select {
			case <-ctx.Done():
				return werrors.Interrupted(context.Cause(ctx))
			case c = <-events:
				// a build killed by the caller's cancellation is not a build failure
				if ctx.Err() != nil {
					return werrors.Interrupted(context.Cause(ctx))
				}
			}
		}

		ready, err := state.complete(c)
		if c.real {
			s.observe(c)
			if c.err == nil {
				s.opts.Reporter.Completed(c.result)
			}
		}
		if err != nil {
			return err
		}
		if c.real {
			built <- c.result
		}
		for _, name := range ready {
			dispatch(name)
		}
	}
	return nil
}

func (s *Scheduler) observe(c completion) {
	result := metrics.ResultSuccess
	if c.err != nil || !c.result.Success() {
		result = metrics.ResultFailed
	}
	s.opts.Recorder.ObservePackageDuration(c.name, c.result.Duration, result)
	s.opts.Recorder.IncPackageResult(result)
}

func (s *Scheduler) recordRun(elapsed, saved time.Duration, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case werrors.IsCategory(err, werrors.CategoryRuntime):
		outcome = metrics.OutcomeCanceled
	case err != nil:
		outcome = metrics.OutcomeFailed
	}
	s.opts.Recorder.ObserveRunDuration(elapsed)
	s.opts.Recorder.IncRunOutcome(outcome)
	if err == nil {
		s.opts.Recorder.SetTimeSaved(saved)
	}
}

// runState is the coordinator-owned bookkeeping of a run.
type runState struct {
	graph         *depgraph.Graph
	registry      Registry
	toBuild       sets.Set[string]
	remainingDeps map[string]int
	stats         map[string]time.Duration
	total         int
}

func newRunState(g *depgraph.Graph, registry Registry) *runState {
	st := &runState{
		graph:         g,
		registry:      registry,
		toBuild:       sets.New[string](),
		remainingDeps: make(map[string]int, g.Len()),
		stats:         map[string]time.Duration{StatSequentialRunningTime: 0},
	}
	for _, name := range g.Names() {
		node, _ := g.Node(name)
		st.toBuild.Add(name)
		st.remainingDeps[name] = node.NumDependencies()
		if registry.IsReal(name) {
			st.total++
		}
	}
	return st
}

// leaves returns the nodes with no dependencies, sorted by name.
func (st *runState) leaves() []string {
	var out []string
	for _, name := range st.graph.Names() {
		if st.remainingDeps[name] == 0 {
			out = append(out, name)
		}
	}
	return out
}

// complete records a finished node and returns the parents that became ready.
func (st *runState) complete(c completion) ([]string, error) {
	if !st.toBuild.Has(c.name) {
		return nil, werrors.SchedulingFailed(fmt.Errorf("unexpected completion of %q", c.name)).
			WithContext("package", c.name)
	}
	st.toBuild.Delete(c.name)

	if c.real {
		if c.err != nil {
			return nil, werrors.BuildFailed(c.name, c.err)
		}
		if !c.result.Success() {
			return nil, werrors.BuildFailed(c.name, fmt.Errorf("command %q exited with code %d", c.result.Command, c.result.ExitCode)).
				WithContext("exit_code", c.result.ExitCode)
		}
		st.stats[StatSequentialRunningTime] += c.result.Duration
	}

	node, _ := st.graph.Node(c.name)
	var ready []string
	for _, parent := range node.Parents() {
		st.remainingDeps[parent]--
		if st.remainingDeps[parent] == 0 {
			ready = append(ready, parent)
		}
	}
	return ready, nil
}
