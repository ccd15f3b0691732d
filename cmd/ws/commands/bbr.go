package commands

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/ws/internal/console"
	"git.home.luguber.info/inful/ws/internal/depgraph"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
	"git.home.luguber.info/inful/ws/internal/metrics"
	"git.home.luguber.info/inful/ws/internal/scheduler"
	"git.home.luguber.info/inful/ws/internal/util/sets"
	"git.home.luguber.info/inful/ws/internal/workspace"
)

// BbrCmd implements the 'bbr' command.
type BbrCmd struct {
	Target    string `arg:"" optional:"" help:"Build target to run, e.g. release (default: the configured build command alone)"`
	Threads   int    `short:"t" help:"Number of parallel builds (default: build.threads)"`
	GraphFile string `name:"graph-file" type:"existingfile" help:"Read the dependency graph from this dot file instead of running the graph command"`
}

func (b *BbrCmd) Run(g *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}

	graph, err := e.loadGraph(g, b.GraphFile)
	if err != nil {
		return err
	}
	checked, err := e.checkedSet()
	if err != nil {
		return err
	}
	graph = graph.AncestorsOf(sets.Sorted(checked))

	command := e.cfg.Build.Command
	if b.Target != "" {
		command += " " + b.Target
	}
	threads := b.Threads
	if threads == 0 {
		threads = e.cfg.Build.Threads
	}

	recorder := metrics.NewPrometheusRecorder(nil)
	logs := e.ws.Logs()
	runID := uuid.NewString()
	sched := scheduler.New(e.ws, e.runner, scheduler.Options{
		Command: command,
		Threads: threads,
		RunID:   runID,
		Reporter: console.NewBuildReporter(e.console, func(pkg string) string {
			dir, _ := logs.PackageDir(pkg)
			return dir
		}),
		Recorder: recorder,
	})

	started := time.Now()
	summary, runErr := sched.Run(g.ctx(), graph)

	manifest := workspace.RunManifest{
		RunID:      runID,
		Command:    command,
		Threads:    threads,
		Packages:   realNodes(graph, checked),
		StartedAt:  started,
		Elapsed:    time.Since(started),
		Sequential: summary.Sequential,
		Outcome:    outcomeOf(runErr),
	}
	if runErr != nil {
		manifest.Error = runErr.Error()
	}
	if path, err := logs.WriteManifest(manifest); err != nil {
		slog.Warn("Failed to write run manifest", logfields.Error(err))
	} else {
		slog.Debug("Wrote run manifest", logfields.RunID(runID), logfields.Path(path))
	}

	if e.cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(e.cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics", logfields.Path(e.cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	return runErr
}

// loadGraph reads graphFile when given, otherwise dumps the graph of the
// current package. Checked-out packages are painted either way.
func (e *env) loadGraph(g *Global, graphFile string) (*depgraph.Graph, error) {
	var (
		graph *depgraph.Graph
		err   error
	)
	if graphFile != "" {
		graph, err = depgraph.ParseFile(graphFile)
		if err != nil {
			return nil, werrors.GraphGenerationFailed(graphFile, err)
		}
	} else {
		pkg, perr := e.ws.CurrentPackage(e.cwd)
		if perr != nil {
			return nil, perr
		}
		e.console.Warning("Calculating dependency graph for %s...", pkg)
		graph, err = e.runner.DumpGraph(g.ctx(), pkg, e.cfg.Graph.Command)
		if err != nil {
			return nil, err
		}
		e.console.Success("Successfully determined dependency graph for %s", pkg)
	}

	checked, err := e.checkedSet()
	if err != nil {
		return nil, err
	}
	return graph.PaintNodes(checked, e.cfg.Graph.PaintColor), nil
}

// realNodes lists the graph nodes that are checked out, sorted.
func realNodes(graph *depgraph.Graph, checked sets.Set[string]) []string {
	return sets.Sorted(checked.Intersect(sets.New(graph.Names()...)))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return string(metrics.OutcomeSuccess)
	case werrors.IsCategory(err, werrors.CategoryRuntime):
		return string(metrics.OutcomeCanceled)
	default:
		return string(metrics.OutcomeFailed)
	}
}
