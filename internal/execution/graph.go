package execution

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/ws/internal/depgraph"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
)

// DumpGraph runs the graph command of a package and parses the dot file it
// names. The command prints the path of that file on stdout; relative paths
// are resolved against the package directory.
func (r *Runner) DumpGraph(ctx context.Context, pkg, command string) (*depgraph.Graph, error) {
	dir := r.layout.PackageDir(pkg)
	out, err := r.Output(ctx, dir, command)
	if err != nil {
		return nil, werrors.GraphGenerationFailed(pkg, err)
	}
	if out == "" {
		return nil, werrors.New(werrors.CategoryGraph, werrors.SeverityFatal, "graph command printed no file path").
			WithContext("package", pkg).
			WithContext("command", command)
	}

	path := out
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	slog.Debug("Reading dependency graph", logfields.Package(pkg), logfields.Path(path))

	g, err := depgraph.ParseFile(path)
	if err != nil {
		return nil, werrors.GraphGenerationFailed(pkg, err).WithContext("path", path)
	}
	return g, nil
}
