package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"git.home.luguber.info/inful/ws/internal/config"
	"git.home.luguber.info/inful/ws/internal/depgraph"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

// GraphCmd implements the 'graph' command.
type GraphCmd struct {
	Recipe    string `short:"r" required:"" help:"Recipe to use: all, checked (parents of checked-out packages) or a configured prefix recipe"`
	Open      bool   `help:"Open the rendered graph with the system viewer"`
	GraphFile string `name:"graph-file" type:"existingfile" help:"Read the dependency graph from this dot file instead of running the graph command"`
}

func (c *GraphCmd) Run(g *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}
	if !knownRecipe(e.cfg, c.Recipe) {
		return unknownRecipe(e.cfg, c.Recipe)
	}
	pkg, err := e.ws.CurrentPackage(e.cwd)
	if err != nil {
		return err
	}

	graph, err := e.loadGraph(g, c.GraphFile)
	if err != nil {
		return err
	}
	graph, err = applyRecipe(graph, c.Recipe, e)
	if err != nil {
		return err
	}

	dotPath := filepath.Join(e.ws.PackageDir(pkg), c.Recipe+".dependencies.dot")
	if err := graph.WriteFile(dotPath); err != nil {
		return werrors.FileSystemError("write graph", err).WithContext("path", dotPath)
	}
	e.console.Info("Wrote %s (%d packages)", dotPath, graph.Len())

	renderCmd := e.cfg.Graph.Renderer + " " + shellQuote(dotPath)
	if _, err := e.runner.Output(g.ctx(), filepath.Dir(dotPath), renderCmd); err != nil {
		return werrors.GraphGenerationFailed(pkg, fmt.Errorf("render graph: %w", err))
	}

	rendered := dotPath
	if svg := dotPath + ".svg"; fileExists(svg) {
		rendered = svg
	}
	e.console.Success("Rendered dependency graph to %s", rendered)

	if c.Open {
		return openFile(rendered)
	}
	return nil
}

// applyRecipe narrows graph according to a recipe name.
func applyRecipe(graph *depgraph.Graph, recipe string, e *env) (*depgraph.Graph, error) {
	switch recipe {
	case config.RecipeAll:
		return graph, nil
	case config.RecipeChecked:
		checked, err := e.ws.CheckedPackages()
		if err != nil {
			return nil, err
		}
		return graph.AncestorsOf(checked), nil
	}
	prefix, ok := e.cfg.Graph.Recipes[recipe]
	if !ok {
		return nil, unknownRecipe(e.cfg, recipe)
	}
	return graph.FilterPrefix(prefix), nil
}

func knownRecipe(cfg *config.Config, recipe string) bool {
	_, ok := cfg.Graph.Recipes[recipe]
	return ok || recipe == config.RecipeAll || recipe == config.RecipeChecked
}

func unknownRecipe(cfg *config.Config, recipe string) error {
	return werrors.UnknownRecipe(recipe).WithContext("available", strings.Join(recipeNames(cfg), ", "))
}

func recipeNames(cfg *config.Config) []string {
	names := []string{config.RecipeAll, config.RecipeChecked}
	for name := range cfg.Graph.Recipes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// openFile hands path to the desktop's default viewer.
func openFile(path string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	cmd := exec.Command(opener, path)
	if err := cmd.Start(); err != nil {
		return werrors.Wrap(err, werrors.CategoryRuntime, werrors.SeverityWarning, "failed to open "+path).
			WithContext("opener", opener)
	}
	// the viewer outlives us
	return cmd.Process.Release()
}
