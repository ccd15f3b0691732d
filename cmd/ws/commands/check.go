package commands

import (
	"fmt"

	"git.home.luguber.info/inful/ws/internal/git"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Branch  string `short:"b" default:"mainline" help:"Remote branch to compare against for packages whose branch has no remote counterpart"`
	Command string `short:"c" help:"Command to run in each package with unpushed commits, {} is replaced by the package name (default: list the unpushed commits)"`
	Threads int    `short:"t" help:"Number of parallel commands (default: run.threads)"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}
	checked, err := e.ws.CheckedPackages()
	if err != nil {
		return err
	}

	e.console.Info("Looking for packages with unpushed local commits...")
	var pending []string
	for _, pkg := range checked {
		repo, err := git.Open(e.ws.PackageDir(pkg))
		if err != nil {
			return err
		}
		n, err := repo.Unpushed(c.Branch)
		if err != nil {
			return err
		}
		if n < 0 {
			e.console.Warning("Could not find a remote branch to compare %s against", pkg)
			continue
		}
		if n > 0 {
			pending = append(pending, pkg)
		}
	}
	e.console.Info("Found %d package(s) with unpushed local commits", len(pending))

	if c.Command != "" {
		return e.runInPackages(g.ctx(), pending, c.Command, c.Threads, true)
	}
	return e.runInPackages(g.ctx(), pending, c.defaultCommand(), c.Threads, false)
}

// defaultCommand lists the commits missing from the tracked branch, or from
// the fallback branch when nothing is tracked.
func (c *CheckCmd) defaultCommand() string {
	return fmt.Sprintf("git --no-pager log --oneline --decorate '@{upstream}..HEAD' 2>/dev/null || git --no-pager log --oneline --decorate %s..HEAD",
		shellQuote(git.DefaultRemote+"/"+c.Branch))
}
