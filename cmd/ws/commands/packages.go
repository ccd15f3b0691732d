package commands

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/ws/internal/git"
	"git.home.luguber.info/inful/ws/internal/logfields"
)

// PackagesCmd implements the 'packages' command.
type PackagesCmd struct {
	Sync bool `help:"Rewrite the packages block of workspaceInfo from the checked-out packages"`
}

func (p *PackagesCmd) Run(_ *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}
	if p.Sync {
		if err := e.ws.SyncPackageInfo(); err != nil {
			return err
		}
		e.console.Success("Synchronized package info of %s", e.ws.Root())
	}

	checked, err := e.ws.CheckedPackages()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PACKAGE\tVERSION\tBRANCH\tHEAD\tSTATE")
	for _, pkg := range checked {
		version, err := e.ws.PackageVersion(pkg)
		if err != nil {
			slog.Debug("No package version", logfields.Package(pkg), logfields.Error(err))
			version = "-"
		}
		branch, head, state := "-", "-", "-"
		if st, err := git.ReadState(e.ws.PackageDir(pkg)); err == nil {
			branch, head, state = st.Branch, st.ShortHead(), describeState(st)
		} else {
			slog.Debug("No repository state", logfields.Package(pkg), logfields.Error(err))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", pkg, version, branch, head, state)
	}
	return tw.Flush()
}

func describeState(st git.State) string {
	state := "clean"
	if st.Dirty {
		state = "dirty"
	}
	if st.Ahead > 0 {
		state += fmt.Sprintf(", %d unpushed", st.Ahead)
	}
	return state
}
