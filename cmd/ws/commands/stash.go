package commands

// StashCmd implements the 'stash' command.
type StashCmd struct {
	Name    string `short:"n" required:"" help:"Name of the stash"`
	Threads int    `short:"t" help:"Number of parallel commands (default: run.threads)"`
}

func (s *StashCmd) Run(g *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}
	dirty, err := e.dirtyPackages()
	if err != nil {
		return err
	}
	return e.runInPackages(g.ctx(), dirty, "git stash save "+shellQuote(s.Name), s.Threads, false)
}
