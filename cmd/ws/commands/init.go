package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ws/internal/config"
	"git.home.luguber.info/inful/ws/internal/console"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/workspace"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing configuration file"`
	Output string `short:"o" type:"path" help:"Write the configuration here instead of <workspace>/.ws.yaml"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	path := i.Output
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		ws, err := workspace.Find(cwd)
		if err != nil {
			return err
		}
		path = filepath.Join(ws.Root(), config.WorkspaceFile)
	}
	return RunInit(console.New(os.Stdout), path, i.Force)
}

// RunInit writes the default configuration to path.
func RunInit(c *console.Console, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return werrors.ConfigInvalid(path, fmt.Errorf("configuration file already exists, use --force to overwrite it"))
	}
	c.Warning("Writing default configuration to %s", path)
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	c.Success("Initialized configuration")
	return nil
}
