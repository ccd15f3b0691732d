package commands

import (
	"time"

	"git.home.luguber.info/inful/ws/internal/workspace"
)

// CleanLogsCmd implements the 'clean-logs' command.
type CleanLogsCmd struct {
	Age string `help:"Maximum age of logs to keep, e.g. 1d34m (default: logs.retention)"`
}

func (c *CleanLogsCmd) Run(_ *Global, root *CLI) error {
	e, err := openEnv(root)
	if err != nil {
		return err
	}
	var maxAge time.Duration
	if c.Age == "" {
		maxAge, err = e.cfg.Retention()
	} else {
		maxAge, err = workspace.ParseAge(c.Age)
	}
	if err != nil {
		return err
	}

	result, err := workspace.CleanOlderThan(e.ws.Logs().Base(), maxAge, time.Now())
	e.console.CleanResult(result, workspace.PrettyAge(maxAge))
	return err
}
