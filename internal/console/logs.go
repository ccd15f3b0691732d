package console

import "git.home.luguber.info/inful/ws/internal/workspace"

// CleanResult prints what a log cleanup deleted and kept. age is the
// threshold as the user typed it.
func (c *Console) CleanResult(result workspace.CleanResult, age string) {
	for _, path := range result.Deleted {
		c.Warning("Deleting %s as it is older than '%s'", path, age)
	}
	for _, path := range result.Kept {
		c.Info("Keeping %s", path)
	}
	if len(result.Deleted) == 0 {
		c.Info("No build logs older than '%s'", age)
	}
}
