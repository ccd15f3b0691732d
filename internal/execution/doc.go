// Package execution runs shell commands inside workspace packages.
//
// Commands are interpreted by `sh -c` in the package directory. Output of
// package commands is appended to the package's stdout and stderr files of
// the current run, so a package that is built twice in one run keeps both
// logs. Each command runs in its own process group; cancelling the context
// kills the whole group, not only the shell.
package execution
