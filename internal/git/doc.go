// Package git reads the local state of package repositories: current branch,
// HEAD commit, uncommitted changes and commits not yet on the remote branch.
//
// Everything is read through go-git; no git binary is needed.
package git
