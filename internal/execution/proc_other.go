//go:build !unix

package execution

import "os/exec"

// isolate keeps the default behaviour: cancellation kills the shell only.
func isolate(*exec.Cmd) {}
