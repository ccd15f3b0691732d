package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
	"git.home.luguber.info/inful/ws/internal/scheduler"
	"git.home.luguber.info/inful/ws/internal/workspace"
)

// waitDelay bounds how long Wait blocks on output pipes after the process
// group was killed.
const waitDelay = 5 * time.Second

// Layout is the part of a workspace the runner needs.
type Layout interface {
	PackageDir(name string) string
	Logs() *workspace.Logs
}

// Runner executes commands in workspace packages. It implements
// scheduler.Builder.
type Runner struct {
	layout Layout
	shell  string
}

var _ scheduler.Builder = (*Runner)(nil)

// NewRunner returns a Runner for the given workspace layout.
func NewRunner(layout Layout) *Runner {
	return &Runner{layout: layout, shell: "sh"}
}

func (r *Runner) command(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.WaitDelay = waitDelay
	isolate(cmd)
	return cmd
}

// Build runs command in the directory of package name, appending its output
// to the package log files. A command that ran and exited non-zero is not an
// error; the exit code is in the result. Errors mean the command could not be
// run or was cancelled.
func (r *Runner) Build(ctx context.Context, name, command string) (scheduler.TaskResult, error) {
	return r.runInPackage(ctx, name, command, r.layout.PackageDir(name))
}

func (r *Runner) runInPackage(ctx context.Context, name, command, dir string) (scheduler.TaskResult, error) {
	result := scheduler.TaskResult{Package: name, Command: command, WorkingDir: dir}

	stdoutPath, stderrPath, err := r.layout.Logs().Files(name)
	if err != nil {
		return result, err
	}
	result.StdoutPath, result.StderrPath = stdoutPath, stderrPath

	stdout, err := openAppend(stdoutPath)
	if err != nil {
		return result, err
	}
	defer func() { _ = stdout.Close() }()
	stderr, err := openAppend(stderrPath)
	if err != nil {
		return result, err
	}
	defer func() { _ = stderr.Close() }()

	cmd := r.command(ctx, command)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	slog.Debug("Running package command", logfields.Package(name), logfields.Command(command), logfields.Dir(dir))
	start := time.Now()
	err = cmd.Run()
	result.Duration = time.Since(start)

	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("command %q for package %s cancelled: %w", command, name, context.Cause(ctx))
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("run command %q for package %s: %w", command, name, err)
	}

	slog.Debug("Package command finished",
		logfields.Package(name),
		logfields.ExitCode(result.ExitCode),
		logfields.Duration(result.Duration))
	return result, nil
}

// Output runs command in dir and returns its trimmed stdout. A non-zero exit
// is an error carrying the command's stderr.
func (r *Runner) Output(ctx context.Context, dir, command string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, command)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("command %q in %s: %w", command, dir, err)
		}
		return "", fmt.Errorf("command %q in %s: %w: %s", command, dir, err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, werrors.FileSystemError("open log file", err).WithContext("path", path)
	}
	return f, nil
}
