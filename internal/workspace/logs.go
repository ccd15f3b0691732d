package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
)

const (
	runDirLayout   = "2006_01_02_15_04_05"
	maxRunDirTries = 50
	stdoutFile     = "stdout"
	stderrFile     = "stderr"
)

// Logs hands out the log directories of a single run. The run directory is
// created on first use, before any parallel work needs it, and reused after.
type Logs struct {
	base string
	now  func() time.Time

	once sync.Once
	dir  string
	err  error
}

// NewLogs returns the log layout for run directories under base.
func NewLogs(base string) *Logs {
	return &Logs{base: base, now: time.Now}
}

// Base is the directory holding every run directory.
func (l *Logs) Base() string { return l.base }

// RunDir creates the run directory on the first call and returns it.
func (l *Logs) RunDir() (string, error) {
	l.once.Do(func() {
		l.dir, l.err = createTimeBasedDir(l.base, l.now())
		if l.err == nil {
			slog.Debug("Created run log directory", logfields.Dir(l.dir))
		}
	})
	return l.dir, l.err
}

// PackageDir creates and returns the log directory of pkg for this run.
func (l *Logs) PackageDir(pkg string) (string, error) {
	runDir, err := l.RunDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(runDir, pkg)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", werrors.FileSystemError("create package log directory", err).WithContext("path", dir)
	}
	return dir, nil
}

// Files returns the stdout and stderr log paths of pkg for this run.
func (l *Logs) Files(pkg string) (stdout, stderr string, err error) {
	dir, err := l.PackageDir(pkg)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, stdoutFile), filepath.Join(dir, stderrFile), nil
}

func createTimeBasedDir(base string, now time.Time) (string, error) {
	if err := os.MkdirAll(base, 0o750); err != nil {
		return "", werrors.FileSystemError("create logs directory", err).WithContext("path", base)
	}

	candidate := filepath.Join(base, now.Format(runDirLayout))
	for i := 1; ; i++ {
		err := os.Mkdir(candidate, 0o750)
		if err == nil {
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", werrors.FileSystemError("create run log directory", err).WithContext("path", candidate)
		}
		if i > maxRunDirTries {
			return "", werrors.FileSystemError("create run log directory",
				fmt.Errorf("no free directory name with prefix %s after %d attempts", candidate, maxRunDirTries))
		}
		candidate = filepath.Join(base, fmt.Sprintf("%s.%02d", now.Format(runDirLayout), i))
	}
}

// CleanResult lists what CleanOlderThan did with each run directory.
type CleanResult struct {
	Deleted []string
	Kept    []string
}

// CleanOlderThan removes the run directories under base whose modification
// time is more than maxAge before now. Plain files are left alone.
func CleanOlderThan(base string, maxAge time.Duration, now time.Time) (CleanResult, error) {
	var result CleanResult

	entries, err := os.ReadDir(base)
	if os.IsNotExist(err) {
		return result, nil
	}
	if err != nil {
		return result, werrors.FileSystemError("list logs", err).WithContext("path", base)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(base, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return result, werrors.FileSystemError("stat run log directory", err).WithContext("path", path)
		}
		if now.Sub(info.ModTime()) <= maxAge {
			result.Kept = append(result.Kept, path)
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return result, werrors.FileSystemError("delete run log directory", err).WithContext("path", path)
		}
		slog.Info("Deleted old build logs", logfields.Path(path))
		result.Deleted = append(result.Deleted, path)
	}
	return result, nil
}
