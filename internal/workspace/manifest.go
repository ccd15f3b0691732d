package workspace

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

// ManifestFile is the name of the run summary written in each run directory.
const ManifestFile = "run.yaml"

// RunManifest summarizes a run next to its logs.
type RunManifest struct {
	RunID      string        `yaml:"run_id"`
	Command    string        `yaml:"command"`
	Threads    int           `yaml:"threads"`
	Packages   []string      `yaml:"packages,omitempty"`
	StartedAt  time.Time     `yaml:"started_at"`
	Elapsed    time.Duration `yaml:"elapsed"`
	Sequential time.Duration `yaml:"sequential,omitempty"`
	Outcome    string        `yaml:"outcome"`
	Error      string        `yaml:"error,omitempty"`
}

// WriteManifest stores m in the run directory.
func (l *Logs) WriteManifest(m RunManifest) (string, error) {
	runDir, err := l.RunDir()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", werrors.Wrap(err, werrors.CategoryInternal, werrors.SeverityError, "failed to encode run manifest")
	}
	path := filepath.Join(runDir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", werrors.FileSystemError("write run manifest", err).WithContext("path", path)
	}
	return path, nil
}

// ReadManifest loads the manifest stored in runDir.
func ReadManifest(runDir string) (RunManifest, error) {
	var m RunManifest
	path := filepath.Join(runDir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return m, werrors.FileSystemError("read run manifest", err).WithContext("path", path)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, werrors.ConfigInvalid(path, err)
	}
	return m, nil
}
