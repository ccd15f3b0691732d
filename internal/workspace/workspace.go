package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/logfields"
	"git.home.luguber.info/inful/ws/internal/util/sets"
)

const (
	// InfoFile marks the root of a workspace.
	InfoFile = "workspaceInfo"
	// ConfigFile marks the root of a checked-out package.
	ConfigFile = "Config"
	// SourceDir holds the checked-out packages.
	SourceDir = "src"
)

var (
	interfacesPattern    = regexp.MustCompile(`interfaces=\((.+?)\);`)
	packagesBlockPattern = regexp.MustCompile(`(?s)packages = \{(.*?)\}`)
	whitespacePattern    = regexp.MustCompile(`\s`)
)

// Workspace is a workspace rooted at a directory holding InfoFile.
type Workspace struct {
	root string

	once    sync.Once
	checked sets.Set[string]
	err     error

	logs *Logs
}

// Find walks up from start to the nearest directory containing InfoFile.
func Find(start string) (*Workspace, error) {
	root, err := findUp(start, InfoFile)
	if err != nil {
		return nil, werrors.WorkspaceNotFound("workspace", err).WithContext("start", start)
	}
	slog.Debug("Found workspace", logfields.Path(root))
	return Open(root), nil
}

// Open returns the workspace rooted at root without any lookup.
func Open(root string) *Workspace {
	return &Workspace{root: root, logs: NewLogs(filepath.Join(root, "bws", "logs"))}
}

// Root is the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// PackageDir is the directory of a package, checked out or not.
func (w *Workspace) PackageDir(name string) string {
	return filepath.Join(w.root, SourceDir, name)
}

// Logs returns the log layout of the current run.
func (w *Workspace) Logs() *Logs { return w.logs }

// CheckedPackages lists the checked-out packages, sorted. The listing is read
// once and cached for the lifetime of the Workspace.
func (w *Workspace) CheckedPackages() ([]string, error) {
	if err := w.Load(); err != nil {
		return nil, err
	}
	return sets.Sorted(w.checked), nil
}

// Checked returns the checked-out packages as a set the caller may modify.
func (w *Workspace) Checked() (sets.Set[string], error) {
	if err := w.Load(); err != nil {
		return nil, err
	}
	return w.checked.Clone(), nil
}

// IsReal reports whether name is a checked-out package, i.e. one that needs
// an actual build. Safe for concurrent use. It requires a successful Load: if
// the package listing failed, every name reports false.
func (w *Workspace) IsReal(name string) bool {
	if err := w.Load(); err != nil {
		return false
	}
	return w.checked.Has(name)
}

// Load reads the package listing once and returns the error of that read on
// every call.
func (w *Workspace) Load() error {
	w.once.Do(func() {
		w.checked, w.err = listChecked(filepath.Join(w.root, SourceDir))
	})
	return w.err
}

func listChecked(srcDir string) (sets.Set[string], error) {
	checked := sets.New[string]()
	entries, err := os.ReadDir(srcDir)
	if os.IsNotExist(err) {
		return checked, nil
	}
	if err != nil {
		return nil, werrors.FileSystemError("list packages", err).WithContext("path", srcDir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if isFile(filepath.Join(srcDir, entry.Name(), ConfigFile)) {
			checked.Add(entry.Name())
		}
	}
	return checked, nil
}

// CurrentPackage returns the package containing dir, found by walking up to
// the nearest Config file.
func (w *Workspace) CurrentPackage(dir string) (string, error) {
	pkgRoot, err := findUp(dir, ConfigFile)
	if err != nil {
		return "", werrors.WorkspaceNotFound("package", err).WithContext("start", dir)
	}
	rel, err := filepath.Rel(filepath.Join(w.root, SourceDir), pkgRoot)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", werrors.WorkspaceNotFound("package", fmt.Errorf("%s is not under %s", pkgRoot, filepath.Join(w.root, SourceDir)))
	}
	return filepath.ToSlash(rel), nil
}

// PackageVersion reads the interface version declared in a package's Config.
func (w *Workspace) PackageVersion(name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(w.PackageDir(name), ConfigFile))
	if err != nil {
		return "", werrors.FileSystemError("read package config", err).WithContext("package", name)
	}
	compact := whitespacePattern.ReplaceAllString(string(raw), "")
	matches := interfacesPattern.FindAllStringSubmatch(compact, -1)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("could not find package version for %s", name)
	case 1:
		return matches[0][1], nil
	default:
		return "", fmt.Errorf("found multiple package versions for %s", name)
	}
}

// SyncPackageInfo rewrites the packages block of workspaceInfo so that it
// lists every checked-out package with its version.
func (w *Workspace) SyncPackageInfo() error {
	path := filepath.Join(w.root, InfoFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return werrors.FileSystemError("read workspace info", err).WithContext("path", path)
	}

	checked, err := listChecked(filepath.Join(w.root, SourceDir))
	if err != nil {
		return err
	}

	var block strings.Builder
	for _, name := range sets.Sorted(checked) {
		version, err := w.PackageVersion(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(&block, "\n  %s-%s = .;", name, version)
	}
	block.WriteString("\n")

	content := string(raw)
	loc := packagesBlockPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return fmt.Errorf("failed to parse package info in %s", path)
	}
	updated := content[:loc[2]] + block.String() + content[loc[3]:]

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return werrors.FileSystemError("write workspace info", err).WithContext("path", path)
	}
	return nil
}

// findUp returns the first directory from start upwards that holds a regular
// file called marker.
func findUp(start, marker string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isFile(filepath.Join(dir, marker)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s file in %s or any parent directory", marker, start)
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
