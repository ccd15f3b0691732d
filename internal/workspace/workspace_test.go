package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

const infoContent = `# workspace info
{
  versionSet = "Main/development";
  packages = {
    Stale-1.0 = .;
  }
}
`

// newTestWorkspace lays out a workspace with the given checked-out packages
// and one directory under src that is not a package.
func newTestWorkspace(t *testing.T, packages ...string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, InfoFile), infoContent)
	for _, pkg := range packages {
		writeFile(t, filepath.Join(root, SourceDir, pkg, ConfigFile),
			"package.Foo = {\n  interfaces = (1.0);\n};\n")
	}
	if err := os.MkdirAll(filepath.Join(root, SourceDir, "NotAPackage"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFind_WalksUpToWorkspaceRoot(t *testing.T) {
	root := newTestWorkspace(t, "DraLib")
	deep := filepath.Join(root, SourceDir, "DraLib", "src", "main")
	if err := os.MkdirAll(deep, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ws, err := Find(deep)
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	if ws.Root() != root {
		t.Errorf("Root() = %s, want %s", ws.Root(), root)
	}
}

func TestFind_NoWorkspace(t *testing.T) {
	_, err := Find(t.TempDir())
	if err == nil {
		t.Fatal("expected an error outside a workspace")
	}
	if !werrors.IsCategory(err, werrors.CategoryWorkspace) {
		t.Errorf("expected workspace category, got %v", werrors.GetCategory(err))
	}
	if !strings.Contains(err.Error(), "could not find workspace root folder") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCheckedPackages(t *testing.T) {
	root := newTestWorkspace(t, "DraLib", "AdnCore")
	ws := Open(root)

	got, err := ws.CheckedPackages()
	if err != nil {
		t.Fatalf("CheckedPackages() failed: %v", err)
	}
	if strings.Join(got, ",") != "AdnCore,DraLib" {
		t.Errorf("CheckedPackages() = %v", got)
	}
	if !ws.IsReal("DraLib") || ws.IsReal("NotAPackage") || ws.IsReal("Missing") {
		t.Error("IsReal() disagrees with the checked-out packages")
	}
}

func TestChecked_ReturnsIndependentCopy(t *testing.T) {
	ws := Open(newTestWorkspace(t, "DraLib"))

	checked, err := ws.Checked()
	if err != nil {
		t.Fatalf("Checked() failed: %v", err)
	}
	checked.Add("Injected")
	checked.Delete("DraLib")

	if !ws.IsReal("DraLib") || ws.IsReal("Injected") {
		t.Error("modifying the returned set changed the workspace")
	}
}

func TestLoad_UnreadableSourceDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, InfoFile), infoContent)
	// a regular file where the source directory belongs cannot be listed
	writeFile(t, filepath.Join(root, SourceDir), "not a directory")
	ws := Open(root)

	err := ws.Load()
	if err == nil {
		t.Fatal("expected Load() to fail")
	}
	if !werrors.IsCategory(err, werrors.CategoryFileSystem) {
		t.Errorf("expected file system category, got %v", werrors.GetCategory(err))
	}
	if ws.IsReal("DraLib") {
		t.Error("IsReal() must report false when the listing failed")
	}
	if _, err := ws.Checked(); err == nil {
		t.Error("Checked() must return the load error")
	}
}

func TestCheckedPackages_NoSourceDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, InfoFile), infoContent)

	got, err := Open(root).CheckedPackages()
	if err != nil {
		t.Fatalf("CheckedPackages() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no packages, got %v", got)
	}
}

func TestCurrentPackage(t *testing.T) {
	root := newTestWorkspace(t, "DraLib")
	ws := Open(root)
	inside := filepath.Join(root, SourceDir, "DraLib", "tst")
	if err := os.MkdirAll(inside, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	pkg, err := ws.CurrentPackage(inside)
	if err != nil {
		t.Fatalf("CurrentPackage() failed: %v", err)
	}
	if pkg != "DraLib" {
		t.Errorf("CurrentPackage() = %s, want DraLib", pkg)
	}

	if _, err := ws.CurrentPackage(root); err == nil {
		t.Error("expected an error at the workspace root")
	}
}

func TestPackageVersion(t *testing.T) {
	root := newTestWorkspace(t, "DraLib")
	ws := Open(root)

	v, err := ws.PackageVersion("DraLib")
	if err != nil {
		t.Fatalf("PackageVersion() failed: %v", err)
	}
	if v != "1.0" {
		t.Errorf("PackageVersion() = %s, want 1.0", v)
	}

	writeFile(t, filepath.Join(root, SourceDir, "NoVersion", ConfigFile), "package.Foo = {};")
	if _, err := ws.PackageVersion("NoVersion"); err == nil {
		t.Error("expected an error without interfaces")
	}
}

func TestSyncPackageInfo(t *testing.T) {
	root := newTestWorkspace(t, "DraLib", "AdnCore")
	ws := Open(root)

	if err := ws.SyncPackageInfo(); err != nil {
		t.Fatalf("SyncPackageInfo() failed: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(root, InfoFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(raw)
	if strings.Contains(content, "Stale-1.0") {
		t.Errorf("stale package kept:\n%s", content)
	}
	if !strings.Contains(content, "packages = {\n  AdnCore-1.0 = .;\n  DraLib-1.0 = .;\n}") {
		t.Errorf("unexpected packages block:\n%s", content)
	}
	if !strings.HasPrefix(content, "# workspace info") {
		t.Errorf("content outside the packages block changed:\n%s", content)
	}
}

func TestLogs_RunDirCreatedOnce(t *testing.T) {
	base := filepath.Join(t.TempDir(), "bws", "logs")
	logs := NewLogs(base)
	logs.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	first, err := logs.RunDir()
	if err != nil {
		t.Fatalf("RunDir() failed: %v", err)
	}
	if filepath.Base(first) != "2024_03_09_14_05_07" {
		t.Errorf("unexpected run directory name: %s", first)
	}
	second, _ := logs.RunDir()
	if first != second {
		t.Errorf("RunDir() changed between calls: %s vs %s", first, second)
	}

	stdout, stderr, err := logs.Files("DraLib")
	if err != nil {
		t.Fatalf("Files() failed: %v", err)
	}
	if stdout != filepath.Join(first, "DraLib", "stdout") || stderr != filepath.Join(first, "DraLib", "stderr") {
		t.Errorf("unexpected log files: %s %s", stdout, stderr)
	}
	if _, err := os.Stat(filepath.Dir(stdout)); err != nil {
		t.Errorf("package log directory missing: %v", err)
	}
}

func TestLogs_SameSecondGetsSuffix(t *testing.T) {
	base := t.TempDir()
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	var dirs []string
	for i := 0; i < 3; i++ {
		logs := NewLogs(base)
		logs.now = func() time.Time { return at }
		dir, err := logs.RunDir()
		if err != nil {
			t.Fatalf("RunDir() failed: %v", err)
		}
		dirs = append(dirs, filepath.Base(dir))
	}

	want := []string{"2024_03_09_14_05_07", "2024_03_09_14_05_07.01", "2024_03_09_14_05_07.02"}
	if strings.Join(dirs, " ") != strings.Join(want, " ") {
		t.Errorf("got %v, want %v", dirs, want)
	}
}

func TestCleanOlderThan(t *testing.T) {
	base := t.TempDir()
	now := time.Now()
	old := filepath.Join(base, "2020_01_01_00_00_00")
	recent := filepath.Join(base, "2020_01_02_00_00_00")
	for _, dir := range []string{old, recent} {
		if err := os.MkdirAll(filepath.Join(dir, "DraLib"), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.Chtimes(old, now.Add(-48*time.Hour), now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(recent, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	writeFile(t, filepath.Join(base, "notes.txt"), "keep me")

	result, err := CleanOlderThan(base, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("CleanOlderThan() failed: %v", err)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != old {
		t.Errorf("Deleted = %v", result.Deleted)
	}
	if len(result.Kept) != 1 || result.Kept[0] != recent {
		t.Errorf("Kept = %v", result.Kept)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old run directory still exists")
	}
	if _, err := os.Stat(filepath.Join(base, "notes.txt")); err != nil {
		t.Error("plain file was removed")
	}
}

func TestCleanOlderThan_MissingBase(t *testing.T) {
	result, err := CleanOlderThan(filepath.Join(t.TempDir(), "missing"), time.Hour, time.Now())
	if err != nil {
		t.Fatalf("CleanOlderThan() failed: %v", err)
	}
	if len(result.Deleted)+len(result.Kept) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}
