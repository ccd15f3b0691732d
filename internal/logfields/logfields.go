package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPackage    = "package"
	KeyCommand    = "command"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyThreads    = "threads"
	KeyNodes      = "nodes"
	KeyRecipe     = "recipe"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr     { return slog.String(KeyRunID, id) }
func Package(name string) slog.Attr { return slog.String(KeyPackage, name) }
func Command(cmd string) slog.Attr  { return slog.String(KeyCommand, cmd) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr        { return slog.String(KeyDir, d) }
func ExitCode(code int) slog.Attr   { return slog.Int(KeyExitCode, code) }
func Threads(n int) slog.Attr       { return slog.Int(KeyThreads, n) }
func Nodes(n int) slog.Attr         { return slog.Int(KeyNodes, n) }
func Recipe(name string) slog.Attr  { return slog.String(KeyRecipe, name) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
