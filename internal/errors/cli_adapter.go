package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if we, ok := As(err); ok {
		return a.exitCodeFromCategory(we.Category)
	}

	return 1
}

// exitCodeFromCategory maps WorkspaceError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(category ErrorCategory) int {
	switch category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryWorkspace, CategoryFileSystem, CategoryGit:
		return 3 // Local state error
	case CategoryGraph:
		return 4 // Dependency graph error
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryBuild:
		return 11 // Build error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if we, ok := As(err); ok {
		return a.formatWorkspaceError(we)
	}

	return fmt.Sprintf("ERROR: %v", err)
}

func (a *CLIErrorAdapter) formatWorkspaceError(err *WorkspaceError) string {
	if a.verbose {
		return "ERROR: " + err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return "ERROR: " + err.Message
	default:
		if err.Cause != nil {
			return fmt.Sprintf("ERROR: %s: %v", err.Message, err.Cause)
		}
		return "ERROR: " + err.Message
	}
}

// Report logs err when appropriate, writes the formatted message to w and
// returns the exit code the process should terminate with.
func (a *CLIErrorAdapter) Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintln(w, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if we, ok := As(err); ok {
		return we.Category == CategoryInternal || we.Category == CategoryRuntime
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if we, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(we.Category)),
		}
		for k, v := range we.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if we.Cause != nil {
			attrs = append(attrs, slog.String("cause", we.Cause.Error()))
		}
		a.logger.LogAttrs(context.Background(), slogLevelFromSeverity(we.Severity), we.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
