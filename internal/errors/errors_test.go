package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestWorkspaceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *WorkspaceError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestWorkspaceError_WithContext(t *testing.T) {
	err := New(CategoryBuild, SeverityFatal, "build failed").
		WithContext("package", "Core").
		WithContext("exit_code", 2)

	if err.Context["package"] != "Core" {
		t.Errorf("Context[package] = %v, want Core", err.Context["package"])
	}
	if err.Context["exit_code"] != 2 {
		t.Errorf("Context[exit_code] = %v, want 2", err.Context["exit_code"])
	}
}

func TestCategoryThroughWrapping(t *testing.T) {
	base := BuildFailed("Core", stdErrors.New("exit 2"))
	wrapped := fmt.Errorf("bbr: %w", base)

	if !IsCategory(wrapped, CategoryBuild) {
		t.Error("expected wrapped error to keep build category")
	}
	if GetCategory(wrapped) != CategoryBuild {
		t.Errorf("GetCategory() = %s, want build", GetCategory(wrapped))
	}
	if GetCategory(stdErrors.New("plain")) != CategoryInternal {
		t.Error("plain errors should classify as internal")
	}
	if !stdErrors.Is(wrapped, base.Cause) {
		t.Error("cause should be reachable with errors.Is")
	}
}

func TestExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{stdErrors.New("plain"), 1},
		{ValidationFailed("threads", "must be positive"), 2},
		{WorkspaceNotFound("Workspace", nil), 3},
		{GraphGenerationFailed("Core", stdErrors.New("x")), 4},
		{ConfigInvalid("ws.yaml", stdErrors.New("x")), 7},
		{SchedulingFailed(stdErrors.New("x")), 10},
		{BuildFailed("Core", stdErrors.New("x")), 11},
		{Interrupted(stdErrors.New("x")), 12},
	}

	for _, tc := range tests {
		if got := adapter.ExitCodeFor(tc.err); got != tc.code {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tc.err, got, tc.code)
		}
	}
}

func TestReportWritesMessage(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))

	var out bytes.Buffer
	code := adapter.Report(&out, BuildFailed("Core", stdErrors.New("exit status 2")))

	if code != 11 {
		t.Errorf("Report() code = %d, want 11", code)
	}
	if got := out.String(); !strings.Contains(got, "build failed for package Core") || !strings.Contains(got, "exit status 2") {
		t.Errorf("unexpected message %q", got)
	}

	out.Reset()
	_ = adapter.Report(&out, ValidationFailed("threads", "must be positive"))
	if got := out.String(); got != "ERROR: validation failed: threads: must be positive\n" {
		t.Errorf("unexpected validation message %q", got)
	}
}

func TestReportLogsInternalErrors(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))

	_ = adapter.Report(io.Discard, SchedulingFailed(stdErrors.New("completion for unknown node X")))
	if !strings.Contains(logs.String(), "category=internal") {
		t.Errorf("expected internal error to be logged, got %q", logs.String())
	}
}
