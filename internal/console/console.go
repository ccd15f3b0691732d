// Package console prints user-facing progress and summaries to a terminal.
//
// Console output is separate from the slog stream: logs describe what the
// tool did, console lines tell the user what happened to their packages.
package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#43BF6D"}
	failureColor = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B9770E", Dark: "#FFB347"}
)

// Console writes styled lines to w. It is safe for concurrent use.
type Console struct {
	mu sync.Mutex
	w  io.Writer

	bold    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
}

// New returns a Console writing to w. Colors are only emitted when w is a
// terminal that supports them.
func New(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:       w,
		bold:    r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(successColor),
		failure: r.NewStyle().Foreground(failureColor).Bold(true),
		warning: r.NewStyle().Foreground(warningColor),
	}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, s)
}

// Info prints a plain line.
func (c *Console) Info(format string, args ...any) {
	c.println(fmt.Sprintf(format, args...))
}

// Success prints a line in the success color.
func (c *Console) Success(format string, args ...any) {
	c.println(c.success.Render(fmt.Sprintf(format, args...)))
}

// Failure prints a line in the failure color.
func (c *Console) Failure(format string, args ...any) {
	c.println(c.failure.Render(fmt.Sprintf(format, args...)))
}

// Warning prints a line in the warning color.
func (c *Console) Warning(format string, args ...any) {
	c.println(c.warning.Render(fmt.Sprintf(format, args...)))
}

// Heading prints a bold line.
func (c *Console) Heading(format string, args ...any) {
	c.println(c.bold.Render(fmt.Sprintf(format, args...)))
}

// seconds renders d in whole seconds, the precision users care about.
func seconds(d time.Duration) string {
	return fmt.Sprintf("%.0fs", d.Seconds())
}
