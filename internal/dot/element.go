package dot

import (
	"fmt"
	"strings"
)

// Element is one parsed unit of a graph description.
// Implementations are PlainText, Node and Edge.
type Element interface {
	fmt.Stringer
	element()
}

// PlainText is a line the parser does not interpret.
type PlainText struct {
	Content string
}

func (PlainText) element() {}

func (p PlainText) String() string { return p.Content }

// Node declares a package. Source is empty when the declaration had none.
type Node struct {
	Name    string
	Version string
	Source  string
	Style   Style
}

func (Node) element() {}

func (n Node) String() string {
	return formatNode(n.Name, n.Version) + formatSource(n.Source) + formatStyle(n.Style) + ";"
}

// Edge declares that From depends on To.
type Edge struct {
	FromName    string
	FromVersion string
	ToName      string
	ToVersion   string
	Source      string
	Style       Style
}

func (Edge) element() {}

func (e Edge) String() string {
	var b strings.Builder
	b.WriteString(formatNode(e.FromName, e.FromVersion))
	b.WriteString(" -> ")
	b.WriteString(formatNode(e.ToName, e.ToVersion))
	b.WriteString("\n    ")
	// the metadata line carries no leading space before its first field
	meta := strings.TrimPrefix(formatSource(e.Source)+formatStyle(e.Style), " ")
	b.WriteString(meta)
	b.WriteString(";")
	return b.String()
}

func formatNode(name, version string) string {
	if version == "" {
		return `"` + name + `"`
	}
	return `"` + name + "-" + version + `"`
}

func formatSource(source string) string {
	if source == "" {
		return ""
	}
	return " /*" + source + "*/"
}

func formatStyle(s Style) string {
	if s.Len() == 0 {
		return ""
	}
	return " [" + s.String() + "]"
}
