// Package dot reads and writes the dependency graph text emitted by the
// workspace build tool.
//
// The format is a line-oriented subset of Graphviz DOT. Only two shapes are
// understood:
//
//	"<name>-<version>" /*<source>*/ [k="v", ...];
//	"<nameA>-<versionA>" -> "<nameB>-<versionB>"
//	    /*<source>*/ [k="v", ...];
//
// Every other line (graph header, attributes, closing brace, blank lines) is
// kept as PlainText so that Write reproduces a graph Graphviz can render.
// Unknown style text never fails a parse; it yields an empty Style.
package dot
