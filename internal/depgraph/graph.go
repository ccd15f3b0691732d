// Package depgraph models the package dependency graph of a workspace.
//
// A Graph keeps the parsed dot elements in input order, so it can be written
// back out unchanged, and an arena of nodes keyed by package name. Filtering
// and painting never modify a graph; they return a new one.
package depgraph

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/ws/internal/dot"
	"git.home.luguber.info/inful/ws/internal/util/sets"
)

// Node is a package in the graph. Dependencies are the packages it needs
// built first; Parents are the packages that depend on it.
type Node struct {
	Name         string
	dependencies sets.Set[string]
	parents      sets.Set[string]
}

// Dependencies returns the names of the node's dependencies, sorted.
func (n *Node) Dependencies() []string { return sets.Sorted(n.dependencies) }

// Parents returns the names of the packages depending on n, sorted.
func (n *Node) Parents() []string { return sets.Sorted(n.parents) }

// DependsOn reports whether n declares a dependency on name.
func (n *Node) DependsOn(name string) bool { return n.dependencies.Has(name) }

// NumDependencies is the number of declared dependencies.
func (n *Node) NumDependencies() int { return n.dependencies.Len() }

// Graph is an ordered element sequence plus the node arena derived from it.
type Graph struct {
	elements []dot.Element
	nodes    map[string]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// FromElements builds a graph by adding every element in order.
func FromElements(elements []dot.Element) *Graph {
	g := New()
	for _, e := range elements {
		g.Add(e)
	}
	return g
}

// Parse reads a graph from its dot text.
func Parse(r io.Reader) (*Graph, error) {
	elements, err := dot.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromElements(elements), nil
}

// ParseString is Parse over an in-memory description.
func ParseString(text string) *Graph {
	return FromElements(dot.ParseString(text))
}

// ParseFile reads the graph stored at path.
func ParseFile(path string) (*Graph, error) {
	elements, err := dot.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return FromElements(elements), nil
}

// Add appends e to the graph. Nodes are created the first time their name is
// seen; an edge links its endpoints in both directions.
func (g *Graph) Add(e dot.Element) {
	g.elements = append(g.elements, e)

	switch el := e.(type) {
	case dot.Node:
		g.ensure(el.Name)
	case dot.Edge:
		from := g.ensure(el.FromName)
		to := g.ensure(el.ToName)
		from.dependencies.Add(to.Name)
		to.parents.Add(from.Name)
	}
}

func (g *Graph) ensure(name string) *Node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &Node{
		Name:         name,
		dependencies: sets.New[string](),
		parents:      sets.New[string](),
	}
	g.nodes[name] = n
	return n
}

// Node returns the node called name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Has reports whether the graph contains a node called name.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Names returns every node name, sorted.
func (g *Graph) Names() []string {
	names := sets.New[string]()
	for name := range g.nodes {
		names.Add(name)
	}
	return sets.Sorted(names)
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Elements returns a copy of the element sequence.
func (g *Graph) Elements() []dot.Element {
	out := make([]dot.Element, len(g.elements))
	copy(out, g.elements)
	return out
}

// FilterNodes returns the subgraph of nodes satisfying keep. Plain text is
// always retained; an edge survives only when both endpoints do.
func (g *Graph) FilterNodes(keep func(name string) bool) *Graph {
	out := New()
	for _, e := range g.elements {
		switch el := e.(type) {
		case dot.Node:
			if !keep(el.Name) {
				continue
			}
		case dot.Edge:
			if !keep(el.FromName) || !keep(el.ToName) {
				continue
			}
		}
		out.Add(e)
	}
	return out
}

// FilterPrefix keeps the nodes whose name starts with prefix.
func (g *Graph) FilterPrefix(prefix string) *Graph {
	return g.FilterNodes(func(name string) bool {
		return strings.HasPrefix(name, prefix)
	})
}

// FilterSet keeps the nodes named in names.
func (g *Graph) FilterSet(names sets.Set[string]) *Graph {
	return g.FilterNodes(names.Has)
}

// AncestorsOf returns the subgraph made of the given leaves and everything
// that transitively depends on them. Leaves absent from the graph are ignored.
func (g *Graph) AncestorsOf(leaves []string) *Graph {
	closure := sets.New[string]()
	var worklist []string
	for _, leaf := range leaves {
		if g.Has(leaf) && !closure.Has(leaf) {
			closure.Add(leaf)
			worklist = append(worklist, leaf)
		}
	}

	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for parent := range g.nodes[name].parents {
			if closure.Has(parent) {
				continue
			}
			closure.Add(parent)
			worklist = append(worklist, parent)
		}
	}

	return g.FilterSet(closure)
}

// PaintNodes returns a copy of the graph where every Node element named in
// names is filled with color. Edges and other nodes are unchanged.
func (g *Graph) PaintNodes(names sets.Set[string], color string) *Graph {
	out := New()
	for _, e := range g.elements {
		if n, ok := e.(dot.Node); ok && names.Has(n.Name) {
			n.Style = dot.Filled(color)
			e = n
		}
		out.Add(e)
	}
	return out
}

// WriteTo writes the graph in dot form.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := dot.Write(cw, g.elements); err != nil {
		return cw.n, fmt.Errorf("write graph: %w", err)
	}
	return cw.n, nil
}

// String returns the dot form of the graph.
func (g *Graph) String() string {
	return dot.Format(g.elements)
}

// WriteFile stores the dot form of the graph at path.
func (g *Graph) WriteFile(path string) error {
	return dot.WriteFile(path, g.elements)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
