package dot

import (
	"regexp"
	"strings"
)

var stylePropertyPattern = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)

// Attr is a single key="value" style property.
type Attr struct {
	Key   string
	Value string
}

// Style is an ordered set of style properties. Keys are unique; Set on an
// existing key replaces its value in place.
type Style []Attr

// ParseStyle extracts key="value" pairs from a style list. Text that does not
// look like a property is ignored, so malformed input gives an empty Style.
func ParseStyle(raw string) Style {
	var s Style
	for _, m := range stylePropertyPattern.FindAllStringSubmatch(raw, -1) {
		s = s.Set(m[1], m[2])
	}
	return s
}

// Len returns the number of properties.
func (s Style) Len() int { return len(s) }

// Get returns the value for key.
func (s Style) Get(key string) (string, bool) {
	for _, a := range s {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set returns a copy of s with key set to value. The receiver is not modified.
func (s Style) Set(key, value string) Style {
	out := make(Style, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Key: key, Value: value})
}

// Equal reports whether both styles hold the same properties in the same order.
func (s Style) Equal(other Style) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Style) String() string {
	parts := make([]string, 0, len(s))
	for _, a := range s {
		parts = append(parts, a.Key+`="`+a.Value+`"`)
	}
	return strings.Join(parts, ", ")
}

// Filled is the style given to highlighted nodes.
func Filled(color string) Style {
	return Style{{Key: "fillcolor", Value: color}, {Key: "style", Value: "filled"}}
}
