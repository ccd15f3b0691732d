package dot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write emits elements in canonical form, one per line. All elements except
// the first and the last are indented by two spaces, which is the layout the
// build tool itself produces for `digraph { ... }` bodies.
func Write(w io.Writer, elements []Element) error {
	bw := bufio.NewWriter(w)
	last := len(elements) - 1
	for i, e := range elements {
		if i != 0 && i != last {
			if _, err := bw.WriteString("  "); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(e.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format returns the canonical text of elements.
func Format(elements []Element) string {
	var b strings.Builder
	// writes to a strings.Builder cannot fail
	_ = Write(&b, elements)
	return b.String()
}

// WriteFile stores the canonical text of elements at path.
func WriteFile(path string, elements []Element) error {
	if err := os.WriteFile(path, []byte(Format(elements)), 0o644); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}
