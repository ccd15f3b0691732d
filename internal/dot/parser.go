package dot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	nodePattern = regexp.MustCompile(
		`^"(?P<name>[^"]*)-(?P<version>[^"]+)"(?: /\*(?P<source>.+?)\*/)?(?: \[(?P<style>.*)\])?;$`)
	edgePattern = regexp.MustCompile(
		`^"(?P<from>[^"]*)-(?P<fromVersion>[^"]+)" -> "(?P<to>[^"]*)-(?P<toVersion>[^"]+)"$`)
	edgeMetadataPattern = regexp.MustCompile(
		`^(?:/\*(?P<source>.+?)\*/)? ?(?:\[(?P<style>.*)\])?;$`)
)

// Parse reads a graph description and returns its elements in input order.
// Parsing never fails on content; the only errors are read errors.
func Parse(r io.Reader) ([]Element, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	elements := make([]Element, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := nodePattern.FindStringSubmatch(line); m != nil {
			elements = append(elements, Node{
				Name:    m[nodePattern.SubexpIndex("name")],
				Version: m[nodePattern.SubexpIndex("version")],
				Source:  m[nodePattern.SubexpIndex("source")],
				Style:   ParseStyle(m[nodePattern.SubexpIndex("style")]),
			})
			continue
		}

		if m := edgePattern.FindStringSubmatch(line); m != nil {
			edge := Edge{
				FromName:    m[edgePattern.SubexpIndex("from")],
				FromVersion: m[edgePattern.SubexpIndex("fromVersion")],
				ToName:      m[edgePattern.SubexpIndex("to")],
				ToVersion:   m[edgePattern.SubexpIndex("toVersion")],
			}
			if i+1 < len(lines) {
				if meta := edgeMetadataPattern.FindStringSubmatch(lines[i+1]); meta != nil {
					edge.Source = meta[edgeMetadataPattern.SubexpIndex("source")]
					edge.Style = ParseStyle(meta[edgeMetadataPattern.SubexpIndex("style")])
					i++
				}
			}
			elements = append(elements, edge)
			continue
		}

		elements = append(elements, PlainText{Content: line})
	}

	return elements, nil
}

// ParseString is Parse over an in-memory description.
func ParseString(text string) []Element {
	// reading from a strings.Reader cannot fail
	elements, _ := Parse(strings.NewReader(text))
	return elements
}

// ParseFile parses the description stored at path.
func ParseFile(path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer func() { _ = f.Close() }()

	elements, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read graph file %s: %w", path, err)
	}
	return elements, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}
