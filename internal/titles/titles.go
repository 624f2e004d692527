// Package titles reads the plain-text rom title lists that ship alongside
// each system (rom_titles_<system>.txt). Each line is a set name followed by
// a display title, whitespace separated.
package titles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

var placeholderTitles = map[string]struct{}{
	"untitled": {},
	"unknown":  {},
	"no title": {},
}

// ParseFile reads a title list from disk.
func ParseFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open titles %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a title list. Malformed or placeholder lines are skipped
// individually; the rest of the file continues to parse.
func Parse(r io.Reader) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cut := strings.IndexFunc(line, unicode.IsSpace)
		if cut < 0 {
			continue
		}
		key := strings.ToLower(line[:cut])
		title := strings.Trim(strings.TrimSpace(line[cut:]), `"`)
		if title == "" {
			continue
		}
		if _, bad := placeholderTitles[strings.ToLower(title)]; bad {
			continue
		}
		result[key] = title
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan titles: %w", err)
	}
	return result, nil
}
