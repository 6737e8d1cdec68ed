// Package wif splits weaving information file text into named sections.
//
// The format is line oriented. A line of the form "[NAME]" opens a section;
// every other non-blank line belongs to the most recently opened section as
// a raw "key=value" string. Interpretation of those strings is left to the
// draft package.
package wif

import (
	"io"
	"regexp"
	"sort"
	"strings"
)

var headerPattern = regexp.MustCompile(`^\[.*\]$`)

// Sections maps an upper-cased section name to its trimmed raw lines.
type Sections map[string][]string

// Parse never fails. Content before the first header is dropped, and a
// repeated header discards whatever was collected under that name so far.
func Parse(text string) Sections {
	sections := make(Sections)
	current := ""
	open := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if trimmed == "" {
			continue
		}

		if headerPattern.MatchString(trimmed) {
			current = strings.ToUpper(strings.TrimSpace(trimmed[1 : len(trimmed)-1]))
			sections[current] = []string{}
			open = true
			continue
		}

		if !open {
			continue
		}
		sections[current] = append(sections[current], trimmed)
	}

	return sections
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader) (Sections, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Lines returns the lines of the named section, or nil.
func (s Sections) Lines(name string) []string {
	return s[strings.ToUpper(strings.TrimSpace(name))]
}

// Names returns the section names in sorted order.
func (s Sections) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SplitKeyValue splits a raw line at its first '='.
func SplitKeyValue(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
