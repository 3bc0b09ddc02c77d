// Package manifest reads and writes the flat requirements.txt dependency
// manifest.
//
// The format is one entry per line: a package name, optionally followed by a
// version pin ("requests==2.32.3"). Comment and blank lines are ignored when
// parsing and a malformed line is skipped with a warning, never failing the
// whole parse. Writing is deterministic: entries are sorted by package name.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/reqsmith/reqsmith/pkg/errors"
)

// DefaultFilename is the conventional manifest name.
const DefaultFilename = "requirements.txt"

// entryRE matches a manifest line: name, optional comparison operator and
// version. The name follows PEP 508.
var entryRE = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(==|>=|<=|~=|!=|>|<)?\s*(\S+)?$`)

// Entry is a single manifest line.
type Entry struct {
	Name    string // installable package name
	Op      string // comparison operator, normally "==" (empty if unpinned)
	Version string // pinned version (empty if unpinned)
}

// String renders the entry in manifest form.
func (e Entry) String() string {
	if e.Version == "" {
		return e.Name
	}
	op := e.Op
	if op == "" {
		op = "=="
	}
	return e.Name + op + e.Version
}

// Pinned reports whether the entry carries a version constraint.
func (e Entry) Pinned() bool { return e.Version != "" }

// Manifest is an ordered set of entries, unique by package name.
type Manifest struct {
	Entries []Entry
}

// Names returns the package names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Name
	}
	return names
}

// Get looks up an entry by package name.
func (m *Manifest) Get(name string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Add appends an entry, replacing any existing entry with the same name.
func (m *Manifest) Add(e Entry) {
	for i, existing := range m.Entries {
		if existing.Name == e.Name {
			m.Entries[i] = e
			return
		}
	}
	m.Entries = append(m.Entries, e)
}

// Sort orders entries by package name for deterministic output.
func (m *Manifest) Sort() {
	sort.Slice(m.Entries, func(i, j int) bool {
		return m.Entries[i].Name < m.Entries[j].Name
	})
}

// ParseLine parses one manifest line into an Entry.
// Returns an INVALID_MANIFEST error for lines that don't match the format.
func ParseLine(line string) (Entry, error) {
	m := entryRE.FindStringSubmatch(line)
	if m == nil || (m[2] == "" && m[3] != "") || (m[2] != "" && m[3] == "") {
		return Entry{}, errors.New(errors.ErrCodeInvalidManifest, "malformed manifest line: %s", line)
	}
	return Entry{Name: m[1], Op: m[2], Version: m[3]}, nil
}

// Parse reads a manifest file.
//
// Comments (whole-line and trailing) and blank lines are skipped. A
// malformed line is reported through warn and skipped; parsing continues.
// Pass nil for warn to discard warnings.
func Parse(path string, warn func(format string, args ...any)) (*Manifest, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Manifest{}
	lineno := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		// pip options and URL requirements are outside the flat format.
		if strings.HasPrefix(line, "-") || strings.Contains(line, "://") {
			warn("%s:%d: skipping unsupported line: %s", path, lineno, line)
			continue
		}

		entry, err := ParseLine(line)
		if err != nil {
			warn("%s:%d: %s", path, lineno, errors.UserMessage(err))
			continue
		}
		m.Add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Write renders the manifest to path, sorted by package name.
// The header comment identifies the generating tool and, when known, the
// project name; both are stable across runs so repeated generation of an
// unchanged project produces byte-identical output.
func Write(path string, m *Manifest, project string) error {
	m.Sort()

	var b strings.Builder
	b.WriteString("# Generated by reqsmith\n")
	if project != "" {
		fmt.Fprintf(&b, "# Project: %s\n", project)
	}
	b.WriteString("\n")
	for _, e := range m.Entries {
		b.WriteString(e.String())
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// CompareVersions compares two dotted version strings numerically,
// falling back to string comparison for non-numeric segments.
// Returns -1, 0, or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				return sign(na - nb)
			}
		default:
			if sa != sb {
				if sa < sb {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// Satisfies reports whether an installed version meets the entry's
// constraint. Unpinned entries are satisfied by any installed version.
func (e Entry) Satisfies(installed string) bool {
	if !e.Pinned() {
		return true
	}
	cmp := CompareVersions(installed, e.Version)
	switch e.Op {
	case "==", "":
		return cmp == 0
	case ">=", "~=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case "!=":
		return cmp != 0
	}
	return false
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
