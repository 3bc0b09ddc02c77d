package scan

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/reqsmith/reqsmith/pkg/errors"
)

// moduleRE matches a dotted Python module path.
var moduleRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// parseFile extracts the top-level imported module names from one Python
// source file. The parse covers both statement forms:
//
//	import a.b.c            -> a
//	import a as x, b.c      -> a, b
//	from a.b import c       -> a
//	from . import c         -> (relative, ignored)
//
// A file that cannot be read, is not valid UTF-8, or contains a malformed
// import statement is rejected with a PARSE_SKIPPED error; the caller skips
// it and continues the scan.
func parseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseSkipped, err, "read file")
	}
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrCodeParseSkipped, "not valid UTF-8")
	}
	return parseImports(string(data))
}

// parseImports scans Python source text for import statements.
// Lines inside triple-quoted strings are ignored; backslash continuations
// are joined before parsing.
func parseImports(src string) ([]string, error) {
	seen := make(map[string]bool)

	var inString bool   // inside a triple-quoted string
	var delim string    // active triple-quote delimiter
	var continued string // accumulated backslash-continuation prefix

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if inString {
			if idx := strings.Index(line, delim); idx >= 0 {
				line = line[idx+len(delim):]
				inString = false
			} else {
				continue
			}
		}

		line, inString, delim = stripStrings(line)

		if continued != "" {
			line = continued + " " + strings.TrimSpace(line)
			continued = ""
		}
		if trimmed := strings.TrimSuffix(line, `\`); trimmed != line {
			continued = strings.TrimSpace(trimmed)
			continue
		}

		// A physical line may hold several statements joined by semicolons.
		for _, stmt := range strings.Split(line, ";") {
			if err := parseStatement(strings.TrimSpace(stmt), seen); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseSkipped, err, "read source")
	}

	imports := make([]string, 0, len(seen))
	for imp := range seen {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	return imports, nil
}

// parseStatement records the top-level module of a single import statement.
// Non-import statements are ignored.
func parseStatement(stmt string, seen map[string]bool) error {
	switch {
	case strings.HasPrefix(stmt, "import ") || stmt == "import":
		rest := strings.TrimSpace(strings.TrimPrefix(stmt, "import"))
		if rest == "" {
			return errors.New(errors.ErrCodeParseSkipped, "malformed import statement: %q", stmt)
		}
		for _, clause := range strings.Split(rest, ",") {
			name := strings.TrimSpace(clause)
			// Drop an "as alias" suffix.
			if fields := strings.Fields(name); len(fields) > 0 {
				name = fields[0]
			}
			if !moduleRE.MatchString(name) {
				return errors.New(errors.ErrCodeParseSkipped, "malformed import statement: %q", stmt)
			}
			seen[topLevel(name)] = true
		}

	case strings.HasPrefix(stmt, "from ") || stmt == "from":
		fields := strings.Fields(stmt)
		if len(fields) < 3 || fields[2] != "import" {
			return errors.New(errors.ErrCodeParseSkipped, "malformed from-import statement: %q", stmt)
		}
		module := fields[1]
		if strings.HasPrefix(module, ".") {
			return nil // relative import, not a dependency
		}
		if !moduleRE.MatchString(module) {
			return errors.New(errors.ErrCodeParseSkipped, "malformed from-import statement: %q", stmt)
		}
		seen[topLevel(module)] = true
	}
	return nil
}

// topLevel reduces a dotted module path to its first segment.
func topLevel(module string) string {
	if idx := strings.Index(module, "."); idx > 0 {
		return module[:idx]
	}
	return module
}

// stripStrings removes comments and string contents from a line, tracking
// whether a triple-quoted string remains open at end of line. Only enough
// of Python's string grammar is modeled to keep import detection from
// firing on "import" appearing inside strings or comments.
func stripStrings(line string) (stripped string, open bool, delim string) {
	var b strings.Builder
	i := 0
	for i < len(line) {
		c := line[i]

		if c == '#' {
			break // comment runs to end of line
		}

		if c == '\'' || c == '"' {
			if i+2 < len(line) && line[i+1] == c && line[i+2] == c {
				d := string(c) + string(c) + string(c)
				end := strings.Index(line[i+3:], d)
				if end < 0 {
					return b.String(), true, d
				}
				i += 3 + end + 3
				continue
			}
			// Single-quoted string: skip to the closing quote.
			end := strings.IndexByte(line[i+1:], c)
			if end < 0 {
				break // unterminated, grammar errors surface in parseStatement
			}
			i += 1 + end + 1
			continue
		}

		b.WriteByte(c)
		i++
	}
	return b.String(), false, ""
}
