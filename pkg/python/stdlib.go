// Package python holds static knowledge about the Python ecosystem: which
// top-level modules ship with the interpreter, and how import names map to
// installable PyPI package names.
//
// Both tables are embedded data assets, immutable after initialization.
// The standard-library set tracks CPython 3.12 and is a known approximation:
// exact membership varies across interpreter versions, and keeping the list
// current is a maintenance task, not something resolved at runtime.
package python

import (
	"bufio"
	_ "embed"
	"maps"
	"slices"
	"strings"
	"sync"
)

//go:embed stdlib_modules.txt
var stdlibModulesData string

var (
	stdlibModules map[string]bool
	stdlibOnce    sync.Once
)

func initStdlibModules() {
	stdlibModules = make(map[string]bool, 256)
	scanner := bufio.NewScanner(strings.NewReader(stdlibModulesData))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" && !strings.HasPrefix(name, "#") {
			stdlibModules[name] = true
		}
	}
}

// IsStdlib reports whether an import name belongs to the Python standard
// library. Dotted names are reduced to their top-level segment first, so
// "os.path" and "os" classify identically.
//
// The classifier takes precedence over the mapping table: a name that is
// both a stdlib module and a PyPI package is always treated as stdlib.
func IsStdlib(module string) bool {
	stdlibOnce.Do(initStdlibModules)

	if idx := strings.Index(module, "."); idx > 0 {
		module = module[:idx]
	}
	return stdlibModules[module]
}

// StdlibModules returns a sorted copy of all known stdlib module names.
func StdlibModules() []string {
	stdlibOnce.Do(initStdlibModules)
	return slices.Sorted(maps.Keys(stdlibModules))
}
