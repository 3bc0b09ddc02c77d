// Package render draws the project's dependency picture as a Graphviz
// node-link diagram. The graph is flat: the project points at its
// third-party packages, optionally with the source files in between.
// There is no transitive resolution here, only what the scanner saw.
package render

import (
	"fmt"
	"slices"
	"sort"

	"github.com/reqsmith/reqsmith/pkg/python"
	"github.com/reqsmith/reqsmith/pkg/scan"
)

// Graph is the flat project → file → package structure fed to the
// DOT builder.
type Graph struct {
	Project string

	// Packages is the sorted set of third-party package names.
	Packages []string

	// FilePackages maps each source file to the sorted packages it
	// imports. Only populated edges appear; files importing nothing
	// third-party are dropped.
	FilePackages map[string][]string
}

// Build resolves a scan result into a Graph: stdlib imports are dropped
// and import names are translated to package names. A nil mapper uses
// the built-in table.
func Build(project string, result *scan.Result, mapper *python.Mapper) *Graph {
	if mapper == nil {
		mapper = python.Default()
	}

	g := &Graph{Project: project, FilePackages: make(map[string][]string)}
	seen := make(map[string]bool)
	for file, imports := range result.FileImports {
		var pkgs []string
		for _, imp := range imports {
			if python.IsStdlib(imp) {
				continue
			}
			pkg := mapper.MapToPackage(imp)
			if !slices.Contains(pkgs, pkg) {
				pkgs = append(pkgs, pkg)
			}
			if !seen[pkg] {
				seen[pkg] = true
				g.Packages = append(g.Packages, pkg)
			}
		}
		if len(pkgs) > 0 {
			sort.Strings(pkgs)
			g.FilePackages[file] = pkgs
		}
	}
	sort.Strings(g.Packages)
	return g
}

// Options configures DOT generation.
type Options struct {
	// Detailed draws source files as intermediate nodes between the
	// project and its packages. When false, the project points at
	// packages directly.
	Detailed bool
}

// ToDOT converts the graph to Graphviz DOT. The result can be rendered
// with [RenderSVG] or [RenderPNG].
func (g *Graph) ToDOT(opts Options) string {
	var buf []byte
	w := func(format string, args ...any) {
		buf = fmt.Appendf(buf, format, args...)
	}

	w("digraph G {\n")
	w("  rankdir=LR;\n")
	w("  bgcolor=\"transparent\";\n")
	w("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	w("  ranksep=0.6;\n")
	w("  nodesep=0.3;\n\n")

	w("  %q [style=\"rounded,filled,bold\", fillcolor=lightblue];\n", g.Project)
	for _, pkg := range g.Packages {
		w("  %q;\n", pkg)
	}

	if !opts.Detailed {
		w("\n")
		for _, pkg := range g.Packages {
			w("  %q -> %q;\n", g.Project, pkg)
		}
		w("}\n")
		return string(buf)
	}

	files := make([]string, 0, len(g.FilePackages))
	for file := range g.FilePackages {
		files = append(files, file)
	}
	sort.Strings(files)

	w("\n")
	for _, file := range files {
		w("  %q [style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", file)
	}
	w("\n")
	for _, file := range files {
		w("  %q -> %q;\n", g.Project, file)
		for _, pkg := range g.FilePackages[file] {
			w("  %q -> %q;\n", file, pkg)
		}
	}
	w("}\n")
	return string(buf)
}
