// Package scan walks a Python project and extracts the set of top-level
// imported module names.
//
// Scanning is tolerant: a single malformed source file is skipped
// and reported, never aborting the walk. Only an unreadable root directory
// is fatal. Files are parsed concurrently; the resulting import set is
// order-independent and deduplicated.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/src-d/enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/observability"
)

// defaultExcludes are directory names pruned from every walk.
var defaultExcludes = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	".idea":         true,
	".vscode":       true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	".tox":          true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	"__pycache__":   true,
	"node_modules":  true,
	"build":         true,
	"dist":          true,
}

// Options configures a project scan.
type Options struct {
	ExcludeDirs []string             // extra directory names to prune
	Concurrency int                  // parallel file parsers (default: GOMAXPROCS)
	Logger      func(string, ...any) // progress/warning callback (optional)
}

// withDefaults returns a copy of Options with zero values replaced.
func (o Options) withDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Result holds the outcome of a project scan.
type Result struct {
	// Imports is the sorted, deduplicated set of top-level import names
	// found across all parsed files, with project-local modules removed.
	Imports []string

	// FileImports maps each parsed file (relative to the scan root) to the
	// sorted imports found in it. Used by the graph command and serve mode.
	FileImports map[string][]string

	// Files is the number of source files parsed.
	Files int

	// Skipped lists files (relative paths) skipped due to parse failures.
	Skipped []string
}

// Has reports whether the import set contains name.
func (r *Result) Has(name string) bool {
	for _, imp := range r.Imports {
		if imp == name {
			return true
		}
	}
	return false
}

// Scan walks rootDir and extracts imports from every Python source file.
//
// Returns a SCAN_FAILED error only when rootDir itself cannot be read.
// Individual file failures are recorded in Result.Skipped.
func Scan(ctx context.Context, rootDir string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	observability.Scan().OnScanStart(ctx, rootDir)

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeScanFailed, err, "resolve %s", rootDir)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		wrapped := errors.Wrap(errors.ErrCodeScanFailed, err, "cannot read directory %s", rootDir)
		observability.Scan().OnScanComplete(ctx, rootDir, 0, 0, time.Since(start), wrapped)
		return nil, wrapped
	}

	files, err := collectSources(root, opts)
	if err != nil {
		wrapped := errors.Wrap(errors.ErrCodeScanFailed, err, "walk %s", rootDir)
		observability.Scan().OnScanComplete(ctx, rootDir, 0, 0, time.Since(start), wrapped)
		return nil, wrapped
	}

	result := &Result{FileImports: make(map[string][]string, len(files))}
	local := localModules(root)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel, _ := filepath.Rel(root, path)

			imports, err := parseFile(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				opts.Logger("skipping %s: %v", rel, err)
				observability.Scan().OnFileSkipped(gctx, rel, err)
				result.Skipped = append(result.Skipped, rel)
				return nil
			}
			result.Files++
			result.FileImports[rel] = imports
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, imports := range result.FileImports {
		for _, imp := range imports {
			if !local[imp] {
				seen[imp] = true
			}
		}
	}
	for imp := range seen {
		result.Imports = append(result.Imports, imp)
	}
	sort.Strings(result.Imports)
	sort.Strings(result.Skipped)

	observability.Scan().OnScanComplete(ctx, rootDir, result.Files, len(result.Imports), time.Since(start), nil)
	return result, nil
}

// collectSources gathers Python source paths under root, pruning excluded
// directories.
func collectSources(root string, opts Options) ([]string, error) {
	excluded := make(map[string]bool, len(defaultExcludes)+len(opts.ExcludeDirs))
	for name := range defaultExcludes {
		excluded[name] = true
	}
	for _, name := range opts.ExcludeDirs {
		excluded[name] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() {
			if path != root && (excluded[d.Name()] || strings.HasSuffix(d.Name(), ".egg-info")) {
				return filepath.SkipDir
			}
			return nil
		}
		if isPythonSource(path, d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// isPythonSource reports whether a file should be parsed for imports.
// Files with a .py/.pyw extension always qualify; extensionless executables
// are confirmed with enry language detection on their leading bytes.
func isPythonSource(path, name string) bool {
	switch filepath.Ext(name) {
	case ".py", ".pyw":
		return true
	case "":
	default:
		return false
	}

	head, err := readHead(path, 512)
	if err != nil || len(head) == 0 {
		return false
	}
	return enry.GetLanguage(name, head) == "Python"
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if read == 0 && err != nil {
		return nil, err
	}
	return buf[:read], nil
}

// localModules returns the names of modules defined by the project itself:
// a foo.py file or a foo/__init__.py package directly under root. Imports of
// these names are the project importing its own code, not dependencies.
func localModules(root string) map[string]bool {
	local := make(map[string]bool)
	entries, err := os.ReadDir(root)
	if err != nil {
		return local
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() {
			if strings.HasSuffix(name, ".py") {
				local[strings.TrimSuffix(name, ".py")] = true
			}
			continue
		}
		if _, err := os.Stat(filepath.Join(root, name, "__init__.py")); err == nil {
			local[name] = true
		}
	}
	return local
}
