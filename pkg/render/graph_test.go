package render

import (
	"strings"
	"testing"

	"github.com/reqsmith/reqsmith/pkg/scan"
)

func testResult() *scan.Result {
	return &scan.Result{
		Imports: []string{"bs4", "os", "requests"},
		FileImports: map[string][]string{
			"app.py":   {"bs4", "os"},
			"http.py":  {"requests"},
			"empty.py": {"sys"},
		},
		Files: 3,
	}
}

func TestBuild(t *testing.T) {
	g := Build("demo", testResult(), nil)

	if len(g.Packages) != 2 {
		t.Fatalf("Packages = %v, want [beautifulsoup4 requests]", g.Packages)
	}
	if g.Packages[0] != "beautifulsoup4" || g.Packages[1] != "requests" {
		t.Errorf("Packages = %v", g.Packages)
	}
	// Files importing only stdlib fall out entirely.
	if _, ok := g.FilePackages["empty.py"]; ok {
		t.Error("stdlib-only file should not appear in the graph")
	}
	if got := g.FilePackages["app.py"]; len(got) != 1 || got[0] != "beautifulsoup4" {
		t.Errorf("FilePackages[app.py] = %v", got)
	}
}

func TestToDOT(t *testing.T) {
	g := Build("demo", testResult(), nil)
	dot := g.ToDOT(Options{})

	for _, want := range []string{
		`"demo"`,
		`"demo" -> "beautifulsoup4";`,
		`"demo" -> "requests";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "app.py") {
		t.Error("file nodes should only appear in detailed mode")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := Build("demo", testResult(), nil)
	dot := g.ToDOT(Options{Detailed: true})

	for _, want := range []string{
		`"demo" -> "app.py";`,
		`"app.py" -> "beautifulsoup4";`,
		`"http.py" -> "requests";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	g := Build("demo", testResult(), nil)
	if g.ToDOT(Options{Detailed: true}) != g.ToDOT(Options{Detailed: true}) {
		t.Error("DOT output should be stable across calls")
	}
}
