package reconcile

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// pyproject is the slice of pyproject.toml we care about. Poetry keeps the
// name under [tool.poetry] instead of the standard [project] table.
type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ProjectName returns the project name declared in dir's pyproject.toml,
// falling back to the directory's base name when the file is absent or
// carries no name.
func ProjectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err == nil {
		var pp pyproject
		if toml.Unmarshal(data, &pp) == nil {
			if pp.Project.Name != "" {
				return pp.Project.Name
			}
			if pp.Tool.Poetry.Name != "" {
				return pp.Tool.Poetry.Name
			}
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Base(dir)
	}
	return filepath.Base(abs)
}
