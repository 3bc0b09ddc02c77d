package python

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed mapping.toml
var mappingData []byte

var (
	defaultMapper *Mapper
	mapperOnce    sync.Once
)

// Mapper translates import names to installable PyPI package names.
// The zero value is not usable; construct with NewMapper or use Default.
// A Mapper is immutable after construction and safe for concurrent use.
type Mapper struct {
	table map[string]string
}

// NewMapper creates a Mapper from the embedded table merged with extra
// entries. Extra entries override embedded ones with the same import name,
// letting project configuration extend the table without code changes.
func NewMapper(extra map[string]string) *Mapper {
	base := builtinTable()
	table := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		table[k] = v
	}
	for k, v := range extra {
		table[k] = v
	}
	return &Mapper{table: table}
}

// Default returns the Mapper backed by the embedded table alone.
func Default() *Mapper {
	mapperOnce.Do(func() {
		defaultMapper = &Mapper{table: builtinTable()}
	})
	return defaultMapper
}

// MapToPackage returns the installable package name for an import name.
// Names absent from the table map to themselves.
func (m *Mapper) MapToPackage(importName string) string {
	if pkg, ok := m.table[importName]; ok {
		return pkg
	}
	return importName
}

// Len returns the number of explicit mappings in the table.
func (m *Mapper) Len() int { return len(m.table) }

func builtinTable() map[string]string {
	var doc struct {
		Mappings map[string]string `toml:"mappings"`
	}
	if err := toml.Unmarshal(mappingData, &doc); err != nil {
		// A decode failure here means a broken build.
		panic(fmt.Sprintf("python: embedded mapping.toml: %v", err))
	}
	return doc.Mappings
}
