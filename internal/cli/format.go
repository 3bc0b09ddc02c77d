package cli

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reqsmith/reqsmith/pkg/errors"
)

// Output formats for report-producing commands.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeReport serializes a report for --format json|yaml. The text format
// is handled by each command's own printer, so it is a no-op here.
func writeReport(w io.Writer, format string, report any) error {
	switch format {
	case formatText:
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(report)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want text, json, or yaml)", format)
	}
}
