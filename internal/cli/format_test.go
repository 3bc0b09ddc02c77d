package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/reqsmith/reqsmith/pkg/reconcile"
)

func sampleReport() *reconcile.CheckReport {
	return &reconcile.CheckReport{
		Manifest: "requirements.txt",
		Satisfied: []reconcile.PackageStatus{
			{Name: "requests", Pinned: "2.32.3", Installed: "2.32.3", Status: reconcile.StatusSatisfied},
		},
		Missing: []reconcile.PackageStatus{
			{Name: "zeep", Pinned: "4.2.1", Status: reconcile.StatusMissing},
		},
	}
}

func TestWriteReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, formatJSON, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded reconcile.CheckReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Missing) != 1 || decoded.Missing[0].Name != "zeep" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteReport_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, formatYAML, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded reconcile.CheckReport
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if decoded.Manifest != "requirements.txt" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteReport_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, formatText, sampleReport()); err != nil {
		t.Fatal(err)
	}
	// Text formatting happens in the command printers.
	if buf.Len() != 0 {
		t.Errorf("text format should write nothing here, got %q", buf.String())
	}
}

func TestWriteReport_Unknown(t *testing.T) {
	err := writeReport(&bytes.Buffer{}, "xml", sampleReport())
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("err = %v, want unknown-format error naming xml", err)
	}
}
