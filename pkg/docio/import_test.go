package docio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
)

const sampleDoc = `{
  "defs": [
    {"name": "box", "node": {"kind": "group", "attrs": {"pad": 2},
      "children": [{"kind": "shape", "attrs": {"width": 10, "height": 10}}]}}
  ],
  "root": {"kind": "group", "id": "top", "children": [
    {"kind": "use", "ref": "box", "id": "a", "attrs": {"grid": [1, 1]}},
    {"kind": "shape", "classes": ["big"], "attrs": {"grid": [2, 1], "width": 20}},
    {"kind": "text", "attrs": {"grid": [1, 2, 3], "text": "hello"}}
  ]}
}`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if len(doc.Defs) != 1 || doc.Defs[0].Name != "box" {
		t.Fatalf("defs = %+v", doc.Defs)
	}
	if doc.Defs[0].Node.Kind != document.KindGroup {
		t.Errorf("def kind = %v", doc.Defs[0].Node.Kind)
	}

	root := doc.Root
	if root.ID != "top" || len(root.Children) != 3 {
		t.Fatalf("root = %+v", root)
	}

	use := root.Children[0]
	if use.Kind != document.KindUse || use.Ref != "box" {
		t.Errorf("use = %+v", use)
	}
	if use.Placement == nil || *use.Placement != (document.Placement{X0: 1, Y0: 1, X1: 2, Y1: 2}) {
		t.Errorf("use placement = %v", use.Placement)
	}

	shape := root.Children[1]
	if !shape.HasClass("big") {
		t.Errorf("shape classes = %v", shape.Classes)
	}
	if w, _ := shape.Attrs.Float("width"); w != 20 {
		t.Errorf("shape width = %v", w)
	}

	text := root.Children[2]
	if text.Placement == nil || *text.Placement != (document.Placement{X0: 1, Y0: 2, X1: 3, Y1: 3}) {
		t.Errorf("text placement = %v", text.Placement)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"root": `, errors.ErrCodeInvalidInput},
		{"no root", `{"defs": []}`, errors.ErrCodeInvalidInput},
		{"unknown kind", `{"root": {"kind": "widget"}}`, errors.ErrCodeInvalidInput},
		{"use without ref", `{"root": {"kind": "use"}}`, errors.ErrCodeInvalidInput},
		{"def without node", `{"defs": [{"name": "x"}], "root": {"kind": "group"}}`, errors.ErrCodeInvalidInput},
		{"bad placement", `{"root": {"kind": "shape", "attrs": {"grid": [0, 1]}}}`, errors.ErrCodeStructural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Import(path)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if doc.Root.ID != "top" {
		t.Errorf("root id = %q", doc.Root.ID)
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	path, err := Export(dir, "timer.json", "svg", []byte("<svg/>"))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filepath.Base(path) != "timer.svg" {
		t.Errorf("path = %q, want basename timer.svg", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("written data = %q, err %v", data, err)
	}
}

func TestExportCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	path, err := Export(dir, "d", "json", []byte("{}"))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}
