// Package docio reads parsed diagram documents and writes rendered
// artifacts.
//
// The textual diagram language is tokenized by an external parser; what
// arrives here is its output: a JSON tree of nodes with raw attributes,
// plus the document's template definitions. This package decodes that
// form into the document model and leaves all semantic validation to the
// compilation pipeline.
package docio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
)

// Def is one named template subtree from a defs block.
type Def struct {
	Name string
	Node *document.Node
}

// Document is a parsed diagram ready for compilation.
type Document struct {
	Root *document.Node
	Defs []Def
}

type jsonDoc struct {
	Defs []jsonDef `json:"defs,omitempty"`
	Root *jsonNode `json:"root"`
}

type jsonDef struct {
	Name string    `json:"name"`
	Node *jsonNode `json:"node"`
}

type jsonNode struct {
	Kind     string         `json:"kind"`
	ID       string         `json:"id,omitempty"`
	Classes  []string       `json:"classes,omitempty"`
	Ref      string         `json:"ref,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty"`
	Children []*jsonNode    `json:"children,omitempty"`
}

// ReadJSON decodes a parsed document from r.
//
// The input must be a JSON object with a "root" node and an optional
// "defs" array:
//
//	{
//	  "defs": [{"name": "box", "node": {"kind": "group", ...}}],
//	  "root": {"kind": "group", "children": [
//	    {"kind": "shape", "attrs": {"grid": [1, 1], "width": 20}}
//	  ]}
//	}
//
// Each node has a "kind" (group, shape, text, path, use, style, rule),
// and optional "id", "classes", "ref" (use nodes), "attrs" and
// "children". Grid placement is read from the grid/gridx/gridy
// attributes.
//
// ReadJSON fails with INVALID_INPUT for malformed JSON or unknown kinds
// and with STRUCTURAL for ill-formed placements. It does not run the
// document-level validation (duplicate ids and friends); the pipeline
// does that after template expansion.
func ReadJSON(r io.Reader) (*Document, error) {
	var data jsonDoc
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if data.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}

	root, err := decodeNode(data.Root, "root")
	if err != nil {
		return nil, err
	}
	doc := &Document{Root: root}
	for i, d := range data.Defs {
		if d.Node == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "defs[%d]: missing node", i)
		}
		n, err := decodeNode(d.Node, fmt.Sprintf("defs[%d]", i))
		if err != nil {
			return nil, err
		}
		doc.Defs = append(doc.Defs, Def{Name: d.Name, Node: n})
	}
	return doc, nil
}

func decodeNode(jn *jsonNode, path string) (*document.Node, error) {
	kind, ok := document.KindFromString(jn.Kind)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: unknown node kind %q", path, jn.Kind)
	}

	n := &document.Node{
		Kind:    kind,
		ID:      jn.ID,
		Classes: append([]string(nil), jn.Classes...),
		Ref:     jn.Ref,
		Attrs:   document.Attributes(jn.Attrs),
	}

	placement, err := document.ParsePlacement(n.Attrs)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	n.Placement = placement

	if kind == document.KindUse && n.Ref == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: use node without a ref", path)
	}

	for i, c := range jn.Children {
		child, err := decodeNode(c, fmt.Sprintf("%s/%s[%d]", path, c.Kind, i))
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Import reads a JSON document file at path.
//
// Import opens the file, decodes it using [ReadJSON] and closes the
// file. A missing file reports FILE_NOT_FOUND; decode failures carry
// the same codes as [ReadJSON].
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	doc, err := ReadJSON(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "import %s", path)
	}
	return doc, nil
}
