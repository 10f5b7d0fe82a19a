package document

import (
	"fmt"

	"github.com/atthecodeface/diagramc/pkg/errors"
)

// Kind identifies the variant of a node. The set is closed: every pass
// switches exhaustively over it, so an unhandled kind is a programming
// error, not user input.
type Kind int

// Node kinds.
const (
	KindGroup Kind = iota
	KindShape
	KindText
	KindPath
	KindUse
	KindStyleDef
	KindRule
)

var kindNames = map[Kind]string{
	KindGroup:    "group",
	KindShape:    "shape",
	KindText:     "text",
	KindPath:     "path",
	KindUse:      "use",
	KindStyleDef: "style",
	KindRule:     "rule",
}

// String returns the source-language name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindFromString maps a source-language kind name to its Kind.
func KindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Node is one element of the document tree.
type Node struct {
	Kind    Kind
	ID      string   // optional; unique across the expanded document
	Classes []string // ordered class list for rule matching

	// Placement on the parent's grid; nil for unplaced nodes (the root,
	// style declarations, rules).
	Placement *Placement

	// Ref names the referenced template for KindUse nodes.
	Ref string

	// Attrs are the node's raw inline attributes.
	Attrs Attributes

	// Resolved holds the final presentation attributes once the style
	// cascade has run; nil before that.
	Resolved Attributes

	Children []*Node
}

// Label identifies the node for error reporting: the kind name, suffixed
// with #id when an id is present.
func (n *Node) Label() string {
	if n.ID != "" {
		return fmt.Sprintf("%s#%s", n.Kind, n.ID)
	}
	return n.Kind.String()
}

// HasClass reports whether name appears in the node's class list.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node and all its descendants. Nothing
// is shared with the original: attribute bags, class lists, and placements
// are all copied.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:     n.Kind,
		ID:       n.ID,
		Ref:      n.Ref,
		Attrs:    n.Attrs.Clone(),
		Resolved: n.Resolved.Clone(),
	}
	if n.Classes != nil {
		out.Classes = append([]string(nil), n.Classes...)
	}
	if n.Placement != nil {
		p := *n.Placement
		out.Placement = &p
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Walk visits the node and its descendants depth-first, children in
// declaration order. Traversal stops at the first error.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the structural invariants of a (template-free) tree:
//   - style and rule nodes carry no grid placement
//   - rule nodes name a class or id selector
//   - style nodes are named by an id
//   - use nodes do not appear (the tree must be expanded first)
//   - ids are unique across the whole tree
//
// All violations report ErrCodeStructural.
func Validate(root *Node) error {
	seen := map[string]string{}
	return root.Walk(func(n *Node) error {
		switch n.Kind {
		case KindStyleDef, KindRule:
			if n.Placement != nil {
				return errors.New(errors.ErrCodeStructural,
					"%s: %s nodes do not accept a grid placement", n.Label(), n.Kind)
			}
		case KindUse:
			return errors.New(errors.ErrCodeStructural,
				"%s: unexpanded use node in validated tree", n.Label())
		case KindGroup, KindShape, KindText, KindPath:
			// placement optional
		}
		if n.Kind == KindStyleDef && n.ID == "" {
			return errors.New(errors.ErrCodeStructural, "style definition without an id")
		}
		if n.Kind == KindRule {
			_, hasClass := n.Attrs.String("class")
			_, hasID := n.Attrs.String("id")
			if !hasClass && !hasID {
				return errors.New(errors.ErrCodeStructural, "rule without a class or id selector")
			}
		}
		if n.ID != "" && n.Kind != KindStyleDef {
			if prev, dup := seen[n.ID]; dup {
				return errors.New(errors.ErrCodeStructural,
					"duplicate id %q on %s (already used by %s)", n.ID, n.Label(), prev)
			}
			seen[n.ID] = n.Label()
		}
		return nil
	})
}
