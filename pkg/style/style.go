// Package style implements the style cascade: named style definitions,
// class/id rules, and the resolution of final presentation attributes for
// every node of a document.
//
// Resolution precedence, ascending:
//
//  1. Properties from class-matching rules, in rule declaration order
//     (later overrides earlier on conflicting keys).
//  2. Properties from id-matching rules (id beats class regardless of
//     declaration order).
//  3. The node's own inline attributes.
//
// A sheet is read-only once built for a document; the layout engine only
// ever reads the annotations this package leaves on the tree.
package style

import (
	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
)

// Def is a named bag of presentation properties (border width and colour,
// fill, corner rounding, padding, margin, ...), addressable from rules.
type Def struct {
	Name  string
	Props document.Attributes
}

// Rule pairs a selector with either a direct property set or a reference
// to a Def. Exactly one of Class and ID is set.
type Rule struct {
	Class string // matches nodes carrying this class
	ID    string // matches the node with this id
	Ref   string // optional reference to a Def by name
	Props document.Attributes
}

// Sheet holds a document's style declarations in declaration order.
type Sheet struct {
	defs  map[string]document.Attributes
	rules []Rule
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{defs: map[string]document.Attributes{}}
}

// AddDef registers a named style definition.
func (s *Sheet) AddDef(name string, props document.Attributes) error {
	if name == "" {
		return errors.New(errors.ErrCodeStructural, "style definition without an id")
	}
	if _, ok := s.defs[name]; ok {
		return errors.New(errors.ErrCodeStructural, "style %q defined twice", name)
	}
	s.defs[name] = props.Clone()
	return nil
}

// AddRule appends a rule. Declaration order is the tie-break for matches
// of equal specificity.
func (s *Sheet) AddRule(r Rule) {
	s.rules = append(s.rules, r)
}

// selector attribute keys on rule nodes.
const (
	attrClass = "class"
	attrID    = "id"
	attrStyle = "style"
)

// Build collects the style and rule nodes of a tree, in declaration
// order, into a sheet. The tree itself is not modified.
func Build(root *document.Node) (*Sheet, error) {
	s := NewSheet()
	err := root.Walk(func(n *document.Node) error {
		switch n.Kind {
		case document.KindStyleDef:
			return s.AddDef(n.ID, n.Attrs)
		case document.KindRule:
			r := Rule{Props: document.Attributes{}}
			r.Class, _ = n.Attrs.String(attrClass)
			r.ID, _ = n.Attrs.String(attrID)
			r.Ref, _ = n.Attrs.String(attrStyle)
			for k, v := range n.Attrs.Clone() {
				if k == attrClass || k == attrID || k == attrStyle {
					continue
				}
				r.Props[k] = v
			}
			s.AddRule(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ruleProps resolves the property set a rule contributes: the referenced
// definition's properties, overridden by the rule's direct properties.
func (s *Sheet) ruleProps(r Rule) (document.Attributes, error) {
	if r.Ref == "" {
		return r.Props, nil
	}
	def, ok := s.defs[r.Ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnresolvedStyle,
			"rule references undefined style %q", r.Ref)
	}
	return def.Merged(r.Props), nil
}

// ResolveNode computes the final attributes for a single node.
func (s *Sheet) ResolveNode(n *document.Node) (document.Attributes, error) {
	out := document.Attributes{}

	for _, r := range s.rules {
		if r.Class == "" || !n.HasClass(r.Class) {
			continue
		}
		props, err := s.ruleProps(r)
		if err != nil {
			return nil, err
		}
		out = out.Merged(props)
	}
	for _, r := range s.rules {
		if r.ID == "" || n.ID == "" || r.ID != n.ID {
			continue
		}
		props, err := s.ruleProps(r)
		if err != nil {
			return nil, err
		}
		out = out.Merged(props)
	}
	return out.Merged(n.Attrs), nil
}

// Resolve annotates every drawable node of the tree with its final
// attributes. The tree shape is unchanged; style and rule nodes are left
// untouched. Fails only when a rule references an undefined style.
func (s *Sheet) Resolve(root *document.Node) error {
	return root.Walk(func(n *document.Node) error {
		switch n.Kind {
		case document.KindStyleDef, document.KindRule:
			return nil
		}
		resolved, err := s.ResolveNode(n)
		if err != nil {
			return err
		}
		n.Resolved = resolved
		return nil
	})
}
