// Package template implements the template registry: named, reusable
// subtrees and the expansion of use references into deep, attribute
// overridden copies.
//
// The registry exclusively owns the template subtrees it stores. A use
// node never shares structure with its template: instantiation always
// deep-copies, then re-applies the use node's own id, classes and
// placement, and merges its attributes over the template's.
package template

import (
	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
)

// MaxDepth bounds nested template instantiation. Legitimate diagrams nest
// templates a handful of levels deep; hitting the bound means a reference
// cycle slipped past the name check.
const MaxDepth = 64

// Registry maps template names to defined subtrees.
type Registry struct {
	templates map[string]*document.Node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string]*document.Node{}}
}

// Define registers subtree under name. The registry stores its own deep
// copy, so later mutation of subtree by the caller has no effect. Fails
// with DUPLICATE_TEMPLATE if name is already registered in this scope.
func (r *Registry) Define(name string, subtree *document.Node) error {
	if name == "" {
		return errors.New(errors.ErrCodeStructural, "template definition without a name")
	}
	if _, ok := r.templates[name]; ok {
		return errors.New(errors.ErrCodeDuplicateTemplate,
			"template %q defined twice in the same defs scope", name)
	}
	r.templates[name] = subtree.Clone()
	return nil
}

// Lookup returns the registered subtree for name. The returned node is
// the registry's copy; callers must not mutate it.
func (r *Registry) Lookup(name string) (*document.Node, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// Expand returns a tree with every use node replaced by an instantiated
// copy of its template. Expansion is recursive: templates may themselves
// contain use nodes. A use of an undefined name fails with
// UNRESOLVED_TEMPLATE; a reference cycle (directly or through other
// templates) fails with TEMPLATE_CYCLE.
//
// A tree containing no use nodes is returned unchanged (same pointer).
func (r *Registry) Expand(tree *document.Node) (*document.Node, error) {
	return r.expand(tree, nil, 0)
}

// expand walks the tree. active is the stack of template names currently
// being instantiated, used both for cycle detection and for the depth
// bound backstop.
func (r *Registry) expand(n *document.Node, active []string, depth int) (*document.Node, error) {
	if n.Kind == document.KindUse {
		return r.instantiate(n, active, depth)
	}

	changed := false
	var children []*document.Node
	for _, c := range n.Children {
		nc, err := r.expand(c, active, depth)
		if err != nil {
			return nil, err
		}
		if nc != c {
			changed = true
		}
		children = append(children, nc)
	}
	if !changed {
		return n, nil
	}
	out := *n
	out.Children = children
	return &out, nil
}

// instantiate replaces a use node with a deep copy of its template,
// re-tagged with the use node's identity and placement, attributes merged
// with the use node's winning on identical keys.
func (r *Registry) instantiate(use *document.Node, active []string, depth int) (*document.Node, error) {
	tpl, ok := r.templates[use.Ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnresolvedTemplate,
			"use of undefined template %q", use.Ref)
	}
	for _, name := range active {
		if name == use.Ref {
			return nil, errors.New(errors.ErrCodeTemplateCycle,
				"template %q references itself (via %v)", use.Ref, active)
		}
	}
	if depth >= MaxDepth {
		return nil, errors.New(errors.ErrCodeTemplateCycle,
			"template expansion exceeded depth %d at %q", MaxDepth, use.Ref)
	}

	inst := tpl.Clone()
	inst.ID = use.ID
	inst.Classes = append([]string(nil), use.Classes...)
	if use.Placement != nil {
		p := *use.Placement
		inst.Placement = &p
	} else {
		inst.Placement = nil
	}
	inst.Attrs = tpl.Attrs.Merged(use.Attrs)

	// The instance body may use further templates.
	expanded, err := r.expand(inst, append(active, use.Ref), depth+1)
	if err != nil {
		return nil, err
	}
	return expanded, nil
}
