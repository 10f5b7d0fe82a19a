// Package document defines the in-memory node tree for a diagram.
//
// A document is an ordered tree of nodes. Each node is one of a closed set
// of kinds (group, shape, text, path, use, style, rule) and carries an
// optional unique id, an ordered class list, an optional grid placement,
// and a bag of raw attributes. Every downstream pass (template expansion,
// style cascade, layout, primitive emission) operates on this tree.
//
// The package deliberately knows nothing about the textual source syntax:
// trees arrive from an external parser (see pkg/docio for the JSON form)
// and leave as positioned primitives.
//
// # Invariants
//
// Node ids, where present, are unique across the whole tree once templates
// have been expanded; [Validate] enforces this along with per-kind
// structural rules (style and rule nodes never carry a grid placement).
package document
