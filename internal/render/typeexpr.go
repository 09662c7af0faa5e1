package render

import (
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/typeexpr"
)

// TypeNodes renders a type expression. Four mutually exclusive cases, in
// priority order: a linked generic links its base name and recurses into
// the bracketed arguments; a linked leaf links the whole display text; an
// unlinked parent renders either as a union (members joined by " | ") or
// as a generic whose base is resolved by scanning; an unlinked leaf is
// scanned in full.
func (b *Builder) TypeNodes(t *ir.TypeExpr) []*doctree.Node {
	if t == nil {
		return nil
	}

	switch {
	case t.LinkTarget != nil && len(t.Children) > 0:
		base := t.Display
		if i := strings.Index(base, "["); i >= 0 {
			base = base[:i]
		}
		nodes := []*doctree.Node{
			doctree.Reference(base, t.LinkTarget.Fqn, refTypeForKind(t.LinkTarget.Kind)),
		}
		return append(nodes, b.childNodes(t.Children)...)

	case t.LinkTarget != nil:
		return []*doctree.Node{
			doctree.Reference(t.Display, t.LinkTarget.Fqn, refTypeForKind(t.LinkTarget.Kind)),
		}

	case len(t.Children) > 0:
		if hasTopLevelUnion(t.Display) {
			var nodes []*doctree.Node
			for i := range t.Children {
				if i > 0 {
					nodes = append(nodes, doctree.Text(" | "))
				}
				nodes = append(nodes, b.TypeNodes(&t.Children[i])...)
			}
			return nodes
		}
		base := t.Display
		if i := strings.Index(base, "["); i >= 0 {
			base = base[:i]
		}
		return append(b.scanNodes(base), b.childNodes(t.Children)...)

	default:
		return b.scanNodes(t.Display)
	}
}

// childNodes renders generic arguments: "[", the children separated by
// ", ", then "]".
func (b *Builder) childNodes(children []ir.TypeExpr) []*doctree.Node {
	nodes := []*doctree.Node{doctree.Text("[")}
	for i := range children {
		if i > 0 {
			nodes = append(nodes, doctree.Text(", "))
		}
		nodes = append(nodes, b.TypeNodes(&children[i])...)
	}
	return append(nodes, doctree.Text("]"))
}

// scanNodes renders a flat display string through the scanner, coalescing
// runs of plain fragments into single text nodes.
func (b *Builder) scanNodes(display string) []*doctree.Node {
	var nodes []*doctree.Node
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			nodes = append(nodes, doctree.Text(plain.String()))
			plain.Reset()
		}
	}

	for _, frag := range b.res.Scan(display) {
		if frag.Kind == typeexpr.LinkNone {
			plain.WriteString(frag.Text)
			continue
		}
		flush()
		nodes = append(nodes, doctree.Reference(frag.Text, frag.Target, refTypeForLink(frag.Kind)))
	}
	flush()
	return nodes
}

// hasTopLevelUnion reports whether the display text joins union members
// with " | " outside any brackets.
func hasTopLevelUnion(display string) bool {
	depth := 0
	for i := 0; i+3 <= len(display); i++ {
		switch display[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ' ':
			if depth == 0 && display[i:i+3] == " | " {
				return true
			}
		}
	}
	return false
}
